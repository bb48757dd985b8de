// Package testutil provides a simulated validator host for tests.
//
// # Test Environment
//
// NewTestEnv builds the pieces an App is assembled from, all of them fakes:
//
//	env := testutil.NewTestEnv(t)
//	a := app.New(
//	    app.WithConfig(env.Config),
//	    app.WithFileSystem(env.FS),
//	    app.WithRuntime(env.Runtime),
//	    app.WithProber(env.Prober),
//	    app.WithRPC(env.RPC),
//	    app.WithVerifier(env.Verifier),
//	)
//
// By default rippled runs in a container publishing 5005 and 6006, and
// port 3000 is held by an unrelated process. Native and Missing reshape the
// host.
//
// # Fixtures
//
//	RippledContainer() // the container the default host runs
//	LocalPair()        // 127.0.0.1:5005 and 127.0.0.1:6006
package testutil

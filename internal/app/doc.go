// Package app provides the application context for monitor-ctl.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Config    *config.Config          // Loaded configuration
//	    FS        system.FileSystem       // File system access
//	    Executor  system.CommandExecutor  // Command execution
//	    Runtime   runtime.Runtime         // Container runtime (lazy)
//	    Processes deploy.ProcessLister    // Process table
//	    Prober    port.Prober             // Listening-socket table
//	    RPC       discovery.RPCClient     // HTTP probes
//	    Verifier  discovery.AdminVerifier // Websocket admin probe
//	    Prompter  Prompter                // Operator questions
//	}
//
// # Creating an App
//
//	// Production usage
//	a := app.New(app.WithConfig(cfg), app.WithPrompter(tui.NewPrompter()))
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithFileSystem(system.NewMockFS()),
//	    app.WithRuntime(runtime.NewMockRuntime()),
//	    app.WithProber(port.NewStaticProber(5005, 6006)),
//	)
//
// # Operations
//
//	Detect        // deployment mode and data path
//	Discover      // classify listening ports into the endpoint pair
//	AllocatePorts // host ports for the stack services
//	Install       // the full flow, including writing the stack and state
//	Verify        // re-probe stored endpoints
//	Status        // health of the stored endpoints and container
package app

// Package testutil provides a rippled host environment for tests
package testutil

import (
	"context"
	"testing"

	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/deploy"
	"github.com/rippled-monitor/monitor-ctl/internal/discovery"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
	"github.com/rippled-monitor/monitor-ctl/internal/runtime"
	"github.com/rippled-monitor/monitor-ctl/internal/system"
)

// Fixed locations used by TestEnv. Everything under them lives in the
// mock file system.
const (
	StateDir = "/state"
	StackDir = "/stack"
)

// TestEnv holds the test environment
type TestEnv struct {
	T         *testing.T
	TmpDir    string
	Config    *config.Config
	FS        *system.MockFS
	Exec      *system.MockExecutor
	Runtime   *runtime.MockRuntime
	Processes *deploy.StaticProcesses
	Prober    *port.StaticProber
	RPC       *FakeRPC
	Verifier  *FakeVerifier
}

// NewTestEnv creates a host where rippled runs in a container publishing
// 5005 (HTTP RPC), 6006 (admin websocket) and the peer port, and where
// something else already holds 3000.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	cfg := config.Default()
	cfg.StateDir = StateDir
	cfg.Stack.Dir = StackDir

	rt := runtime.NewMockRuntime()
	rt.AddContainer(RippledContainer())

	fs := system.NewMockFS()
	fs.AddDir("/srv/rippled")

	return &TestEnv{
		T:         t,
		TmpDir:    t.TempDir(),
		Config:    cfg,
		FS:        fs,
		Exec:      system.NewMockExecutor(),
		Runtime:   rt,
		Processes: deploy.NewStaticProcesses(),
		Prober:    port.NewStaticProber(3000, 5005, 6006, config.DefaultPeerPort),
		RPC:       &FakeRPC{RPCPort: 5005, Banners: map[int]string{6006: "rippled websocket"}},
		Verifier:  &FakeVerifier{Admin: map[int]bool{6006: true}},
	}
}

// Native turns the host into one where rippled runs as a plain process.
func (e *TestEnv) Native() {
	e.Runtime.Reset()
	e.Processes.List = []deploy.Process{{PID: 4242, Name: "rippled"}}
}

// Missing removes rippled from the host entirely.
func (e *TestEnv) Missing() {
	e.Runtime.Reset()
	e.Processes.List = nil
}

// FakeRPC answers server_info on one port and serves banners from a map.
type FakeRPC struct {
	RPCPort int
	Banners map[int]string
}

func (f *FakeRPC) ServerInfo(_ context.Context, ep endpoint.Endpoint) (bool, error) {
	return ep.Port == f.RPCPort, nil
}

func (f *FakeRPC) Banner(_ context.Context, ep endpoint.Endpoint) (string, error) {
	return f.Banners[ep.Port], nil
}

// FakeVerifier classifies the ports in Admin as admin and the rest as
// public.
type FakeVerifier struct {
	Admin map[int]bool
}

func (f *FakeVerifier) Supported() bool { return true }

func (f *FakeVerifier) Verify(_ context.Context, ep endpoint.Endpoint) discovery.Verdict {
	if f.Admin[ep.Port] {
		return discovery.VerdictAdmin
	}
	return discovery.VerdictPublic
}

var (
	_ discovery.RPCClient     = (*FakeRPC)(nil)
	_ discovery.AdminVerifier = (*FakeVerifier)(nil)
)

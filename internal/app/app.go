// Package app provides the application context for monitor-ctl.
// It allows dependency injection for testing.
package app

import (
	"context"

	"github.com/rippled-monitor/monitor-ctl/internal/audit"
	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/deploy"
	"github.com/rippled-monitor/monitor-ctl/internal/discovery"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/logging"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
	"github.com/rippled-monitor/monitor-ctl/internal/runtime"
	"github.com/rippled-monitor/monitor-ctl/internal/state"
	"github.com/rippled-monitor/monitor-ctl/internal/system"
)

// App holds the application dependencies
type App struct {
	// Config is the loaded configuration
	Config *config.Config

	FS       system.FileSystem
	Executor system.CommandExecutor

	// Runtime is the container runtime. When nil it is detected on first
	// use from Config.Runtime.
	Runtime runtime.Runtime

	Processes deploy.ProcessLister
	Prober    port.Prober
	RPC       discovery.RPCClient
	Verifier  discovery.AdminVerifier

	// Prompter answers the interactive questions. Defaults to AutoPrompter.
	Prompter Prompter

	// Audit records installs, verifications and health changes. Nil
	// disables it.
	Audit *audit.Logger

	runtimeTried bool
	runtimeErr   error
}

// Option is a function that configures the App
type Option func(*App)

// WithConfig sets the configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithFileSystem sets the file system
func WithFileSystem(fs system.FileSystem) Option {
	return func(a *App) {
		a.FS = fs
	}
}

// WithExecutor sets the command executor
func WithExecutor(exec system.CommandExecutor) Option {
	return func(a *App) {
		a.Executor = exec
	}
}

// WithRuntime sets a custom runtime
func WithRuntime(r runtime.Runtime) Option {
	return func(a *App) {
		a.Runtime = r
	}
}

// WithProcesses sets the process lister
func WithProcesses(p deploy.ProcessLister) Option {
	return func(a *App) {
		a.Processes = p
	}
}

// WithProber sets the socket-table prober
func WithProber(p port.Prober) Option {
	return func(a *App) {
		a.Prober = p
	}
}

// WithRPC sets the HTTP RPC client
func WithRPC(c discovery.RPCClient) Option {
	return func(a *App) {
		a.RPC = c
	}
}

// WithVerifier sets the websocket admin verifier
func WithVerifier(v discovery.AdminVerifier) Option {
	return func(a *App) {
		a.Verifier = v
	}
}

// WithPrompter sets the prompter
func WithPrompter(p Prompter) Option {
	return func(a *App) {
		a.Prompter = p
	}
}

// WithAudit sets the audit logger
func WithAudit(l *audit.Logger) Option {
	return func(a *App) {
		a.Audit = l
	}
}

// New creates a new App with the given options.
// Dependencies not provided are filled with the host implementations.
func New(opts ...Option) *App {
	app := &App{}

	for _, opt := range opts {
		opt(app)
	}

	if app.Config == nil {
		app.Config = config.Default()
	}
	if app.FS == nil {
		app.FS = system.DefaultFS()
	}
	if app.Executor == nil {
		app.Executor = system.DefaultExecutor()
	}
	if app.Processes == nil {
		app.Processes = deploy.HostProcesses{}
	}
	if app.Prober == nil {
		app.Prober = port.NewSystemProber()
	}
	if app.RPC == nil {
		app.RPC = discovery.NewHTTPClient(app.Config.Discovery.ProbeTimeout)
	}
	if app.Verifier == nil {
		app.Verifier = discovery.NewWSVerifier(app.Config.Discovery.WSTimeout)
	}
	if app.Prompter == nil {
		app.Prompter = AutoPrompter
	}

	return app
}

// ContainerRuntime returns the container runtime, detecting it on first use.
// A nil runtime comes with the detection error; callers treat that as a
// host without container capability.
func (a *App) ContainerRuntime(ctx context.Context) (runtime.Runtime, error) {
	if a.Runtime != nil || a.runtimeTried {
		return a.Runtime, a.runtimeErr
	}
	a.runtimeTried = true

	rt, err := runtime.New(ctx, &runtime.Config{
		Type:     runtime.RuntimeType(a.Config.Runtime),
		Executor: a.Executor,
	})
	if err != nil {
		logging.Debug("failed to initialize runtime", "error", err)
		a.runtimeErr = err
		return nil, err
	}
	a.Runtime = rt
	return rt, nil
}

// Store returns the state store under the configured state directory.
func (a *App) Store() *state.Store {
	return state.NewStore(a.FS, a.Config.StateDir)
}

// LoadState returns the saved state of the configured project, or nil when
// nothing has been saved yet.
func (a *App) LoadState() (*state.State, error) {
	st, err := a.Store().Load(a.Config.Stack.Project)
	if errors.Is(err, state.ErrNoState) {
		return nil, nil
	}
	return st, err
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}

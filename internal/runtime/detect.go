package runtime

import (
	"context"
	"fmt"

	"github.com/rippled-monitor/monitor-ctl/internal/logging"
	"github.com/rippled-monitor/monitor-ctl/internal/system"
)

// RuntimeType identifies which container runtime to use
type RuntimeType string

const (
	RuntimeEngine RuntimeType = "engine"
	RuntimeDocker RuntimeType = "docker"
	RuntimePodman RuntimeType = "podman"
	RuntimeAuto   RuntimeType = "auto"
)

// Config holds runtime configuration
type Config struct {
	// Type specifies which runtime to use (or "auto" for auto-detection)
	Type RuntimeType

	// Executor runs the CLI fallback. Defaults to system.DefaultExecutor().
	Executor system.CommandExecutor
}

// DefaultConfig returns the default runtime configuration
func DefaultConfig() *Config {
	return &Config{
		Type:     RuntimeAuto,
		Executor: system.DefaultExecutor(),
	}
}

// New creates a Runtime based on the configuration.
// With RuntimeAuto it tries the engine API first, then podman, then docker.
// An error means no container capability exists on this host.
func New(ctx context.Context, cfg *Config) (Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	exec := cfg.Executor
	if exec == nil {
		exec = system.DefaultExecutor()
	}

	logging.Debug("creating runtime", "type", cfg.Type)

	switch cfg.Type {
	case RuntimeEngine:
		return NewEngineRuntime(ctx)

	case RuntimeDocker, RuntimePodman:
		if _, err := exec.LookPath(string(cfg.Type)); err != nil {
			return nil, fmt.Errorf("%s not found in PATH: %w", cfg.Type, err)
		}
		return &CLIRuntime{Command: string(cfg.Type), exec: exec}, nil

	case RuntimeAuto, "":
		rt, err := NewEngineRuntime(ctx)
		if err == nil {
			logging.Debug("detected docker engine")
			return rt, nil
		}
		logging.Debug("docker engine not available", "error", err)
		return NewCLIRuntime(exec)

	default:
		return nil, fmt.Errorf("unknown runtime type: %s", cfg.Type)
	}
}

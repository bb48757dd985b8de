package stack

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/logging"
	"github.com/rippled-monitor/monitor-ctl/internal/system"
)

// Launcher starts the stack with docker compose.
type Launcher struct {
	exec    system.CommandExecutor
	fs      system.FileSystem
	dir     string
	project string
}

// NewLauncher creates a launcher for the stack in dir.
func NewLauncher(exec system.CommandExecutor, fs system.FileSystem, dir, project string) *Launcher {
	if exec == nil {
		exec = system.DefaultExecutor()
	}
	if fs == nil {
		fs = system.DefaultFS()
	}
	return &Launcher{exec: exec, fs: fs, dir: dir, project: project}
}

// Args returns the docker arguments that bring the stack up.
func (l *Launcher) Args() []string {
	return []string{
		"compose",
		"-p", l.project,
		"-f", BaseFile,
		"-f", OverrideFile,
		"up", "-d",
	}
}

// Command returns the full command line, quoted for a shell.
func (l *Launcher) Command() string {
	return shellquote.Join(append([]string{"docker"}, l.Args()...)...)
}

// Up runs docker compose up in the stack directory.
func (l *Launcher) Up(ctx context.Context) error {
	if _, err := l.exec.LookPath("docker"); err != nil {
		return errors.ContainerFailed("compose up", fmt.Errorf("docker not found in PATH: %w", err))
	}
	if !l.fs.Exists(filepath.Join(l.dir, BaseFile)) {
		return errors.ContainerFailed("compose up", fmt.Errorf("%s not found in %s", BaseFile, l.dir))
	}

	logging.Info("starting stack", "dir", l.dir, "command", l.Command())
	out, err := l.exec.ExecuteInDir(ctx, l.dir, "docker", l.Args()...)
	if err != nil {
		return errors.ContainerFailed("compose up", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out))))
	}
	return nil
}

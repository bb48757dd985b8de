package system

import (
	"context"
	"os/exec"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/rippled-monitor/monitor-ctl/internal/logging"
)

// osExecutor runs host commands and logs each one at debug level.
type osExecutor struct{}

func (e *osExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	return e.run(exec.CommandContext(ctx, name, args...))
}

func (e *osExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return e.run(cmd)
}

func (e *osExecutor) run(cmd *exec.Cmd) ([]byte, error) {
	start := time.Now()
	out, err := cmd.CombinedOutput()
	logging.Debug("exec",
		"cmd", shellquote.Join(cmd.Args...),
		"dir", cmd.Dir,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"err", err)
	return out, err
}

func (e *osExecutor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

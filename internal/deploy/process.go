package deploy

import (
	"context"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/rippled-monitor/monitor-ctl/internal/logging"
)

// Process is one entry of the OS process table.
type Process struct {
	PID  int32
	Name string
}

// ProcessLister lists the running processes.
type ProcessLister interface {
	Processes(ctx context.Context) ([]Process, error)
}

// HostProcesses reads the process table with gopsutil.
type HostProcesses struct{}

// Processes returns every process whose name can be read. Processes that
// exit or deny access while being listed are skipped.
func (HostProcesses) Processes(ctx context.Context) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Process, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			logging.Debug("skipping process", "pid", p.Pid, "error", err)
			continue
		}
		out = append(out, Process{PID: p.Pid, Name: name})
	}
	return out, nil
}

// StaticProcesses is a fixed process table for tests.
type StaticProcesses struct {
	List []Process
	Err  error
}

// NewStaticProcesses builds a table with one process per name.
func NewStaticProcesses(names ...string) *StaticProcesses {
	s := &StaticProcesses{}
	for i, n := range names {
		s.List = append(s.List, Process{PID: int32(100 + i), Name: n})
	}
	return s
}

func (s *StaticProcesses) Processes(ctx context.Context) ([]Process, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.List, nil
}

var (
	_ ProcessLister = HostProcesses{}
	_ ProcessLister = (*StaticProcesses)(nil)
)

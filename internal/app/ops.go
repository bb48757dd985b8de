package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rippled-monitor/monitor-ctl/internal/audit"
	"github.com/rippled-monitor/monitor-ctl/internal/deploy"
	"github.com/rippled-monitor/monitor-ctl/internal/discovery"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/health"
	"github.com/rippled-monitor/monitor-ctl/internal/logging"
	"github.com/rippled-monitor/monitor-ctl/internal/monitor"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
	"github.com/rippled-monitor/monitor-ctl/internal/runtime"
	"github.com/rippled-monitor/monitor-ctl/internal/state"
)

// Detect finds the target and how it is deployed. A missing container
// runtime is reported as a warning and detection falls through to the
// process table.
func (a *App) Detect(ctx context.Context) (*deploy.Descriptor, errors.Warnings, error) {
	var warnings errors.Warnings

	rt, err := a.ContainerRuntime(ctx)
	if err != nil {
		warnings.Addf(errors.KindUnreachable, "no container runtime: %v", err)
	}

	desc, ws, err := deploy.NewDetector(a.Config.Target, rt, a.Processes, a.FS).Detect(ctx)
	warnings = append(warnings, ws...)
	return desc, warnings, err
}

// Discover classifies the listening ports of the host. Ports the stack was
// given in prev are skipped so the stack is never mistaken for the target.
func (a *App) Discover(ctx context.Context, desc *deploy.Descriptor, prev *state.State) (*discovery.Result, error) {
	excluding := make(map[int]bool)
	if prev != nil {
		for _, asg := range prev.Assignments {
			excluding[asg.Port] = true
		}
	}

	c := discovery.NewClassifier(a.Config, a.RPC, a.Verifier, a.Prober)
	return c.Discover(ctx, a.Config.DiscoveryDenySet(), excluding, desc)
}

// ReservedPorts returns the ports held by the target: its peer port, its
// published container ports and the discovered endpoints.
func (a *App) ReservedPorts(desc *deploy.Descriptor, pair endpoint.Pair) map[int]string {
	name := a.Config.Target.Name
	reserved := map[int]string{a.Config.Target.PeerPort: name}
	if desc != nil {
		for _, p := range desc.HostPorts {
			reserved[p] = name
		}
	}
	for _, ep := range []*endpoint.Endpoint{pair.HTTP, pair.WS} {
		if ep != nil {
			reserved[ep.Port] = name
		}
	}
	return reserved
}

// AllocatePorts assigns host ports to the stack services. Ports recorded in
// prev become the defaults. A default still published by this project's own
// containers counts as free; any other holder is probed like a stranger.
func (a *App) AllocatePorts(ctx context.Context, prompter port.Prompter, prev *state.State, reserved map[int]string) ([]port.Assignment, errors.Warnings, error) {
	prober := a.Prober
	if owned := a.ownedPorts(ctx, prev); len(owned) > 0 {
		prober = ownedProber{Prober: a.Prober, owned: owned}
	}

	alloc := port.NewAllocator(prober, prompter, port.WithSearchWindow(a.Config.Discovery.SearchWindow))
	return alloc.Allocate(ctx, prev.Requests(a.Config.Stack.Services), reserved)
}

// ownedPorts returns the ports from prev that the stack's running containers
// still publish. Without a container runtime nothing is owned.
func (a *App) ownedPorts(ctx context.Context, prev *state.State) map[int]bool {
	if prev == nil || len(prev.Assignments) == 0 {
		return nil
	}
	rt, err := a.ContainerRuntime(ctx)
	if err != nil {
		logging.Debug("cannot check stack containers", "error", err)
		return nil
	}
	published, err := runtime.ProjectPorts(ctx, rt, a.Config.Stack.Project)
	if err != nil {
		logging.Debug("cannot list stack containers", "error", err)
		return nil
	}

	owned := make(map[int]bool)
	for _, asg := range prev.Assignments {
		if published[asg.Port] {
			owned[asg.Port] = true
		}
	}
	return owned
}

// ownedProber reports ports held by the stack itself as free.
type ownedProber struct {
	port.Prober
	owned map[int]bool
}

func (p ownedProber) IsBound(ctx context.Context, n int) bool {
	if p.owned[n] {
		return false
	}
	return p.Prober.IsBound(ctx, n)
}

func (a *App) checker() *health.Checker {
	return health.NewChecker(a.RPC, a.Config.Discovery.WSTimeout)
}

// Verify re-probes the stored endpoints. Endpoints that answer are marked
// verified, the rest are dropped, and the state is saved again.
func (a *App) Verify(ctx context.Context) (*state.State, errors.Warnings, error) {
	st, err := a.LoadState()
	if err != nil {
		return nil, nil, err
	}
	if st == nil {
		return nil, nil, errors.New(errors.ExitGeneralError, "no saved state; run install first")
	}

	kept, warnings := a.checker().Reverify(ctx, st.EndpointList())
	if ctx.Err() != nil {
		return nil, warnings, errors.Cancelled("verify")
	}

	st.Endpoints = pairOf(kept)
	st.SavedAt = time.Now().UTC()
	if err := a.Store().Save(st); err != nil {
		return st, warnings, err
	}
	a.audit(audit.EventVerify, fmt.Sprintf("kept %d of %d endpoints", len(kept), len(kept)+len(warnings)))
	return st, warnings, nil
}

func pairOf(eps []endpoint.Endpoint) endpoint.Pair {
	var pair endpoint.Pair
	for i := range eps {
		ep := eps[i]
		if ep.Kind.IsWebSocket() {
			pair.WS = &ep
		} else {
			pair.HTTP = &ep
		}
	}
	return pair
}

// Status checks the stored endpoints and the target container.
func (a *App) Status(ctx context.Context) (*state.State, *health.CheckResult, health.Status, error) {
	st, err := a.LoadState()
	if err != nil {
		return nil, nil, health.StatusUnknown, err
	}
	if st == nil {
		return nil, nil, health.StatusUnknown, errors.New(errors.ExitGeneralError, "no saved state; run install first")
	}

	rt, _ := a.ContainerRuntime(ctx)
	result := a.checker().Check(ctx, st.Descriptor, st.EndpointList(), rt)
	return st, result, health.Summary(st.Descriptor, result), nil
}

// Watch checks the stored endpoints every interval until ctx is done.
// notify, when set, sees every check.
func (a *App) Watch(ctx context.Context, interval time.Duration, notify func(monitor.CheckResult)) error {
	check := func(ctx context.Context) (health.Status, *health.CheckResult, error) {
		_, result, status, err := a.Status(ctx)
		return status, result, err
	}

	opts := []monitor.Option{monitor.WithAuditLogger(a.Audit)}
	if notify != nil {
		opts = append(opts, monitor.WithNotify(notify))
	}
	return monitor.New(interval, a.Config.Stack.Project, check, opts...).Run(ctx)
}

func (a *App) audit(t audit.EventType, details string) {
	if err := a.Audit.LogEvent(t, a.Config.Stack.Project, details); err != nil {
		logging.Warn("failed to write audit event", "error", err)
	}
}

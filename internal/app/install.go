package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/rippled-monitor/monitor-ctl/internal/audit"
	"github.com/rippled-monitor/monitor-ctl/internal/discovery"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/flow"
	"github.com/rippled-monitor/monitor-ctl/internal/logging"
	"github.com/rippled-monitor/monitor-ctl/internal/stack"
	"github.com/rippled-monitor/monitor-ctl/internal/state"
	"github.com/rippled-monitor/monitor-ctl/internal/tui"
)

// InstallOptions controls one install run.
type InstallOptions struct {
	// Endpoints supplied by the operator. When complete, discovery is
	// skipped and a missing target is not fatal.
	Endpoints endpoint.Pair

	// PortsOnly stops after port allocation. Nothing is written.
	PortsOnly bool

	// Launch runs docker compose after the stack files are written.
	Launch bool
}

// Install runs the full flow: detect, discover, complete the endpoints,
// allocate ports, confirm, then write the stack files and the state.
func (a *App) Install(ctx context.Context, opts InstallOptions) (flow.Session, error) {
	prev, err := a.LoadState()
	if err != nil {
		logging.Warn("ignoring unreadable state", "error", err)
		prev = nil
	}

	steps := []flow.Step{
		{Name: "detect", Run: a.detectStep(opts)},
		{Name: "discover", Run: a.discoverStep(opts, prev)},
		{Name: "endpoints", Run: a.endpointsStep()},
		{Name: "ports", Run: a.portsStep(prev)},
	}
	if !opts.PortsOnly {
		steps = append(steps,
			flow.Step{Name: "review", Run: a.reviewStep()},
			flow.Step{Name: "apply", Run: a.applyStep(opts)},
		)
	}

	return flow.New(steps...).Run(ctx, flow.Session{})
}

func (a *App) detectStep(opts InstallOptions) flow.StepFunc {
	return func(ctx context.Context, s flow.Session) (flow.Session, flow.Move, error) {
		desc, ws, err := a.Detect(ctx)
		s = s.Warn(ws...)
		if err != nil {
			if !errors.IsKind(err, errors.KindNotFound) || !opts.Endpoints.Complete() {
				return s, flow.Next, err
			}
			s = s.Warn(errors.Warnf(errors.KindNotFound, "%v; using the supplied endpoints", err))
		}
		s.Descriptor = desc
		return s, flow.Next, nil
	}
}

func (a *App) discoverStep(opts InstallOptions, prev *state.State) flow.StepFunc {
	return func(ctx context.Context, s flow.Session) (flow.Session, flow.Move, error) {
		if opts.Endpoints.Complete() {
			s.Endpoints = opts.Endpoints
			return s, flow.Next, nil
		}

		res, err := a.Discover(ctx, s.Descriptor, prev)
		if err != nil {
			if errors.IsKind(err, errors.KindCancelled) {
				return s, flow.Next, err
			}
			s = s.Warn(errors.Warnf(errors.KindUnreachable, "%v", err))
			res = &discovery.Result{}
		}

		s.Discovery = res
		s.Endpoints = res.Pair()
		s = s.Warn(res.Warnings...)
		return s, flow.Next, nil
	}
}

func (a *App) endpointsStep() flow.StepFunc {
	return func(ctx context.Context, s flow.Session) (flow.Session, flow.Move, error) {
		if s.Endpoints.Complete() {
			return s, flow.Next, nil
		}

		pair, err := a.Prompter.PromptEndpoints(ctx, s.Endpoints)
		if stderrors.Is(err, tui.ErrBack) {
			return s, flow.Back, nil
		}
		if err != nil {
			return s, flow.Next, err
		}

		s.Endpoints = pair
		return s.Warn(errors.Warnf(errors.KindUnverified, "endpoints entered manually; run verify once the validator is up")), flow.Next, nil
	}
}

func (a *App) portsStep(prev *state.State) flow.StepFunc {
	return func(ctx context.Context, s flow.Session) (flow.Session, flow.Move, error) {
		reserved := a.ReservedPorts(s.Descriptor, s.Endpoints)
		asg, ws, err := a.AllocatePorts(ctx, a.Prompter, prev, reserved)
		if stderrors.Is(err, tui.ErrBack) {
			return s, flow.Back, nil
		}
		if err != nil {
			return s, flow.Next, err
		}

		s.Assignments = asg
		return s.Warn(ws...), flow.Next, nil
	}
}

func (a *App) reviewStep() flow.StepFunc {
	return func(ctx context.Context, s flow.Session) (flow.Session, flow.Move, error) {
		err := a.Prompter.Confirm(ctx, tui.Review{
			Descriptor:  s.Descriptor,
			Endpoints:   s.Endpoints,
			Assignments: s.Assignments,
			Warnings:    s.Warnings,
		})
		if stderrors.Is(err, tui.ErrBack) {
			return s, flow.Back, nil
		}
		if err != nil {
			return s, flow.Next, err
		}

		s.Confirmed = true
		return s, flow.Next, nil
	}
}

func (a *App) applyStep(opts InstallOptions) flow.StepFunc {
	return func(ctx context.Context, s flow.Session) (flow.Session, flow.Move, error) {
		plan := &stack.Plan{
			Project:     a.Config.Stack.Project,
			Services:    a.Config.Stack.Services,
			Assignments: s.Assignments,
			Endpoints:   s.Endpoints,
		}
		if s.Descriptor != nil {
			plan.DataPath = s.Descriptor.DataPath
		}

		if err := stack.NewWriter(a.FS, a.Config.Stack.Dir).Write(plan); err != nil {
			return s, flow.Next, err
		}
		logging.Debug("stack files written", "dir", a.Config.Stack.Dir)

		if opts.Launch {
			launcher := stack.NewLauncher(a.Executor, a.FS, a.Config.Stack.Dir, a.Config.Stack.Project)
			if err := launcher.Up(ctx); err != nil {
				return s, flow.Next, err
			}
		}

		st := &state.State{
			Project:     a.Config.Stack.Project,
			SavedAt:     time.Now().UTC(),
			Descriptor:  s.Descriptor,
			Endpoints:   s.Endpoints,
			Assignments: s.Assignments,
		}
		if err := a.Store().Save(st); err != nil {
			return s, flow.Next, err
		}
		a.audit(audit.EventInstall, installDetails(s))

		return s, flow.Next, nil
	}
}

// installDetails summarises an install for the audit log.
func installDetails(s flow.Session) string {
	parts := []string{
		"http=" + addressOf(s.Endpoints.HTTP),
		"ws=" + addressOf(s.Endpoints.WS),
	}
	for _, asg := range s.Assignments {
		parts = append(parts, fmt.Sprintf("%s=%d", asg.Service, asg.Port))
	}
	return strings.Join(parts, " ")
}

func addressOf(ep *endpoint.Endpoint) string {
	if ep == nil {
		return "none"
	}
	return ep.Address()
}

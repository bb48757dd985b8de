// Package flow sequences the installer steps and lets the operator move
// forward and back between them.
//
// Each step receives the Session by value and returns the updated copy.
// Going back restores the Session exactly as it was when the earlier step
// first ran, so a step never sees leftovers of a later one.
package flow

import (
	"context"

	"github.com/rippled-monitor/monitor-ctl/internal/deploy"
	"github.com/rippled-monitor/monitor-ctl/internal/discovery"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/logging"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
)

// Session is the state carried through one installer run.
type Session struct {
	Descriptor  *deploy.Descriptor
	Discovery   *discovery.Result
	Endpoints   endpoint.Pair
	Assignments []port.Assignment
	Warnings    errors.Warnings
	Confirmed   bool
}

// Warn returns a copy of s with ws appended. The warnings slice is copied so
// that sessions held in the history never share a backing array.
func (s Session) Warn(ws ...errors.Warning) Session {
	out := make(errors.Warnings, 0, len(s.Warnings)+len(ws))
	out = append(out, s.Warnings...)
	s.Warnings = append(out, ws...)
	return s
}

// Move tells the controller where to go after a step returns.
type Move int

const (
	// Next advances to the following step.
	Next Move = iota
	// Back returns to the previous step. Back from the first step cancels.
	Back
	// Repeat runs the same step again with the returned session.
	Repeat
	// Finish ends the flow early with the returned session.
	Finish
)

func (m Move) String() string {
	switch m {
	case Next:
		return "next"
	case Back:
		return "back"
	case Repeat:
		return "repeat"
	case Finish:
		return "finish"
	default:
		return "unknown"
	}
}

// StepFunc runs one step.
type StepFunc func(ctx context.Context, s Session) (Session, Move, error)

// Step is a named unit of the flow.
type Step struct {
	Name string
	Run  StepFunc
}

// Controller runs steps in order.
type Controller struct {
	steps []Step
}

// New creates a controller for the given steps.
func New(steps ...Step) *Controller {
	return &Controller{steps: steps}
}

// Run executes the steps starting from s. It returns the final session, or
// the first error a step returns. A cancelled context stops the flow with a
// Cancelled error naming the current step.
func (c *Controller) Run(ctx context.Context, s Session) (Session, error) {
	// history[i] is the session step i was first entered with.
	history := make([]Session, len(c.steps))
	i := 0
	if len(c.steps) > 0 {
		history[0] = s
	}

	for i < len(c.steps) {
		step := c.steps[i]
		if ctx.Err() != nil {
			return s, errors.Cancelled(step.Name)
		}

		logging.Debug("flow step", "step", step.Name, "index", i)
		out, move, err := step.Run(ctx, s)
		if err != nil {
			return s, err
		}

		switch move {
		case Next:
			s = out
			i++
			if i < len(c.steps) {
				history[i] = s
			}
		case Back:
			if i == 0 {
				return history[0], errors.Cancelled(step.Name)
			}
			i--
			s = history[i]
		case Repeat:
			s = out
		case Finish:
			return out, nil
		}
	}

	return s, nil
}

package port

import (
	"context"
	"fmt"

	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/logging"
)

// Request asks for a host port for one stack service.
type Request struct {
	Service     string `json:"service"`
	DefaultPort int    `json:"defaultPort"`
}

// Assignment is the port chosen for one service.
type Assignment struct {
	Service string `json:"service"`
	Port    int    `json:"port"`

	// ConflictedWith names the holder of the default port when it was
	// reserved by someone known (the target, or an earlier service).
	ConflictedWith string `json:"conflictedWith,omitempty"`

	// Forced is set when no free port was found in the search window and
	// the default was handed out regardless.
	Forced bool `json:"forced,omitempty"`
}

// Prompt is one suggestion offered to the operator.
type Prompt struct {
	Request    Request
	Suggestion int
	Forced     bool

	// Reason explains why Suggestion differs from what was asked for.
	// Empty when the default port is free.
	Reason string
}

// Prompter lets the operator accept or override a suggested port.
// Returning errors.Cancelled aborts the allocation.
type Prompter interface {
	PromptPort(ctx context.Context, p Prompt) (int, error)
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(ctx context.Context, p Prompt) (int, error)

func (f PrompterFunc) PromptPort(ctx context.Context, p Prompt) (int, error) {
	return f(ctx, p)
}

// AcceptSuggestions is the non-interactive Prompter.
var AcceptSuggestions = PrompterFunc(func(_ context.Context, p Prompt) (int, error) {
	return p.Suggestion, nil
})

// Allocator assigns host ports to stack services.
type Allocator struct {
	prober   Prober
	prompter Prompter
	window   int
}

// AllocatorOption configures an Allocator.
type AllocatorOption func(*Allocator)

// WithSearchWindow sets how far past the starting port the search goes.
func WithSearchWindow(n int) AllocatorOption {
	return func(a *Allocator) {
		if n > 0 {
			a.window = n
		}
	}
}

// NewAllocator creates an allocator. A nil prompter accepts every suggestion.
func NewAllocator(prober Prober, prompter Prompter, opts ...AllocatorOption) *Allocator {
	if prompter == nil {
		prompter = AcceptSuggestions
	}
	a := &Allocator{
		prober:   prober,
		prompter: prompter,
		window:   config.DefaultSearchWindow,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate assigns a port to every request, in order. reserved maps ports
// that are already spoken for to the name of their holder; the map is not
// modified.
//
// On success the assigned ports are pairwise distinct and never a
// system-reserved port. Apart from Forced assignments they are also
// disjoint from reserved.
func (a *Allocator) Allocate(ctx context.Context, requests []Request, reserved map[int]string) ([]Assignment, errors.Warnings, error) {
	taken := make(map[int]string, len(reserved)+len(requests))
	for p, holder := range reserved {
		taken[p] = holder
	}
	for _, p := range config.SystemReservedPorts {
		if _, ok := taken[p]; !ok {
			taken[p] = "system"
		}
	}

	assigned := make(map[int]bool, len(requests))
	var warnings errors.Warnings
	var out []Assignment

	for _, req := range requests {
		if err := config.ValidateServiceName(req.Service); err != nil {
			return nil, warnings, errors.PortAllocationFailed(err)
		}
		if !config.ValidPort(req.DefaultPort) {
			return nil, warnings, errors.PortAllocationFailed(
				fmt.Errorf("%s: default port %d out of range", req.Service, req.DefaultPort))
		}

		asg, err := a.allocateOne(ctx, req, taken)
		if err != nil {
			return nil, warnings, err
		}

		if asg.Forced {
			if assigned[asg.Port] || isSystemReserved(asg.Port) {
				return nil, warnings, errors.PortAllocationFailed(
					fmt.Errorf("%s: no free port near %d and the default is already assigned", req.Service, asg.Port))
			}
			warnings.Addf(errors.KindPortExhausted,
				"%s: no free port in %d-%d, using %d anyway", req.Service, req.DefaultPort, req.DefaultPort+a.window, asg.Port)
		}

		taken[asg.Port] = req.Service
		assigned[asg.Port] = true
		out = append(out, asg)

		logging.Debug("port assigned", "service", asg.Service, "port", asg.Port, "forced", asg.Forced)
	}

	return out, warnings, nil
}

func (a *Allocator) allocateOne(ctx context.Context, req Request, taken map[int]string) (Assignment, error) {
	asg := Assignment{Service: req.Service}
	if holder, ok := taken[req.DefaultPort]; ok {
		asg.ConflictedWith = holder
	}

	suggestion, forced := a.search(ctx, req.DefaultPort, taken)
	reason := ""
	if suggestion != req.DefaultPort {
		reason = a.describe(req.DefaultPort, taken)
	}

	for {
		if err := ctx.Err(); err != nil {
			return asg, errors.Cancelled("ports")
		}

		chosen, err := a.prompter.PromptPort(ctx, Prompt{
			Request:    req,
			Suggestion: suggestion,
			Forced:     forced,
			Reason:     reason,
		})
		if err != nil {
			return asg, err
		}

		if chosen == suggestion {
			asg.Port = suggestion
			asg.Forced = forced
			return asg, nil
		}

		if !config.ValidPort(chosen) {
			reason = fmt.Sprintf("port %d is out of range", chosen)
			continue
		}

		if a.unavailable(ctx, chosen, taken) {
			suggestion, forced = a.search(ctx, chosen+1, taken)
			if forced {
				// Nothing free past the override; fall back to the default search.
				suggestion, forced = a.search(ctx, req.DefaultPort, taken)
			}
			reason = a.describe(chosen, taken)
			logging.Debug("override rejected", "service", req.Service, "port", chosen, "next", suggestion)
			continue
		}

		asg.Port = chosen
		asg.Forced = false
		return asg, nil
	}
}

// search returns the first available port in [start, start+window]. When
// none is free it returns start with forced set.
func (a *Allocator) search(ctx context.Context, start int, taken map[int]string) (int, bool) {
	end := start + a.window
	if end > config.MaxPort {
		end = config.MaxPort
	}
	for p := start; p <= end; p++ {
		if !a.unavailable(ctx, p, taken) {
			return p, false
		}
	}
	return start, true
}

func (a *Allocator) unavailable(ctx context.Context, p int, taken map[int]string) bool {
	if _, ok := taken[p]; ok {
		return true
	}
	return a.prober.IsBound(ctx, p)
}

func (a *Allocator) describe(p int, taken map[int]string) string {
	if holder, ok := taken[p]; ok {
		return fmt.Sprintf("port %d is reserved by %s", p, holder)
	}
	return fmt.Sprintf("port %d is in use", p)
}

func isSystemReserved(p int) bool {
	for _, r := range config.SystemReservedPorts {
		if r == p {
			return true
		}
	}
	return false
}

// Valid reports whether p is a usable TCP port number.
func Valid(p int) bool {
	return config.ValidPort(p)
}

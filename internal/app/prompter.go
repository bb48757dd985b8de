package app

import (
	"context"

	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
	"github.com/rippled-monitor/monitor-ctl/internal/tui"
)

// Prompter is everything the install flow asks the operator.
// tui.Prompter is the interactive implementation.
type Prompter interface {
	port.Prompter

	// PromptEndpoints asks for the endpoint pair when discovery left it
	// incomplete.
	PromptEndpoints(ctx context.Context, current endpoint.Pair) (endpoint.Pair, error)

	// Confirm shows the plan. tui.ErrBack asks to revisit the previous step.
	Confirm(ctx context.Context, r tui.Review) error
}

type autoPrompter struct{}

func (autoPrompter) PromptPort(ctx context.Context, p port.Prompt) (int, error) {
	return port.AcceptSuggestions.PromptPort(ctx, p)
}

func (autoPrompter) PromptEndpoints(_ context.Context, current endpoint.Pair) (endpoint.Pair, error) {
	if current.Complete() {
		return current, nil
	}
	return current, errors.DiscoveryFailed("endpoints incomplete; pass --http and --ws or run interactively", nil)
}

func (autoPrompter) Confirm(context.Context, tui.Review) error {
	return nil
}

// AutoPrompter accepts every suggestion and never blocks.
var AutoPrompter Prompter = autoPrompter{}

var _ Prompter = (*tui.Prompter)(nil)

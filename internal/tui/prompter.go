package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
)

// Prompter runs the interactive screens on a terminal.
type Prompter struct {
	opts []tea.ProgramOption
}

// PrompterOption configures a Prompter.
type PrompterOption func(*Prompter)

// WithIO runs the screens on the given streams instead of the terminal.
func WithIO(in io.Reader, out io.Writer) PrompterOption {
	return func(p *Prompter) {
		p.opts = append(p.opts, tea.WithInput(in), tea.WithOutput(out))
	}
}

// WithAltScreen draws the screens on the alternate screen buffer.
func WithAltScreen() PrompterOption {
	return func(p *Prompter) {
		p.opts = append(p.opts, tea.WithAltScreen())
	}
}

// NewPrompter creates a terminal prompter.
func NewPrompter(opts ...PrompterOption) *Prompter {
	p := &Prompter{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PromptPort implements port.Prompter.
func (p *Prompter) PromptPort(ctx context.Context, pr port.Prompt) (int, error) {
	return run[int](ctx, newPortPrompt(pr), "ports", p.opts...)
}

// PromptEndpoints asks for both endpoints by hand. current pre-fills the
// fields.
func (p *Prompter) PromptEndpoints(ctx context.Context, current endpoint.Pair) (endpoint.Pair, error) {
	return run[endpoint.Pair](ctx, newEndpointPrompt(current), "endpoints", p.opts...)
}

// Confirm shows the review screen. It returns ErrBack when the operator
// wants to change something.
func (p *Prompter) Confirm(ctx context.Context, r Review) error {
	_, err := run[bool](ctx, newReviewPrompt(r), "review", p.opts...)
	return err
}

var _ port.Prompter = (*Prompter)(nil)

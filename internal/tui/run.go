package tui

import (
	"context"
	stderrors "errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rippled-monitor/monitor-ctl/internal/errors"
)

// ErrBack is returned when the operator pressed Esc to return to the
// previous step.
var ErrBack = stderrors.New("back")

// outcome is how a prompt ended.
type outcome int

const (
	outcomePending outcome = iota
	outcomeDone
	outcomeBack
	outcomeCancel
)

// prompt is one screen. Update returns outcomePending until the operator
// finishes, goes back or cancels.
type prompt[T any] interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (outcome, T, tea.Cmd)
	View() string
}

// runner adapts a prompt to tea.Model.
type runner[T any] struct {
	p       prompt[T]
	outcome outcome
	result  T
}

func (r *runner[T]) Init() tea.Cmd {
	return r.p.Init()
}

func (r *runner[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	o, res, cmd := r.p.Update(msg)
	if o != outcomePending {
		r.outcome = o
		r.result = res
		return r, tea.Quit
	}
	return r, cmd
}

func (r *runner[T]) View() string {
	if r.outcome != outcomePending {
		return ""
	}
	return r.p.View()
}

// run drives p to completion. step names the prompt in a Cancelled error.
func run[T any](ctx context.Context, p prompt[T], step string, opts ...tea.ProgramOption) (T, error) {
	var zero T
	r := &runner[T]{p: p}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(r, opts...).Run()
	if ctx.Err() != nil {
		return zero, errors.Cancelled(step)
	}
	if err != nil {
		return zero, fmt.Errorf("%s prompt failed: %w", step, err)
	}

	done := final.(*runner[T])
	switch done.outcome {
	case outcomeDone:
		return done.result, nil
	case outcomeBack:
		return zero, ErrBack
	default:
		return zero, errors.Cancelled(step)
	}
}

// navKey maps the keys every prompt shares.
func navKey(msg tea.Msg) outcome {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			return outcomeCancel
		case tea.KeyEsc:
			return outcomeBack
		}
	}
	return outcomePending
}

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rippled-monitor/monitor-ctl/internal/deploy"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
)

// Review is everything shown on the confirmation screen.
type Review struct {
	Descriptor  *deploy.Descriptor
	Endpoints   endpoint.Pair
	Assignments []port.Assignment
	Warnings    errors.Warnings
}

// reviewModel shows the plan and waits for confirmation.
type reviewModel struct {
	review Review
}

func newReviewPrompt(r Review) *reviewModel {
	return &reviewModel{review: r}
}

func (m *reviewModel) Init() tea.Cmd {
	return nil
}

func (m *reviewModel) Update(msg tea.Msg) (outcome, bool, tea.Cmd) {
	if o := navKey(msg); o != outcomePending {
		return o, false, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return outcomePending, false, nil
	}
	switch {
	case keyMsg.Type == tea.KeyEnter:
		return outcomeDone, true, nil
	case keyMsg.String() == "y":
		return outcomeDone, true, nil
	case keyMsg.String() == "n":
		return outcomeBack, false, nil
	}
	return outcomePending, false, nil
}

func (m *reviewModel) View() string {
	var b strings.Builder

	b.WriteString(progressBar("Review"))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Review"))
	b.WriteString("\n")
	b.WriteString(RenderReview(m.review))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter/y: install | n/esc: back | ctrl+c: cancel"))
	return b.String()
}

// RenderReview formats r as plain styled text.
func RenderReview(r Review) string {
	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", label+":", valueStyle.Render(value)))
	}

	b.WriteString(labelStyle.Render("Validator"))
	b.WriteString("\n")
	if d := r.Descriptor; d != nil {
		row("Mode", string(d.Mode))
		if d.Containerized() {
			row("Container", d.ContainerName)
		}
		dataPath := d.DataPath
		if !d.DataPathVerified {
			dataPath += dimStyle.Render(" (unverified)")
		}
		row("Data", dataPath)
	} else {
		row("Mode", "unknown")
	}
	b.WriteString("\n")

	b.WriteString(labelStyle.Render("Endpoints"))
	b.WriteString("\n")
	row("HTTP RPC", endpointText(r.Endpoints.HTTP))
	row("WebSocket", endpointText(r.Endpoints.WS))
	b.WriteString("\n")

	if len(r.Assignments) > 0 {
		b.WriteString(labelStyle.Render("Ports"))
		b.WriteString("\n")
		for _, a := range r.Assignments {
			value := fmt.Sprintf("%d", a.Port)
			if a.Forced {
				value += warnStyle.Render(" (forced)")
			} else if a.ConflictedWith != "" {
				value += dimStyle.Render(fmt.Sprintf(" (default held by %s)", a.ConflictedWith))
			}
			row(a.Service, value)
		}
		b.WriteString("\n")
	}

	if len(r.Warnings) > 0 {
		b.WriteString(labelStyle.Render("Warnings"))
		b.WriteString("\n")
		for _, w := range r.Warnings {
			b.WriteString("  ")
			b.WriteString(warnStyle.Render(w.String()))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func endpointText(ep *endpoint.Endpoint) string {
	if ep == nil {
		return "none"
	}
	return ep.String()
}

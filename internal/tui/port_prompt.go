package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/port"
)

// portPromptModel asks the operator to accept or override one suggested
// host port.
type portPromptModel struct {
	prompt port.Prompt
	input  textinput.Model
	err    string
}

func newPortPrompt(p port.Prompt) *portPromptModel {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(p.Suggestion)
	ti.SetValue(strconv.Itoa(p.Suggestion))
	ti.CharLimit = 5
	ti.Width = 10
	ti.Focus()

	return &portPromptModel{prompt: p, input: ti}
}

func (m *portPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *portPromptModel) Update(msg tea.Msg) (outcome, int, tea.Cmd) {
	if o := navKey(msg); o != outcomePending {
		return o, 0, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		p, err := parsePort(m.input.Value(), m.prompt.Suggestion)
		if err != nil {
			m.err = err.Error()
			return outcomePending, 0, nil
		}
		return outcomeDone, p, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.err = ""
	return outcomePending, 0, cmd
}

// parsePort reads the operator's answer. An empty answer accepts the
// suggestion.
func parsePort(s string, suggestion int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return suggestion, nil
	}
	p, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if !config.ValidPort(p) {
		return 0, fmt.Errorf("port must be between %d and %d", config.MinPort, config.MaxPort)
	}
	return p, nil
}

func (m *portPromptModel) View() string {
	var b strings.Builder

	b.WriteString(progressBar("Ports"))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("Host port for %s", m.prompt.Request.Service)))
	b.WriteString("\n")

	b.WriteString(dimStyle.Render(fmt.Sprintf("Default: %d", m.prompt.Request.DefaultPort)))
	b.WriteString("\n")
	if m.prompt.Reason != "" {
		b.WriteString(warnStyle.Render(m.prompt.Reason))
		b.WriteString("\n")
	}
	if m.prompt.Forced {
		b.WriteString(warnStyle.Render("No free port found nearby; the suggestion may already be in use."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Port:"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("enter: confirm | esc: back | ctrl+c: cancel"))
	return b.String()
}

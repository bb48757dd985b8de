package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
)

// endpointModel collects the HTTP RPC and websocket addresses by hand when
// discovery found nothing usable.
type endpointModel struct {
	inputs []textinput.Model
	focus  int
	err    string
}

const (
	fieldHTTP = iota
	fieldWS
)

func newEndpointPrompt(current endpoint.Pair) *endpointModel {
	httpInput := textinput.New()
	httpInput.Placeholder = "127.0.0.1:5005"
	httpInput.CharLimit = 64
	httpInput.Width = 30
	if current.HTTP != nil {
		httpInput.SetValue(current.HTTP.Address())
	}
	httpInput.Focus()

	wsInput := textinput.New()
	wsInput.Placeholder = "127.0.0.1:6006"
	wsInput.CharLimit = 64
	wsInput.Width = 30
	if current.WS != nil {
		wsInput.SetValue(current.WS.Address())
	}

	return &endpointModel{inputs: []textinput.Model{httpInput, wsInput}}
}

func (m *endpointModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *endpointModel) Update(msg tea.Msg) (outcome, endpoint.Pair, tea.Cmd) {
	if o := navKey(msg); o != outcomePending {
		return o, endpoint.Pair{}, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyTab, tea.KeyDown:
			return outcomePending, endpoint.Pair{}, m.setFocus((m.focus + 1) % len(m.inputs))
		case tea.KeyShiftTab, tea.KeyUp:
			return outcomePending, endpoint.Pair{}, m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		case tea.KeyEnter:
			if m.focus < len(m.inputs)-1 {
				return outcomePending, endpoint.Pair{}, m.setFocus(m.focus + 1)
			}
			pair, err := m.parse()
			if err != nil {
				m.err = err.Error()
				return outcomePending, endpoint.Pair{}, nil
			}
			return outcomeDone, pair, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.err = ""
	return outcomePending, endpoint.Pair{}, cmd
}

func (m *endpointModel) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// parse validates both fields. Both are required; manual endpoints stay
// unverified until the next health check.
func (m *endpointModel) parse() (endpoint.Pair, error) {
	httpStr := strings.TrimSpace(m.inputs[fieldHTTP].Value())
	wsStr := strings.TrimSpace(m.inputs[fieldWS].Value())
	if httpStr == "" || wsStr == "" {
		return endpoint.Pair{}, fmt.Errorf("both addresses are required")
	}

	httpEP, err := endpoint.Parse(endpoint.KindHTTPRPC, httpStr)
	if err != nil {
		return endpoint.Pair{}, fmt.Errorf("http rpc: %w", err)
	}
	wsEP, err := endpoint.Parse(endpoint.KindWSUnknown, wsStr)
	if err != nil {
		return endpoint.Pair{}, fmt.Errorf("websocket: %w", err)
	}
	return endpoint.Pair{HTTP: &httpEP, WS: &wsEP}, nil
}

func (m *endpointModel) View() string {
	var b strings.Builder

	b.WriteString(progressBar("Endpoints"))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Enter endpoints manually"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("host:port, or a bare port for 127.0.0.1"))
	b.WriteString("\n\n")

	labels := []string{"HTTP RPC:", "WebSocket:"}
	for i, in := range m.inputs {
		label := labelStyle.Render(labels[i])
		if i == m.focus {
			label = activeStepStyle.Render(labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n\n")
	}

	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n\n")
	}

	b.WriteString(dimStyle.Render("tab: next field | enter: confirm | esc: back | ctrl+c: cancel"))
	return b.String()
}

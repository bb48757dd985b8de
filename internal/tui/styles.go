package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	activeStepStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			MarginBottom(1)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Steps shown in the progress bar, in flow order.
var flowSteps = []string{"Detect", "Endpoints", "Ports", "Review"}

func progressBar(current string) string {
	var out string
	for i, s := range flowSteps {
		label := s
		if s == current {
			label = activeStepStyle.Render(label)
		} else {
			label = stepStyle.Render(label)
		}
		if i > 0 {
			out += dimStyle.Render(" > ")
		}
		out += label
	}
	return out
}

// Package tui provides the interactive screens of monitor-ctl.
//
// Each screen is a small Bubble Tea model whose Update reports how the
// screen ended: done with a value, back (Esc) or cancelled (Ctrl+C).
// Prompter wraps the screens in a tea.Program:
//
//	p := tui.NewPrompter()
//	port, err := p.PromptPort(ctx, prompt)
//	switch {
//	case errors.Is(err, tui.ErrBack):
//	    // return to the previous step
//	case errors.IsKind(err, errors.KindCancelled):
//	    // operator aborted
//	}
//
// # Screens
//
//   - Port prompt: pre-filled with the allocator's suggestion and the reason
//     the default was not used
//   - Endpoint prompt: HTTP RPC and websocket addresses when discovery came
//     up empty
//   - Review: the detected deployment, endpoints, ports and warnings
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rippled-monitor/monitor-ctl/internal/app"
	"github.com/rippled-monitor/monitor-ctl/internal/endpoint"
	"github.com/rippled-monitor/monitor-ctl/internal/tui"
)

// currentApp returns the application configured by the root command.
func currentApp() *app.App {
	return app.Default
}

// interactive reports whether prompts can be shown.
var interactive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// usePrompter picks the TUI prompter unless the run is non-interactive.
func usePrompter(a *app.App, assumeYes bool) {
	if assumeYes || jsonOutput || !interactive() {
		a.Prompter = app.AutoPrompter
		return
	}
	a.Prompter = tui.NewPrompter()
}

// parsePair parses the --http and --ws flags. Both or neither must be set.
func parsePair(httpAddr, wsAddr string) (endpoint.Pair, error) {
	if httpAddr == "" && wsAddr == "" {
		return endpoint.Pair{}, nil
	}
	if httpAddr == "" || wsAddr == "" {
		return endpoint.Pair{}, fmt.Errorf("--http and --ws must be given together")
	}

	httpEP, err := endpoint.Parse(endpoint.KindHTTPRPC, httpAddr)
	if err != nil {
		return endpoint.Pair{}, fmt.Errorf("--http: %w", err)
	}
	wsEP, err := endpoint.Parse(endpoint.KindWSUnknown, wsAddr)
	if err != nil {
		return endpoint.Pair{}, fmt.Errorf("--ws: %w", err)
	}
	return endpoint.Pair{HTTP: &httpEP, WS: &wsEP}, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

func endpointOrNone(ep *endpoint.Endpoint) string {
	if ep == nil {
		return "none"
	}
	return ep.String()
}

func boolStatus(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rippled-monitor/monitor-ctl/internal/deploy"
	"github.com/rippled-monitor/monitor-ctl/internal/discovery"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Detect the validator and classify its endpoints",
	Long: `Detect how rippled is deployed and classify its listening ports.

Nothing is written. Use install to act on the result.`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}

type discoverOutput struct {
	Descriptor *deploy.Descriptor `json:"descriptor"`
	Discovery  *discovery.Result  `json:"discovery"`
	Warnings   errors.Warnings    `json:"warnings,omitempty"`
}

func runDiscover(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a := currentApp()

	desc, warnings, err := a.Detect(ctx)
	if err != nil {
		logWarnings(warnings)
		return err
	}

	prev, err := a.LoadState()
	if err != nil {
		logWarning("ignoring saved state: %v", err)
	}

	res, err := a.Discover(ctx, desc, prev)
	if err != nil {
		return err
	}
	warnings = append(warnings, res.Warnings...)

	if jsonOutput {
		return printJSON(out(cmd), discoverOutput{Descriptor: desc, Discovery: res, Warnings: warnings})
	}

	w := out(cmd)
	fmt.Fprintf(w, "Mode: %s\n", desc.Mode)
	if desc.Containerized() {
		fmt.Fprintf(w, "Container: %s (%s)\n", desc.ContainerName, shortID(desc.ContainerID))
	}
	fmt.Fprintf(w, "Data path: %s %s\n", desc.DataPath, boolStatus(desc.DataPathVerified))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "HTTP RPC: %s\n", endpointOrNone(res.HTTPRPC))
	fmt.Fprintf(w, "WebSocket: %s\n", endpointOrNone(res.Operative))
	if len(res.WSCandidates) > 1 {
		fmt.Fprintln(w, "Candidates:")
		for _, c := range res.WSCandidates {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}

	logWarnings(warnings)
	if res.Empty() {
		logInfo("No endpoints found. Supply them with: monitor-ctl install --http HOST:PORT --ws HOST:PORT")
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

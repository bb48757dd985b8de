package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rippled-monitor/monitor-ctl/internal/health"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the saved configuration and endpoint health",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type statusOutput struct {
	Status health.Status       `json:"status"`
	Check  *health.CheckResult `json:"check"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	st, result, status, err := currentApp().Status(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out(cmd), statusOutput{Status: status, Check: result})
	}

	w := out(cmd)
	fmt.Fprintf(w, "Project: %s\n", st.Project)
	fmt.Fprintf(w, "Saved: %s ago\n", health.FormatAge(st.SavedAt))
	if d := st.Descriptor; d != nil {
		fmt.Fprintf(w, "Mode: %s\n", d.Mode)
		if d.Containerized() {
			fmt.Fprintf(w, "Container: %s\n", d.ContainerName)
		}
		fmt.Fprintf(w, "Data path: %s\n", d.DataPath)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Ports:")
	for _, asg := range st.Assignments {
		fmt.Fprintf(w, "  %s: %d\n", asg.Service, asg.Port)
	}
	fmt.Fprintln(w)

	// Health status
	fmt.Fprintln(w, "Health Checks:")
	switch result.Container {
	case health.ContainerRunning, health.ContainerStopped:
		fmt.Fprintf(w, "  Container: %s\n", boolStatus(result.Container == health.ContainerRunning))
	case health.ContainerUnknown:
		fmt.Fprintln(w, "  Container: ? (state unknown)")
	}
	for _, e := range result.Endpoints {
		fmt.Fprintf(w, "  %s %s: %s", e.Endpoint.Kind, e.Endpoint.Address(), boolStatus(e.Healthy))
		if e.Healthy {
			fmt.Fprintf(w, " (%s)", e.Latency.Round(time.Millisecond))
		} else if e.Error != "" {
			fmt.Fprintf(w, " %s", e.Error)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Overall: %s\n", status)
	logWarnings(result.Warnings)

	return nil
}

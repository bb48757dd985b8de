package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rippled-monitor/monitor-ctl/internal/monitor"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Check the saved endpoints periodically",
	Long: `Re-check the saved endpoints and the validator container every
interval until interrupted. Status changes are appended to the event log in
the state directory.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "Time between checks")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchInterval <= 0 {
		return fmt.Errorf("--interval must be positive")
	}

	w := out(cmd)
	err := currentApp().Watch(cmd.Context(), watchInterval, func(r monitor.CheckResult) {
		if jsonOutput {
			_ = printJSON(w, statusOutput{Status: r.Status, Check: r.Health})
			return
		}
		if !r.Changed {
			return
		}
		line := fmt.Sprintf("%s  %s", r.Time.Format(time.RFC3339), r.Status)
		if r.Err != nil {
			line += "  " + r.Err.Error()
		}
		fmt.Fprintln(w, line)
	})
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

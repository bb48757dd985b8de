package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rippled-monitor/monitor-ctl/internal/audit"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
)

var (
	eventsLines int
	eventsTypes []string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent install, verify and health events",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().IntVarP(&eventsLines, "lines", "n", 20, "Number of events to show (0 for all)")
	eventsCmd.Flags().StringSliceVarP(&eventsTypes, "type", "t", nil, "Only show events of these types (install, verify, health, error)")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	a := currentApp()

	var types []audit.EventType
	for _, s := range eventsTypes {
		t, err := audit.ParseEventType(s)
		if err != nil {
			return errors.ValidationError(err.Error())
		}
		types = append(types, t)
	}

	events, err := a.Audit.Tail(a.Config.Stack.Project, eventsLines, types...)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out(cmd), events)
	}
	if len(events) == 0 {
		logInfo("No events recorded yet")
		return nil
	}

	w := tabwriter.NewWriter(out(cmd), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tDETAILS")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Timestamp.Local().Format(time.DateTime), e.Type, e.Details)
	}
	return w.Flush()
}

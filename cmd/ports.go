package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rippled-monitor/monitor-ctl/internal/app"
)

var portsYes bool

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "Allocate host ports for the stack services",
	Long: `Allocate a host port for every stack service, starting at its default
and skipping ports that are bound, reserved or held by the validator.

Interactive runs ask for each port. Nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runPorts,
}

func init() {
	portsCmd.Flags().BoolVarP(&portsYes, "yes", "y", false, "Accept every suggested port")
	rootCmd.AddCommand(portsCmd)
}

func runPorts(cmd *cobra.Command, args []string) error {
	a := currentApp()
	usePrompter(a, portsYes)

	s, err := a.Install(cmd.Context(), app.InstallOptions{PortsOnly: true})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out(cmd), s.Assignments)
	}

	w := tabwriter.NewWriter(out(cmd), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SERVICE\tPORT\tNOTE")
	fmt.Fprintln(w, "-------\t----\t----")
	for _, asg := range s.Assignments {
		note := ""
		switch {
		case asg.Forced:
			note = "forced"
		case asg.ConflictedWith != "":
			note = "default held by " + asg.ConflictedWith
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", asg.Service, asg.Port, note)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	logWarnings(s.Warnings)
	return nil
}

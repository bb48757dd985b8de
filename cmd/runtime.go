package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var runtimeCmd = &cobra.Command{
	Use:   "runtime",
	Short: "Show container runtime information",
	Long: `Display the container runtime in use and its running containers.

monitor-ctl supports these runtimes:
  - engine:  Docker Engine API (socket or DOCKER_HOST)
  - podman:  podman CLI
  - docker:  docker CLI

With runtime = "auto" in config.toml they are tried in that order.`,
	Args: cobra.NoArgs,
	RunE: runRuntime,
}

func init() {
	rootCmd.AddCommand(runtimeCmd)
}

func runRuntime(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	w := out(cmd)

	rt, err := currentApp().ContainerRuntime(ctx)
	if err != nil {
		fmt.Fprintf(w, "Detection failed: %s\n", err)
		logInfo("Without a runtime only native validators can be detected")
		return nil
	}
	fmt.Fprintf(w, "Active runtime: %s\n\n", rt.Name())

	containers, err := rt.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list containers: %w", err)
	}
	if len(containers) == 0 {
		fmt.Fprintln(w, "No running containers")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPORTS")
	fmt.Fprintln(tw, "--\t----\t-----")
	for _, c := range containers {
		fmt.Fprintf(tw, "%s\t%s\t%v\n", shortID(c.ID), c.Name, c.PublishedPorts())
	}
	return tw.Flush()
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rippled-monitor/monitor-ctl/internal/app"
	"github.com/rippled-monitor/monitor-ctl/internal/tui"
)

var (
	installYes    bool
	installHTTP   string
	installWS     string
	installLaunch bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Discover the validator and set up the monitoring stack",
	Long: `Run the full flow: detect the validator, classify its endpoints,
allocate stack ports, confirm, then write .env and the compose override
and start the stack.

When the validator cannot be found, pass its endpoints with --http and --ws.
Esc goes back one step; Ctrl+C cancels without writing anything.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVarP(&installYes, "yes", "y", false, "Accept every suggestion without prompting")
	installCmd.Flags().StringVar(&installHTTP, "http", "", "HTTP RPC endpoint (host:port)")
	installCmd.Flags().StringVar(&installWS, "ws", "", "WebSocket endpoint (host:port)")
	installCmd.Flags().BoolVar(&installLaunch, "launch", true, "Run docker compose up after writing the stack files")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	pair, err := parsePair(installHTTP, installWS)
	if err != nil {
		return err
	}

	a := currentApp()
	usePrompter(a, installYes)

	s, err := a.Install(cmd.Context(), app.InstallOptions{
		Endpoints: pair,
		Launch:    installLaunch,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out(cmd), s)
	}

	if a.Prompter == app.AutoPrompter {
		// Nobody saw the review screen.
		fmt.Fprint(out(cmd), tui.RenderReview(tui.Review{
			Descriptor:  s.Descriptor,
			Endpoints:   s.Endpoints,
			Assignments: s.Assignments,
			Warnings:    s.Warnings,
		}))
	} else {
		logWarnings(s.Warnings)
	}

	logSuccess("Stack configured in %s", a.Config.Stack.Dir)
	if !installLaunch {
		logInfo("Start it with: docker compose -p %s up -d", a.Config.Stack.Project)
	}
	return nil
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rippled-monitor/monitor-ctl/internal/app"
	"github.com/rippled-monitor/monitor-ctl/internal/audit"
	"github.com/rippled-monitor/monitor-ctl/internal/config"
	"github.com/rippled-monitor/monitor-ctl/internal/errors"
	"github.com/rippled-monitor/monitor-ctl/internal/logging"
)

var (
	verbose    bool
	jsonOutput bool
	configPath string
)

// newApp builds the application for a loaded config. Tests swap it out.
var newApp = func(cfg *config.Config) *app.App {
	return app.New(
		app.WithConfig(cfg),
		app.WithAudit(audit.NewLogger(cfg.StateDir)),
	)
}

var rootCmd = &cobra.Command{
	Use:   "monitor-ctl",
	Short: "Discover a rippled validator and wire a monitoring stack to it",
	Long: `monitor-ctl finds a running rippled validator, natively or in a container,
classifies its listening ports and hands the result to a docker compose
monitoring stack.

  - HTTP RPC is recognised by a server_info call
  - Admin and public websockets are told apart with a privileged command
  - Stack services get free host ports, near their defaults`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Setup(verbose, jsonOutput, os.Stderr)

		cfg, err := config.Load(configPath)
		if err != nil {
			return errors.ConfigError("failed to load config", err)
		}
		app.SetDefault(newApp(cfg))
		return nil
	},
}

// Execute runs the root command. An interrupt cancels the running flow.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output logs and results in JSON format")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Path to config.toml")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo     = logging.UserInfo
	logSuccess  = logging.UserSuccess
	logWarning  = logging.UserWarning
	logWarnings = logging.UserWarnings
)

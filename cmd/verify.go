package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Re-verify the saved endpoints",
	Long: `Probe each saved endpoint once: server_info over HTTP, ping over the
websocket. Endpoints that answer are marked verified, the rest are dropped
from the saved state.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	st, warnings, err := currentApp().Verify(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out(cmd), st.Endpoints)
	}

	w := out(cmd)
	fmt.Fprintf(w, "HTTP RPC: %s\n", endpointOrNone(st.Endpoints.HTTP))
	fmt.Fprintf(w, "WebSocket: %s\n", endpointOrNone(st.Endpoints.WS))
	logWarnings(warnings)

	if st.Endpoints.Complete() {
		logSuccess("Endpoints verified")
	}
	return nil
}

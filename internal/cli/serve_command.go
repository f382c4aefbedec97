// filepath: internal/cli/serve_command.go
package cli

import (
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the read-only JSON API",
		Long: `Serves the analytical queries over HTTP. The server never writes to the store;
run 'trialdb load' to (re)build it. Queries answer 503 until a store is loaded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
	cmd.Flags().String("host", "", "Address to listen on. (Env: TRIALDB_HOST)")
	cmd.Flags().Int("port", 0, "Port for the HTTP server. (Env: TRIALDB_PORT)")
	registerFilterFlags(cmd.Flags())
	cmd.Flags().Float64("alpha", 0, "Significance threshold. (Env: TRIALDB_ALPHA)")
	cmd.Flags().String("hk-interval", "", `Interval of the staging file sweep, "0" disables it. (Env: TRIALDB_HK_INTERVAL)`)
	cmd.Flags().String("max-age", "", `Minimum age of a staging file to remove. (Env: TRIALDB_HK_MAX_AGE)`)
	return cmd
}

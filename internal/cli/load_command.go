// filepath: internal/cli/load_command.go
package cli

import (
	"strconv"
	"trialdb/internal/audit"
	"trialdb/internal/output"
	"trialdb/internal/services"

	"github.com/spf13/cobra"
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Rebuild the store from the source export",
		Long: `Parses the whole source CSV, builds a fresh store next to the configured one and
replaces it in one step. A failed load leaves the previous store untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := services.NewLoaderService(cfg, audit.NewLoggerAuditor(cfg.Logging.AuditEnabled), nil)
			report, err := loader.Load(cmd.Context(), cfg.Source.Path)
			if err != nil {
				return err
			}

			t := output.LoadRunTable("Load completed", &report.LoadRun)
			t.Rows = append(t.Rows,
				[]string{"database", report.Database},
				[]string{"duration_ms", strconv.FormatInt(report.Duration.Milliseconds(), 10)},
			)
			return output.Render(cmd.OutOrStdout(), outFormat, report, t)
		},
	}
	cmd.Flags().String("source", "", "Path to the source CSV. (Env: TRIALDB_SOURCE_PATH)")
	return cmd
}

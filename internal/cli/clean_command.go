// filepath: internal/cli/clean_command.go
package cli

import (
	"fmt"
	"time"
	"trialdb/internal/housekeeping"
	"trialdb/internal/output"
	"trialdb/internal/shared"
	"trialdb/internal/storage"

	"github.com/spf13/cobra"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove staging files left by interrupted loads",
		Long: `Removes the '<db>.loading-<run>' staging files (and their journals) older than
the housekeeping max age. The store itself is never touched. 'trialdb serve' runs
the same sweep periodically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			maxAge, err := shared.ParseDuration(cfg.Housekeeping.MaxAge)
			if err != nil {
				return fmt.Errorf("invalid max age: %w", err)
			}
			deps := housekeeping.Dependencies{Storage: storage.Local{}}
			report, err := housekeeping.SweepStaging(deps, cfg.Database.Path, maxAge, time.Now())
			if err != nil {
				return err
			}
			return output.Render(cmd.OutOrStdout(), outFormat, report, output.HousekeepingTable(report))
		},
	}
	cmd.Flags().String("max-age", "", `Minimum age of a staging file to remove, e.g. "12h" or "1d". (Env: TRIALDB_HK_MAX_AGE)`)
	return cmd
}

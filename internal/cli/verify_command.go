// filepath: internal/cli/verify_command.go
package cli

import (
	"fmt"
	"trialdb/internal/logging"
	"trialdb/internal/output"
	"trialdb/internal/services"

	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the referential integrity of the store",
		Long: `Checks that every sample references an existing subject and that every sample
has exactly one count for each of the five populations. This does not modify the store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := services.NewStoreService(cfg)
			counts, err := svc.Counts(cmd.Context())
			if err != nil {
				return err
			}
			logging.Log.Infof("Verifying %s (%d subjects, %d samples, %d cell counts)",
				cfg.Database.Path, counts.Subjects, counts.Samples, counts.CellCounts)

			issues, err := svc.Verify(cmd.Context())
			if err != nil {
				return err
			}
			if err := output.Render(cmd.OutOrStdout(), outFormat, issues, output.IntegrityTable(issues)); err != nil {
				return err
			}
			if len(issues) > 0 {
				return fmt.Errorf("store %s has %d integrity issue(s)", cfg.Database.Path, len(issues))
			}
			return nil
		},
	}
}

// filepath: internal/cli/schema_command.go
package cli

import (
	"fmt"
	"trialdb/internal/logging"
	"trialdb/internal/services"

	"github.com/spf13/cobra"
)

func newSchemaCmd() *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Store schema tools",
		Long:  `Manage the store schema. Use subcommands 'ensure' or 'status'.`,
	}

	ensureCmd := &cobra.Command{
		Use:   "ensure",
		Short: "Create the store tables and indexes if they are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := services.NewStoreService(cfg).EnsureSchema(cmd.Context())
			if err != nil {
				return fmt.Errorf("schema ensure failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: schema version %d\n", cfg.Database.Path, version)
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Dump the migration status of the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Log.Infof("Reading schema status of %s", cfg.Database.Path)
			return services.NewStoreService(cfg).SchemaStatus(cmd.Context())
		},
	}

	schemaCmd.AddCommand(ensureCmd)
	schemaCmd.AddCommand(statusCmd)
	return schemaCmd
}

// filepath: internal/cli/root.go
package cli

import (
	"fmt"
	"os"
	"time"
	"trialdb/internal/config"
	"trialdb/internal/output"

	"github.com/spf13/cobra"
)

var (
	// Version info
	Version   = "0.3.0"
	StartTime time.Time

	// Global config object populated by flags/env/file
	cfg *config.Config

	// Config file the configuration was read from (or would have been)
	cfgPath string

	// Output format of the query commands
	outFormat output.Format
)

// NewRootCmd builds the trialdb command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trialdb",
		Short: "Clinical trial cell-count store",
		Long: `Loads the flat cell-count export of a clinical trial into a normalized SQLite
store and answers the population frequency, responder comparison and baseline
subset questions from it.`,
		SilenceUsage: true,
		// PersistentPreRunE loads the configuration before any command runs.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeConfig(cmd)
		},
	}

	registerFlags(rootCmd)

	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newOverviewCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newSubsetCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// Execute runs the command named by os.Args. It is called by main.main().
func Execute() {
	StartTime = time.Now()

	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// filepath: internal/cli/query_commands.go
package cli

import (
	"trialdb/internal/output"
	"trialdb/internal/services"

	"github.com/spf13/cobra"
)

func newOverviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Relative frequency of every population in every sample",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := services.NewAnalysisService(cfg, nil).Overview(cmd.Context())
			if err != nil {
				return err
			}
			return output.Render(cmd.OutOrStdout(), outFormat, rows, output.OverviewTable(rows))
		},
	}
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare responders and non-responders per population",
		Long: `Lists the population frequencies of the cohort samples and runs a two-sided
Mann-Whitney U test of responders against non-responders for every population.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.NewAnalysisService(cfg, nil).Comparison(cmd.Context())
			if err != nil {
				return err
			}
			return output.Render(cmd.OutOrStdout(), outFormat, result, output.ComparisonTables(result)...)
		},
	}
	registerFilterFlags(cmd.Flags())
	cmd.Flags().Float64("alpha", 0, "Significance threshold. (Env: TRIALDB_ALPHA)")
	return cmd
}

func newSubsetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subset",
		Short: "Tabulate the baseline samples of the cohort",
		Long: `Counts the baseline (time_from_treatment_start = 0) samples of the cohort per
project, and their distinct subjects per response and per sex.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			breakdown, err := services.NewAnalysisService(cfg, nil).SubsetBreakdown(cmd.Context())
			if err != nil {
				return err
			}
			return output.Render(cmd.OutOrStdout(), outFormat, breakdown, output.SubsetTables(breakdown)...)
		},
	}
	registerFilterFlags(cmd.Flags())
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the latest load of the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := services.NewInfoService(Version, StartTime, cfg.Database.Path).GetInfo()
			run, err := services.NewAnalysisService(cfg, nil).LoadInfo(cmd.Context())
			if err != nil {
				return err
			}
			info.LastLoad = run
			return output.Render(cmd.OutOrStdout(), outFormat, info, output.LoadRunTable("Latest load of "+info.Database, run))
		},
	}
}

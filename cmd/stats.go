package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/orchard/internal/config"
	"github.com/zjrosen/orchard/internal/infrastructure/sqlite"
	"github.com/zjrosen/orchard/internal/presentation"
)

var statsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show widget usage statistics",
	Long: `Show how often each widget was used, most created first, as JSON.

Statistics are only collected while statistics.enabled is set in the config.

Examples:
  orchard stats
  orchard stats --limit 5 | jq '.widgets[].qualified_name'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		path := cfg.Statistics.DBPath
		if path == "" {
			path = config.DefaultStatisticsPath()
		}
		db, err := sqlite.NewDB(path)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()

		repo := db.UsageRepository()
		ctx := cmd.Context()
		counts, err := repo.Summary(ctx, statsLimit)
		if err != nil {
			return err
		}
		sessions, err := repo.Sessions(ctx)
		if err != nil {
			return err
		}
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatStats(presentation.FromUsage(sessions, counts))
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsLimit, "limit", "n", 0, "Only show the top n widgets (0 for all)")
	rootCmd.AddCommand(statsCmd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show catalog totals (admin)",
	Args:  cobra.NoArgs,
	RunE:  runStatsCmd,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	client, err := adminClient(cmd.Context(), NewClient(serverURL), keyPath)
	if err != nil {
		return err
	}
	stats, err := client.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), stats)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Movies:    %d\n", stats.TotalMovies)
	fmt.Fprintf(out, "Series:    %d\n", stats.TotalSeries)
	fmt.Fprintf(out, "Episodes:  %d\n", stats.TotalEpisodes)
	fmt.Fprintf(out, "Trending:  %d\n", stats.TrendingCount)
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum entries to show")
	historyCmd.AddCommand(historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently visited entities",
	Long: `Show entities recently opened with ldx get or the browser UI, most
recent first. Repeat visits are folded into one entry with a count.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all recorded visits",
	Args:  cobra.NoArgs,
	RunE:  runHistoryClear,
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyLimit <= 0 {
		exitWithError(ExitDataError, "--limit must be positive")
	}

	db := mustOpenHistory()
	defer db.Close()

	visits, err := db.Recent(cmd.Context(), historyLimit)
	if err != nil {
		exitWithError(ExitError, "reading history: %v", err)
	}

	if humanOutput {
		total, err := db.Count(cmd.Context())
		if err != nil {
			exitWithError(ExitError, "counting visits: %v", err)
		}
		outputHuman("%s", formatVisits(visits))
		if total > 0 {
			outputHuman("%s\n", dimStyle.Render(fmt.Sprintf("%d visits recorded", total)))
		}
		return nil
	}
	return outputJSON(visits)
}

func runHistoryClear(cmd *cobra.Command, _ []string) error {
	db := mustOpenHistory()
	defer db.Close()

	n, err := db.Clear(cmd.Context())
	if err != nil {
		exitWithError(ExitError, "clearing history: %v", err)
	}

	if humanOutput {
		outputHuman("Cleared %d visits\n", n)
		return nil
	}
	return outputJSON(StatusResponse{Status: "cleared", Path: cfg.HistoryPath, Count: n})
}

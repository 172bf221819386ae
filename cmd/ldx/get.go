package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matsen/ldx/internal/explorer"
	"github.com/matsen/ldx/internal/history"
	"github.com/matsen/ldx/internal/logger"
)

var getNoRecord bool

func init() {
	getCmd.Flags().BoolVar(&getNoRecord, "no-record", false, "Do not add the entity to visit history")
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <uri>",
	Short: "Show an entity's details and relations",
	Long: `Show an entity's label, description, types and its outgoing and
incoming relations. The three queries run concurrently and the command
fails if any of them fails.

Examples:
  ldx get http://example.org/fifa/player/Messi --human`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	uri := args[0]
	client := newClient()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	details, err := client.GetEntityDetails(ctx, uri)
	if err != nil {
		exitWithQueryError("loading entity failed", err)
	}
	panel := explorer.NewPanel(uri, details)

	if !getNoRecord {
		recordVisit(ctx, cfg.HistoryPath, uri, panel.Label)
	}

	if humanOutput {
		outputHuman("%s", formatPanel(panel))
		return nil
	}
	return outputJSON(panel)
}

// recordVisit adds a visit to history. Failures are logged only.
func recordVisit(ctx context.Context, path, uri, label string) {
	db, err := history.OpenDB(path)
	if err != nil {
		logger.Warn("history unavailable", "path", path, "err", err)
		return
	}
	defer db.Close()
	if err := db.Record(ctx, uri, label); err != nil {
		logger.Warn("recording visit failed", "uri", uri, "err", err)
	}
}

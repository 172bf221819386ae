package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "Maximum results (default: search_limit from config)")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Find entities whose label contains a term",
	Long: `Find entities whose label in the display language contains the term,
ignoring case.

Examples:
  ldx search Messi
  ldx search "inter miami" --human
  ldx search Messi --lang es -n 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchLimit > 0 {
		cfg.SearchLimit = searchLimit
	}
	client := newClient()

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	hits, err := client.SearchEntities(ctx, strings.Join(args, " "))
	if err != nil {
		exitWithQueryError("search failed", err)
	}

	if humanOutput {
		outputHuman("%s", formatHits(hits))
		return nil
	}
	return outputJSON(hits)
}

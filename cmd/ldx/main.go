// Package main provides the ldx CLI entry point.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/ldx/internal/config"
	"github.com/matsen/ldx/internal/history"
	"github.com/matsen/ldx/internal/logger"
	"github.com/matsen/ldx/internal/sparql"
)

// Version is set at build time via ldflags
var Version = "dev"

// Global flags
var (
	humanOutput  bool
	configPath   string
	endpointFlag string
	langFlag     string
	debugLogging bool
)

// cfg is the effective configuration, loaded before any command runs.
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ldx",
	Short: "Linked data explorer for SPARQL endpoints",
	Long: `ldx searches a knowledge graph behind a SPARQL endpoint, shows an
entity's label, description, types and relations, and draws its
neighbourhood as a force-directed graph.

  ldx search Messi                 # find entities by label
  ldx get <uri>                    # details and relations
  ldx graph <uri> -o messi.html    # standalone graph page
  ldx serve                        # interactive browser UI

All commands output JSON by default; use --human for readable output.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// Load .env file if present (for LDX_ENDPOINT, LDX_LANG)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/ldx/config.yml)")
	rootCmd.PersistentFlags().StringVar(&endpointFlag, "endpoint", "", "SPARQL endpoint URL")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "Display language tag for labels")
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "Enable debug logging")
	rootCmd.Version = Version
}

// setup initializes logging and the effective configuration.
func setup(cmd *cobra.Command, _ []string) error {
	logger.Init(logger.Options{Debug: debugLogging})

	loaded, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v\n\n%s", err, config.HelpfulConfigMessage(configPath))
	}

	// Copy so flag overrides never leak into the cached config.
	effective := *loaded
	if endpointFlag != "" {
		effective.Endpoint = endpointFlag
	}
	if langFlag != "" {
		effective.Lang = langFlag
	}
	cfg = &effective

	logger.Debug("configuration loaded", "path", config.Path(configPath), "endpoint", cfg.Endpoint, "lang", cfg.Lang)
	return nil
}

// newClient builds a SPARQL client from the effective configuration.
func newClient(opts ...sparql.ClientOption) *sparql.Client {
	base := []sparql.ClientOption{
		sparql.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		sparql.WithLanguage(cfg.Lang),
		sparql.WithSearchLimit(cfg.SearchLimit),
		sparql.WithRelationLimit(cfg.RelationLimit),
		sparql.WithRateLimit(cfg.RateLimit),
	}
	return sparql.NewClient(cfg.Endpoint, append(base, opts...)...)
}

// mustOpenHistory opens the visit history database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenHistory() *history.DB {
	db, err := history.OpenDB(cfg.HistoryPath)
	if err != nil {
		exitWithError(ExitError, "opening history: %v", err)
	}
	return db
}

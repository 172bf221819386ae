package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/ldx/internal/config"
)

func init() {
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration: config file values, then LDX_*
environment variables, then command-line flags.

Keys (config.yml):
  endpoint        SPARQL endpoint URL
  lang            Display language tag for labels
  search_limit    Maximum search results
  relation_limit  Maximum relations per direction
  timeout         Per-request timeout (e.g. 30s)
  rate_limit      Requests per second to the endpoint (0 disables)
  debounce        Search-as-you-type quiet period (e.g. 250ms)
  listen          Address for ldx serve
  history_path    Visit history database`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := config.Path(configPath)
		if humanOutput {
			fmt.Println(path)
			return nil
		}
		return outputJSON(StatusResponse{Status: "ok", Path: path})
	},
}

func runConfig(cmd *cobra.Command, _ []string) error {
	if !humanOutput {
		return outputJSON(cfg)
	}
	fmt.Printf("endpoint:        %s\n", cfg.Endpoint)
	fmt.Printf("lang:            %s\n", cfg.Lang)
	fmt.Printf("search_limit:    %d\n", cfg.SearchLimit)
	fmt.Printf("relation_limit:  %d\n", cfg.RelationLimit)
	fmt.Printf("timeout:         %s\n", cfg.Timeout)
	fmt.Printf("rate_limit:      %g\n", cfg.RateLimit)
	fmt.Printf("debounce:        %s\n", cfg.Debounce)
	fmt.Printf("listen:          %s\n", cfg.Listen)
	fmt.Printf("history_path:    %s\n", cfg.HistoryPath)
	return nil
}

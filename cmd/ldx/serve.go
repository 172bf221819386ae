package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matsen/ldx/internal/history"
	"github.com/matsen/ldx/internal/logger"
	"github.com/matsen/ldx/internal/server"
	"github.com/matsen/ldx/internal/sparql"
	"github.com/matsen/ldx/internal/viz"
)

var (
	serveAddr      string
	serveNoHistory bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: listen from config)")
	serveCmd.Flags().BoolVar(&serveNoHistory, "no-history", false, "Do not record visits")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive browser UI",
	Long: `Serve the interactive explorer: a search box with live suggestions, an
entity panel and a draggable force-directed graph. Each open page gets its
own session over a websocket.

Also serves a JSON API under /api and Prometheus metrics at /metrics.

Examples:
  ldx serve
  ldx serve --addr :9000 --endpoint http://localhost:7200/repositories/fifa`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := cfg.Listen
	if serveAddr != "" {
		addr = serveAddr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	client := newClient(sparql.WithMetrics(sparql.NewMetrics(reg)))

	var hist server.History
	if !serveNoHistory {
		db, err := history.OpenDB(cfg.HistoryPath)
		if err != nil {
			logger.Warn("history disabled", "path", cfg.HistoryPath, "err", err)
		} else {
			defer db.Close()
			hist = db
		}
	}

	srv := server.New(client, hist, server.Options{
		Addr:     addr,
		Debounce: cfg.Debounce,
		Forces:   viz.DefaultForceSettings(),
		Registry: reg,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Using endpoint", "endpoint", client.Endpoint(), "lang", client.Language())
	if err := srv.Run(ctx); err != nil {
		exitWithError(ExitError, "server: %v", err)
	}
	return nil
}

// Package server serves the browser UI, a small JSON API and one websocket
// session per open page.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matsen/ldx/internal/explorer"
	"github.com/matsen/ldx/internal/history"
	"github.com/matsen/ldx/internal/logger"
	"github.com/matsen/ldx/internal/sparql"
	"github.com/matsen/ldx/internal/viz"
)

const shutdownTimeout = 10 * time.Second

// Querier is everything the server asks of the SPARQL client.
type Querier interface {
	explorer.Querier
	Select(ctx context.Context, query string) (*sparql.Table, error)
}

// History stores visits made through the UI.
type History interface {
	explorer.Recorder
	Recent(ctx context.Context, limit int) ([]history.Visit, error)
}

// Options configures a Server.
type Options struct {
	Addr     string
	Debounce time.Duration
	Forces   viz.ForceSettings
	// Registry receives server metrics and backs /metrics. Nil disables both.
	Registry *prometheus.Registry
}

// Server is the HTTP front end.
type Server struct {
	echo     *echo.Echo
	querier  Querier
	history  History
	opts     Options
	upgrader websocket.Upgrader
	metrics  *Metrics

	// parent of every websocket session; replaced by Run's context
	ctx context.Context
}

// New builds the server. history may be nil.
func New(q Querier, h History, opts Options) *Server {
	if opts.Forces.Width == 0 {
		opts.Forces = viz.DefaultForceSettings()
	}
	if opts.Debounce == 0 {
		opts.Debounce = explorer.DefaultDebounce
	}

	s := &Server{
		echo:    echo.New(),
		querier: q,
		history: h,
		opts:    opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     sameOrigin,
		},
		metrics: NewMetrics(opts.Registry),
		ctx:     context.Background(),
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	reqLog := logger.With("http")
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			if reqLog != nil {
				reqLog.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			}
			return nil
		},
	}))
	s.echo.Use(middleware.Recover())

	s.registerRoutes()
	return s
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.ctx = ctx

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", s.opts.Addr)
		if err := s.echo.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
		return err
	}
	return nil
}

// sameOrigin accepts requests without an Origin header and those whose
// Origin host matches the request host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

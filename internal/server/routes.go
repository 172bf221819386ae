package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	e := s.echo

	e.GET("/", s.handleIndex)
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})
	e.GET("/ws", s.handleWebSocket)

	if s.opts.Registry != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
			s.opts.Registry,
			promhttp.HandlerOpts{EnableOpenMetrics: true},
		)))
	}

	api := e.Group("/api")
	api.GET("/search", s.handleSearch)
	api.GET("/entity", s.handleEntity)
	api.GET("/graph", s.handleGraph)
	api.POST("/query", s.handleQuery)
	api.GET("/examples", s.handleExamples)
	api.GET("/history", s.handleHistory)
}

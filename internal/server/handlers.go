package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/matsen/ldx/internal/explorer"
	"github.com/matsen/ldx/internal/logger"
	"github.com/matsen/ldx/internal/sparql"
	"github.com/matsen/ldx/internal/viz"
)

const defaultHistoryLimit = 20

type errorResponse struct {
	Message string `json:"message"`
}

// statusFor maps client errors onto HTTP statuses.
func statusFor(err error) int {
	var httpErr *sparql.HTTPError
	switch {
	case errors.Is(err, sparql.ErrInvalidIRI), errors.Is(err, sparql.ErrEmptyQuery):
		return http.StatusBadRequest
	case sparql.IsCanceled(err):
		return http.StatusGatewayTimeout
	case errors.As(err, &httpErr), errors.Is(err, sparql.ErrNetworkError), errors.Is(err, sparql.ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func queryFailed(c echo.Context, what string, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(what+" failed", "err", err)
	}
	return c.JSON(status, errorResponse{Message: err.Error()})
}

func (s *Server) handleSearch(c echo.Context) error {
	hits, err := s.querier.SearchEntities(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return queryFailed(c, "search", err)
	}
	return c.JSON(http.StatusOK, hits)
}

func (s *Server) handleEntity(c echo.Context) error {
	uri := strings.TrimSpace(c.QueryParam("uri"))
	if uri == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "uri is required"})
	}

	details, err := s.querier.GetEntityDetails(c.Request().Context(), uri)
	if err != nil {
		return queryFailed(c, "entity", err)
	}
	return c.JSON(http.StatusOK, explorer.NewPanel(uri, details))
}

func (s *Server) handleGraph(c echo.Context) error {
	uri := strings.TrimSpace(c.QueryParam("uri"))
	if uri == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "uri is required"})
	}

	format := c.QueryParam("format")
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "dot" && format != "html" {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "format must be json, dot or html"})
	}

	details, err := s.querier.GetEntityDetails(c.Request().Context(), uri)
	if err != nil {
		return queryFailed(c, "graph", err)
	}
	graph := viz.BuildEntityGraph(uri, details)

	switch format {
	case "dot":
		return c.Blob(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(graph.ToDOT()))
	case "html":
		page, err := viz.GenerateHTML(graph, viz.HTMLOptions{
			Title:  explorer.NewPanel(uri, details).Label,
			Forces: s.opts.Forces,
		})
		if err != nil {
			return queryFailed(c, "graph", err)
		}
		return c.HTML(http.StatusOK, page)
	default:
		doc, err := graph.ToForceJSON(s.opts.Forces)
		if err != nil {
			return queryFailed(c, "graph", err)
		}
		return c.JSONBlob(http.StatusOK, []byte(doc))
	}
}

type queryRequest struct {
	Query   string `json:"query"`
	Example string `json:"example"`
}

func (s *Server) handleQuery(c echo.Context) error {
	req := new(queryRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
	}

	query := req.Query
	if req.Example != "" {
		ex, ok := sparql.LookupExample(req.Example)
		if !ok {
			return c.JSON(http.StatusNotFound, errorResponse{Message: "unknown example: " + req.Example})
		}
		query = ex.Query
	}

	table, err := s.querier.Select(c.Request().Context(), query)
	if err != nil {
		return queryFailed(c, "query", err)
	}
	return c.JSON(http.StatusOK, table)
}

func (s *Server) handleExamples(c echo.Context) error {
	return c.JSON(http.StatusOK, sparql.Examples())
}

func (s *Server) handleHistory(c echo.Context) error {
	if s.history == nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Message: "history is disabled"})
	}

	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "limit must be a non-negative integer"})
		}
		limit = n
	}

	visits, err := s.history.Recent(c.Request().Context(), limit)
	if err != nil {
		logger.Error("history failed", "err", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal server error"})
	}
	return c.JSON(http.StatusOK, visits)
}

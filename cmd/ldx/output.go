package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matsen/ldx/internal/explorer"
	"github.com/matsen/ldx/internal/history"
	"github.com/matsen/ldx/internal/sparql"
)

// Styles for --human output.
var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	badgeStyle     = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#1f2933")).Background(lipgloss.Color("#e4e7eb"))
	predicateStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f62fe"))
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitCodeFor classifies client errors.
func exitCodeFor(err error) int {
	var httpErr *sparql.HTTPError
	switch {
	case errors.Is(err, sparql.ErrInvalidIRI), errors.Is(err, sparql.ErrEmptyQuery):
		return ExitDataError
	case errors.As(err, &httpErr),
		errors.Is(err, sparql.ErrNetworkError),
		errors.Is(err, sparql.ErrInvalidResponse),
		sparql.IsCanceled(err):
		return ExitEndpointError
	default:
		return ExitError
	}
}

// exitWithQueryError reports a failed endpoint call and exits.
func exitWithQueryError(what string, err error) {
	exitWithError(exitCodeFor(err), "%s: %v", what, err)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Count  int64  `json:"count,omitempty"`
}

// formatHits renders search hits one per line.
func formatHits(hits []sparql.EntitySummary) string {
	if len(hits) == 0 {
		return "No matching entities.\n"
	}
	var sb strings.Builder
	for i, h := range hits {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n", i+1, titleStyle.Render(h.Label), dimStyle.Render(h.URI))
	}
	return sb.String()
}

// formatPanel renders the detail panel of one entity.
func formatPanel(p explorer.Panel) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(p.Label) + "\n")
	sb.WriteString(dimStyle.Render(p.URI) + "\n\n")
	sb.WriteString(p.Comment + "\n")

	if len(p.Types) > 0 {
		badges := make([]string, 0, len(p.Types))
		for _, t := range p.Types {
			badges = append(badges, badgeStyle.Render(t.Label))
		}
		sb.WriteString("\n" + strings.Join(badges, " ") + "\n")
	}

	writeRelations(&sb, "Outgoing", p.Outgoing)
	writeRelations(&sb, "Incoming", p.Incoming)
	return sb.String()
}

func writeRelations(sb *strings.Builder, heading string, items []explorer.RelationItem) {
	fmt.Fprintf(sb, "\n%s (%d)\n", titleStyle.Render(heading), len(items))
	for _, r := range items {
		pred := predicateStyle.Render(r.PredicateLabel)
		if r.Direction == explorer.Incoming {
			fmt.Fprintf(sb, "  %s → %s\n", r.EndpointLabel, pred)
		} else {
			fmt.Fprintf(sb, "  %s → %s\n", pred, r.EndpointLabel)
		}
		fmt.Fprintf(sb, "    %s\n", dimStyle.Render(r.URI))
	}
}

// formatTable renders a SELECT result as a bordered table.
func formatTable(t *sparql.Table) string {
	if len(t.Rows) == 0 {
		return "No rows.\n"
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(t.Vars...).
		Rows(t.Rows...)
	return tbl.Render() + "\n" + dimStyle.Render(fmt.Sprintf("%d rows", len(t.Rows))) + "\n"
}

// formatVisits renders the visit history.
func formatVisits(visits []history.Visit) string {
	if len(visits) == 0 {
		return "No visits recorded.\n"
	}
	var sb strings.Builder
	for _, v := range visits {
		fmt.Fprintf(&sb, "%s  %s  %s\n",
			dimStyle.Render(v.VisitedAt.Format("2006-01-02 15:04")),
			titleStyle.Render(v.Label),
			dimStyle.Render(fmt.Sprintf("(%dx) %s", v.Count, v.URI)))
	}
	return sb.String()
}

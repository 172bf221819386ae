// Package explorer is the view controller of the linked data browser.
//
// A Controller owns the UI state (current selection, pending search, running
// layout) and changes it only in Update. Rendering goes through View, layout
// through Layout, and data through Querier, so the same controller drives the
// websocket UI and the tests.
package explorer

import (
	"context"

	"github.com/matsen/ldx/internal/sparql"
	"github.com/matsen/ldx/internal/viz"
)

// Fixed user-visible texts.
const (
	LoadingText       = "Loading…"
	LoadFailedText    = "Failed to load entity"
	NoDescriptionText = "No description available."
)

// View is the UI surface the controller renders into.
type View interface {
	// ShowResults replaces the result list.
	ShowResults(hits []sparql.EntitySummary)
	ClearResults()
	// SetSearchText writes into the search box without producing input events.
	SetSearchText(text string)
	// ShowLoading clears the detail panel and relation lists and shows LoadingText.
	ShowLoading(uri string)
	ShowDetails(panel Panel)
	// ShowLoadError shows message in the label field; lists stay empty.
	ShowLoadError(message string)
	// RenderGraph draws graph from scratch. An empty graph clears the canvas.
	RenderGraph(graph *viz.GraphData, settings viz.ForceSettings)
	// MoveNodes updates node, link and label positions after a tick.
	MoveNodes(positions []NodePosition)
}

// Layout starts force simulations.
type Layout interface {
	Start(graph *viz.GraphData, settings viz.ForceSettings) Simulation
}

// Simulation is one running force simulation.
type Simulation interface {
	SetAlphaTarget(alpha float64)
	Restart()
	// Pin fixes a node at x, y until Release.
	Pin(id string, x, y float64)
	Release(id string)
	Stop()
}

// Querier fetches search hits and entity details.
type Querier interface {
	SearchEntities(ctx context.Context, term string) ([]sparql.EntitySummary, error)
	GetEntityDetails(ctx context.Context, uri string) (*sparql.EntityDetails, error)
}

// Recorder is told about every successfully loaded entity.
type Recorder interface {
	Record(ctx context.Context, uri, label string) error
}

// NodePosition is a node's layout position.
type NodePosition struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

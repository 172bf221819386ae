package explorer

import (
	"github.com/matsen/ldx/internal/sparql"
)

// Event is anything the controller reacts to. User gestures, timer expiry and
// finished fetches all arrive as events.
type Event interface {
	event()
}

// Cmd is deferred work requested by Update. It runs off the update goroutine
// and may return a follow-up event, or nil.
type Cmd func() Event

// InputChanged is a keystroke in the search box.
type InputChanged struct {
	Text string
}

// SearchDue fires when the debounce period after keystroke Seq has passed.
type SearchDue struct {
	Seq  uint64
	Text string
}

// SearchCompleted carries the outcome of search Seq.
type SearchCompleted struct {
	Seq  uint64
	Term string
	Hits []sparql.EntitySummary
	Err  error
}

// ResultChosen is a click on a search result.
type ResultChosen struct {
	URI   string
	Label string
}

// EntitySelected is a click on a relation list entry.
type EntitySelected struct {
	URI string
}

// DetailsLoaded carries the outcome of selection Seq.
type DetailsLoaded struct {
	Seq     uint64
	URI     string
	Details *sparql.EntityDetails
	Err     error
}

// SimulationTick reports node positions after one layout step.
type SimulationTick struct {
	Positions []NodePosition
}

// DragStarted begins a drag gesture on node ID. Active is true when another
// drag gesture was already in progress.
type DragStarted struct {
	ID     string
	X, Y   float64
	Active bool
}

// Dragged moves the dragged node.
type Dragged struct {
	ID   string
	X, Y float64
}

// DragEnded finishes a drag gesture. Active is true while other gestures remain.
type DragEnded struct {
	ID     string
	Active bool
}

// NodeClicked is a click on a graph node.
type NodeClicked struct {
	ID string
}

// Resized changes the canvas size.
type Resized struct {
	Width, Height float64
}

func (InputChanged) event()    {}
func (SearchDue) event()       {}
func (SearchCompleted) event() {}
func (ResultChosen) event()    {}
func (EntitySelected) event()  {}
func (DetailsLoaded) event()   {}
func (SimulationTick) event()  {}
func (DragStarted) event()     {}
func (Dragged) event()         {}
func (DragEnded) event()       {}
func (NodeClicked) event()     {}
func (Resized) event()         {}

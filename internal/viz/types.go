// Package viz builds the entity neighbourhood graph and renders it for a
// force-directed layout.
package viz

// GraphData contains all data needed to render the visualization.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Node is one resource in the graph. IDs are URIs.
type Node struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Central bool   `json:"central,omitempty"` // the selected entity
}

// Link is one relation row. Parallel links between the same pair are kept.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}

// Central returns the central node, if any.
func (g *GraphData) Central() (Node, bool) {
	for _, n := range g.Nodes {
		if n.Central {
			return n, true
		}
	}
	return Node{}, false
}

// Node returns the node with the given ID.
func (g *GraphData) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// ForceSettings parameterizes the force simulation.
type ForceSettings struct {
	LinkDistance    float64 `json:"linkDistance"`
	ChargeStrength  float64 `json:"chargeStrength"`
	Width           float64 `json:"width"`
	Height          float64 `json:"height"`
	DragAlphaTarget float64 `json:"dragAlphaTarget"` // alpha target while a drag is active
}

// DefaultForceSettings returns the stock simulation parameters.
func DefaultForceSettings() ForceSettings {
	return ForceSettings{
		LinkDistance:    120,
		ChargeStrength:  -250,
		Width:           800,
		Height:          600,
		DragAlphaTarget: 0.3,
	}
}

package viz

import (
	"encoding/json"
	"fmt"
)

// ForceDocument is what the browser-side layout consumes.
type ForceDocument struct {
	Nodes  []Node        `json:"nodes"`
	Links  []Link        `json:"links"`
	Forces ForceSettings `json:"forces"`
}

// NewForceDocument pairs a graph with simulation settings.
func NewForceDocument(g *GraphData, settings ForceSettings) ForceDocument {
	return ForceDocument{
		Nodes:  g.Nodes,
		Links:  g.Links,
		Forces: settings,
	}
}

// ToForceJSON converts GraphData to the force layout JSON format.
func (g *GraphData) ToForceJSON(settings ForceSettings) (string, error) {
	jsonBytes, err := json.Marshal(NewForceDocument(g, settings))
	if err != nil {
		return "", fmt.Errorf("marshaling force document to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

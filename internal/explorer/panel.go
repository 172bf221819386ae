package explorer

import (
	"github.com/matsen/ldx/internal/sparql"
)

// Direction tells which way a relation points relative to the selection.
type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
)

// Panel is the detail panel content for one loaded entity.
type Panel struct {
	URI      string           `json:"uri"`
	Label    string           `json:"label"`
	Comment  string           `json:"comment"`
	Types    []sparql.TypeRef `json:"types"`
	Outgoing []RelationItem   `json:"outgoing"`
	Incoming []RelationItem   `json:"incoming"`
}

// RelationItem is one clickable relation list entry. URI is the far endpoint.
type RelationItem struct {
	Direction      Direction `json:"direction"`
	URI            string    `json:"uri"`
	PredicateLabel string    `json:"predicateLabel"`
	EndpointLabel  string    `json:"endpointLabel"`
}

// Text renders the entry: "predicate → object" for outgoing relations and
// "subject → predicate" for incoming ones.
func (r RelationItem) Text() string {
	if r.Direction == Incoming {
		return r.EndpointLabel + " → " + r.PredicateLabel
	}
	return r.PredicateLabel + " → " + r.EndpointLabel
}

// NewPanel derives the detail panel for uri.
func NewPanel(uri string, d *sparql.EntityDetails) Panel {
	p := Panel{
		URI:      uri,
		Label:    uri,
		Comment:  NoDescriptionText,
		Types:    []sparql.TypeRef{},
		Outgoing: []RelationItem{},
		Incoming: []RelationItem{},
	}
	if d == nil {
		return p
	}

	if d.Label != "" {
		p.Label = d.Label
	}
	if d.Comment != "" {
		p.Comment = d.Comment
	}
	p.Types = append(p.Types, d.Types...)

	for _, r := range d.OutgoingRels {
		p.Outgoing = append(p.Outgoing, RelationItem{
			Direction:      Outgoing,
			URI:            r.Object,
			PredicateLabel: r.PredicateLabel,
			EndpointLabel:  r.ObjectLabel,
		})
	}
	for _, r := range d.IncomingRels {
		p.Incoming = append(p.Incoming, RelationItem{
			Direction:      Incoming,
			URI:            r.Subject,
			PredicateLabel: r.PredicateLabel,
			EndpointLabel:  r.SubjectLabel,
		})
	}
	return p
}

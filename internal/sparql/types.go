// Package sparql provides a client for browsing a knowledge graph through a
// SPARQL 1.1 query endpoint.
package sparql

// EntitySummary is a single search hit.
type EntitySummary struct {
	URI   string `json:"uri"`
	Label string `json:"label"`
}

// TypeRef is an rdf:type of an entity.
type TypeRef struct {
	URI   string `json:"uri"`
	Label string `json:"label"`
}

// OutgoingRelation is an edge from the entity to another resource.
type OutgoingRelation struct {
	Predicate      string `json:"predicate"`
	PredicateLabel string `json:"predicateLabel"`
	Object         string `json:"object"`
	ObjectLabel    string `json:"objectLabel"`
}

// IncomingRelation is an edge from another resource to the entity.
type IncomingRelation struct {
	Subject        string `json:"subject"`
	SubjectLabel   string `json:"subjectLabel"`
	Predicate      string `json:"predicate"`
	PredicateLabel string `json:"predicateLabel"`
}

// EntityDetails is everything shown for a selected entity.
// A fresh value is fetched on every selection and replaces the previous one.
type EntityDetails struct {
	Label        string             `json:"label"`
	Comment      string             `json:"comment"`
	Types        []TypeRef          `json:"types"`
	OutgoingRels []OutgoingRelation `json:"outgoingRels"`
	IncomingRels []IncomingRelation `json:"incomingRels"`
}

// Table is the tabular form of a free-form SELECT result.
// Rows hold one string per variable in Vars order; unbound cells are empty.
type Table struct {
	Vars []string   `json:"vars"`
	Rows [][]string `json:"rows"`
}

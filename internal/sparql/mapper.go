package sparql

// Binding variable names used by the four entity queries.
const (
	varURI       = "uri"
	varLabel     = "label"
	varComment   = "comment"
	varType      = "type"
	varTypeLabel = "typeLabel"
	varP         = "p"
	varPLabel    = "pLabel"
	varO         = "o"
	varOLabel    = "oLabel"
	varS         = "s"
	varSLabel    = "sLabel"
)

// mapSearchHits converts search bindings into summaries.
func mapSearchHits(rows []Binding) []EntitySummary {
	hits := make([]EntitySummary, 0, len(rows))
	for _, r := range rows {
		hits = append(hits, EntitySummary{
			URI:   r.Value(varURI),
			Label: r.LabelOr(varLabel, varURI),
		})
	}
	return hits
}

// mapDetails combines the three entity query results.
// Label and comment come from the first details row, whatever order the store returned.
func mapDetails(uri string, details, outgoing, incoming []Binding) *EntityDetails {
	var first Binding
	if len(details) > 0 {
		first = details[0]
	}

	label := first.Value(varLabel)
	if label == "" {
		label = uri
	}

	return &EntityDetails{
		Label:        label,
		Comment:      first.Value(varComment),
		Types:        mapTypes(details),
		OutgoingRels: mapOutgoing(outgoing),
		IncomingRels: mapIncoming(incoming),
	}
}

// mapTypes collects every bound ?type, once per type URI.
// The details query is a cross product of label, comment and type rows, so the
// same type repeats once per label/comment variant.
func mapTypes(rows []Binding) []TypeRef {
	types := make([]TypeRef, 0)
	seen := make(map[string]bool)
	for _, r := range rows {
		typeURI := r.Value(varType)
		if typeURI == "" || seen[typeURI] {
			continue
		}
		seen[typeURI] = true
		types = append(types, TypeRef{
			URI:   typeURI,
			Label: r.LabelOr(varTypeLabel, varType),
		})
	}
	return types
}

func mapOutgoing(rows []Binding) []OutgoingRelation {
	rels := make([]OutgoingRelation, 0, len(rows))
	for _, r := range rows {
		rels = append(rels, OutgoingRelation{
			Predicate:      r.Value(varP),
			PredicateLabel: r.LabelOr(varPLabel, varP),
			Object:         r.Value(varO),
			ObjectLabel:    r.LabelOr(varOLabel, varO),
		})
	}
	return rels
}

func mapIncoming(rows []Binding) []IncomingRelation {
	rels := make([]IncomingRelation, 0, len(rows))
	for _, r := range rows {
		rels = append(rels, IncomingRelation{
			Subject:        r.Value(varS),
			SubjectLabel:   r.LabelOr(varSLabel, varS),
			Predicate:      r.Value(varP),
			PredicateLabel: r.LabelOr(varPLabel, varP),
		})
	}
	return rels
}

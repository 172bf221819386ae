package sparql

import (
	"fmt"
	"strings"
)

// Query kinds, used for metrics and logging.
const (
	KindSearch   = "search"
	KindDetails  = "details"
	KindOutgoing = "outgoing"
	KindIncoming = "incoming"
	KindSelect   = "select"
)

const (
	prefixRDFS = "PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>"
	prefixRDF  = "PREFIX rdf:  <http://www.w3.org/1999/02/22-rdf-syntax-ns#>"
)

// literalEscaper escapes characters that would end or corrupt a "..." string literal.
// The backslash must be escaped too, otherwise a term ending in \ would turn the
// closing quote into an escaped one.
var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

// EscapeLiteral escapes s for use inside a double-quoted SPARQL string literal.
func EscapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

// ValidateIRI checks that s can be written as <s> in a query (SPARQL IRIREF).
func ValidateIRI(s string) error {
	if s == "" {
		return fmt.Errorf("%w: empty", ErrInvalidIRI)
	}
	for _, r := range s {
		if r <= 0x20 || strings.ContainsRune(`<>"{}|^`+"`"+`\`, r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidIRI, s, r)
		}
	}
	return nil
}

// langFilter restricts a literal variable to the display language.
func langFilter(variable, lang string) string {
	return fmt.Sprintf(`FILTER(langMatches(lang(%s), "%s"))`, variable, EscapeLiteral(lang))
}

// SearchQuery matches entities whose label contains term, case-insensitively.
func SearchQuery(term, lang string, limit int) string {
	return fmt.Sprintf(`%s
SELECT ?uri ?label WHERE {
  ?uri rdfs:label ?label .
  %s
  FILTER(CONTAINS(LCASE(STR(?label)), LCASE("%s")))
} LIMIT %d
`, prefixRDFS, langFilter("?label", lang), EscapeLiteral(term), limit)
}

// DetailsQuery fetches label, comment and types of iri. The caller validates iri.
func DetailsQuery(iri, lang string, limit int) string {
	return fmt.Sprintf(`%s
%s
SELECT ?label ?comment ?type ?typeLabel WHERE {
  OPTIONAL { <%s> rdfs:label ?label %s }
  OPTIONAL { <%s> rdfs:comment ?comment %s }
  OPTIONAL { <%s> rdf:type ?type .
             OPTIONAL { ?type rdfs:label ?typeLabel %s } }
} LIMIT %d
`, prefixRDFS, prefixRDF,
		iri, langFilter("?label", lang),
		iri, langFilter("?comment", lang),
		iri, langFilter("?typeLabel", lang),
		limit)
}

// OutgoingQuery fetches edges from iri to other resources.
func OutgoingQuery(iri, lang string, limit int) string {
	return fmt.Sprintf(`%s
SELECT ?p ?pLabel ?o ?oLabel WHERE {
  <%s> ?p ?o .
  FILTER(isIRI(?o))
  OPTIONAL { ?p rdfs:label ?pLabel %s }
  OPTIONAL { ?o rdfs:label ?oLabel %s }
} LIMIT %d
`, prefixRDFS, iri, langFilter("?pLabel", lang), langFilter("?oLabel", lang), limit)
}

// IncomingQuery fetches edges from other resources to iri.
func IncomingQuery(iri, lang string, limit int) string {
	return fmt.Sprintf(`%s
SELECT ?s ?sLabel ?p ?pLabel WHERE {
  ?s ?p <%s> .
  FILTER(isIRI(?s))
  OPTIONAL { ?p rdfs:label ?pLabel %s }
  OPTIONAL { ?s rdfs:label ?sLabel %s }
} LIMIT %d
`, prefixRDFS, iri, langFilter("?pLabel", lang), langFilter("?sLabel", lang), limit)
}

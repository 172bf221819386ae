package sparql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unescapedQuotes counts double quotes not preceded by an odd run of backslashes.
func unescapedQuotes(s string) int {
	count := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '"' {
			continue
		}
		backslashes := 0
		for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			count++
		}
	}
	return count
}

func TestEscapeLiteral(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Messi", "Messi"},
		{`Lionel "Leo" Messi`, `Lionel \"Leo\" Messi`},
		{`"`, `\"`},
		{`back\slash`, `back\\slash`},
		{`trailing\`, `trailing\\`},
		{"two\nlines", `two\nlines`},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLiteral(tt.input))
		})
	}
}

func TestSearchQuery_QuotesNeverBreakLiteral(t *testing.T) {
	// The template itself has two literals: the language tag and the search term.
	const templateQuotes = 4

	terms := []string{
		`Messi`,
		`"`,
		`""""`,
		`Mes"si`,
		`\"`,
		`\`,
		`x\\"`,
		`") } DROP ALL #`,
	}

	for _, term := range terms {
		t.Run(term, func(t *testing.T) {
			q := SearchQuery(term, "en", 20)
			assert.Equal(t, templateQuotes, unescapedQuotes(q), "unescaped quotes in:\n%s", q)
		})
	}
}

func TestSearchQuery_Shape(t *testing.T) {
	q := SearchQuery("Messi", "en", 20)

	for _, want := range []string{
		"PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>",
		"SELECT ?uri ?label WHERE",
		`FILTER(langMatches(lang(?label), "en"))`,
		`LCASE("Messi")`,
		"LIMIT 20",
	} {
		assert.Contains(t, q, want)
	}
}

func TestEntityQueries_Shape(t *testing.T) {
	iri := "http://example.org/fifa/Messi"

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "details",
			query: DetailsQuery(iri, "de", 50),
			want: []string{
				"SELECT ?label ?comment ?type ?typeLabel",
				"<" + iri + "> rdfs:label ?label",
				"<" + iri + "> rdf:type ?type",
				`langMatches(lang(?typeLabel), "de")`,
				"LIMIT 50",
			},
		},
		{
			name:  "outgoing",
			query: OutgoingQuery(iri, "en", 50),
			want: []string{
				"SELECT ?p ?pLabel ?o ?oLabel",
				"<" + iri + "> ?p ?o .",
				"FILTER(isIRI(?o))",
			},
		},
		{
			name:  "incoming",
			query: IncomingQuery(iri, "en", 7),
			want: []string{
				"SELECT ?s ?sLabel ?p ?pLabel",
				"?s ?p <" + iri + "> .",
				"FILTER(isIRI(?s))",
				"LIMIT 7",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.want {
				assert.Contains(t, tt.query, want)
			}
		})
	}
}

func TestValidateIRI(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"http://example.org/fifa/Messi", false},
		{"urn:isbn:0451450523", false},
		{"http://example.org/caf%C3%A9", false},
		{"http://example.org/café", false},
		{"", true},
		{"http://example.org/a b", true},
		{"http://example.org/a>", true},
		{"http://example.org/<a", true},
		{`http://example.org/"a"`, true},
		{"http://example.org/{a}", true},
		{"http://example.org/a|b", true},
		{"http://example.org/a^b", true},
		{"http://example.org/a`b", true},
		{`http://example.org/a\b`, true},
		{"http://example.org/a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateIRI(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidIRI)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLookupExample(t *testing.T) {
	ex, ok := LookupExample("top-rated")
	require.True(t, ok)
	assert.Equal(t, "top-rated", ex.Name)
	assert.Contains(t, ex.Query, "fifa:overallRating")

	_, ok = LookupExample("nope")
	assert.False(t, ok)

	all := Examples()
	assert.Len(t, all, len(examples))
	assert.IsIncreasing(t, exampleNames(all))
}

func exampleNames(all []Example) []string {
	names := make([]string, len(all))
	for i, ex := range all {
		names[i] = ex.Name
	}
	return names
}

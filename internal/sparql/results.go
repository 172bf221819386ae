package sparql

// Term is one RDF term in a SPARQL Results JSON binding.
type Term struct {
	Type     string `json:"type"` // "uri", "literal", "bnode" (or "typed-literal" from older stores)
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Binding is one result row, keyed by variable name.
// Variables left unbound by an OPTIONAL are simply absent.
type Binding map[string]Term

// Value returns the lexical value bound to key, or "" when unbound.
func (b Binding) Value(key string) string {
	if b == nil {
		return ""
	}
	return b[key].Value
}

// LabelOr returns the value of labelKey, falling back to the value of idKey.
// An empty idKey means there is nothing to fall back to.
func (b Binding) LabelOr(labelKey, idKey string) string {
	if v := b.Value(labelKey); v != "" {
		return v
	}
	if idKey == "" {
		return ""
	}
	return b.Value(idKey)
}

// ResultSet is the W3C SPARQL 1.1 Query Results JSON document.
type ResultSet struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results"`
}

// ToTable flattens a result set into vars and string rows.
func (r *ResultSet) ToTable() *Table {
	t := &Table{
		Vars: r.Head.Vars,
		Rows: make([][]string, 0),
	}
	if r.Results == nil {
		return t
	}
	for _, b := range r.Results.Bindings {
		row := make([]string, len(t.Vars))
		for i, v := range t.Vars {
			row[i] = b.Value(v)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

package viz

import (
	"fmt"
	"strings"
)

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// dotQuote renders s as a quoted DOT ID.
func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

// ToDOT renders the graph as a Graphviz digraph, left to right, with the
// central node emphasized.
func (g *GraphData) ToDOT() string {
	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString(`  node [shape=ellipse, style=filled, color="#0f62fe22", fontname="Arial"];` + "\n")

	for _, n := range g.Nodes {
		if n.Central {
			sb.WriteString(fmt.Sprintf("  %s [label=%s, fillcolor=\"#0f62fe55\", style=\"filled,bold\"];\n",
				dotQuote(n.ID), dotQuote(n.Label)))
		} else {
			sb.WriteString(fmt.Sprintf("  %s [label=%s];\n", dotQuote(n.ID), dotQuote(n.Label)))
		}
	}
	for _, l := range g.Links {
		sb.WriteString(fmt.Sprintf("  %s -> %s [label=%s];\n",
			dotQuote(l.Source), dotQuote(l.Target), dotQuote(l.Label)))
	}

	sb.WriteString("}\n")
	return sb.String()
}

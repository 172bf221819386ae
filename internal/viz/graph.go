package viz

import (
	"github.com/matsen/ldx/internal/sparql"
)

// BuildEntityGraph constructs the neighbourhood graph of uri from its details.
//
// There is exactly one node per distinct URI among the entity itself, the objects
// of its outgoing relations and the subjects of its incoming relations. When a URI
// shows up more than once, the label seen last wins, while the node keeps the
// position of its first appearance. The entity node stays central even if a
// self-loop relation mentions it again. Every relation row yields one link.
func BuildEntityGraph(uri string, details *sparql.EntityDetails) *GraphData {
	label := uri
	if details != nil && details.Label != "" {
		label = details.Label
	}

	b := newGraphBuilder()
	b.addNode(Node{ID: uri, Label: label, Central: true})

	if details != nil {
		for _, r := range details.OutgoingRels {
			b.addNode(Node{ID: r.Object, Label: r.ObjectLabel})
			b.addLink(Link{Source: uri, Target: r.Object, Label: r.PredicateLabel})
		}
		for _, r := range details.IncomingRels {
			b.addNode(Node{ID: r.Subject, Label: r.SubjectLabel})
			b.addLink(Link{Source: r.Subject, Target: uri, Label: r.PredicateLabel})
		}
	}

	return b.graph()
}

// graphBuilder accumulates nodes keyed by ID in first-seen order.
type graphBuilder struct {
	order []string
	nodes map[string]Node
	links []Link
}

func newGraphBuilder() *graphBuilder {
	return &graphBuilder{nodes: make(map[string]Node)}
}

func (b *graphBuilder) addNode(n Node) {
	prev, seen := b.nodes[n.ID]
	if !seen {
		b.order = append(b.order, n.ID)
	}
	n.Central = n.Central || prev.Central
	b.nodes[n.ID] = n
}

func (b *graphBuilder) addLink(l Link) {
	b.links = append(b.links, l)
}

func (b *graphBuilder) graph() *GraphData {
	g := &GraphData{
		Nodes: make([]Node, 0, len(b.order)),
		Links: make([]Link, 0, len(b.links)),
	}
	for _, id := range b.order {
		g.Nodes = append(g.Nodes, b.nodes[id])
	}
	g.Links = append(g.Links, b.links...)
	return g
}

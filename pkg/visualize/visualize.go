// Package visualize renders relations as trie diagrams.
package visualize

import (
	"cmp"
	"fmt"

	"github.com/emicklei/dot"

	"github.com/l7mp/triedb/pkg/iters"
)

// Graph represents the visualization graph of a relation: one vertex per trie node, with the
// relation itself as the root.
type Graph struct {
	Name        string
	Cardinality int
	Nodes       []Node
	Edges       []Edge
}

// Node is a trie node. Depth is 1 for the top level.
type Node struct {
	ID    string
	Label string
	Depth int
	Leaf  bool
}

// Edge connects a node to one of its children.
type Edge struct {
	From, To string
}

// RootID is the ID of the vertex standing for the relation.
const RootID = "root"

// BuildGraph walks a relation level by level and constructs its visualization graph. The label
// function renders keys, e.g., by decoding them through a dictionary store.
func BuildGraph[K cmp.Ordered](name string, rel iters.Iterable[K], label func(K) string) *Graph {
	if label == nil {
		label = func(k K) string { return fmt.Sprint(k) }
	}
	g := &Graph{Name: name, Cardinality: rel.Cardinality()}

	it := rel.TrieIterator()
	var walk func(parent string)
	walk = func(parent string) {
		if !it.Down() {
			return
		}
		for ; !it.AtEnd(); it.Next() {
			id := fmt.Sprintf("n%d", len(g.Nodes))
			g.Nodes = append(g.Nodes, Node{
				ID:    id,
				Label: label(it.Key()),
				Depth: it.Depth(),
				Leaf:  it.Depth() == g.Cardinality,
			})
			g.Edges = append(g.Edges, Edge{From: parent, To: id})
			walk(id)
		}
		it.Up()
	}
	walk(RootID)

	return g
}

// Leaves returns the number of leaves, i.e., the number of tuples of the relation.
func (g *Graph) Leaves() int {
	n := 0
	for _, node := range g.Nodes {
		if node.Leaf {
			n++
		}
	}
	return n
}

type nodeKind int

const (
	rootNode nodeKind = iota
	innerNode
	leafNode
)

// decorator sets the rendering attributes of a node for one output format.
type decorator func(n dot.Node, kind nodeKind)

func decorateDot(n dot.Node, kind nodeKind) {
	n.Attr("fontname", "helvetica")
	switch kind {
	case rootNode:
		n.Attr("shape", "box").
			Attr("style", "filled,rounded").
			Attr("fillcolor", "lightblue").
			Attr("color", "darkblue").
			Attr("penwidth", "2")
	case innerNode:
		n.Attr("shape", "ellipse")
	case leafNode:
		n.Attr("shape", "ellipse").
			Attr("style", "filled").
			Attr("fillcolor", "lightyellow")
	}
}

func decorateMermaid(n dot.Node, kind nodeKind) {
	switch kind {
	case rootNode:
		n.Attr("shape", dot.MermaidShapeStadium).
			Attr("style", "fill:lightblue,stroke:darkblue,stroke-width:2px")
	case innerNode:
		n.Attr("shape", dot.MermaidShapeCircle)
	case leafNode:
		n.Attr("shape", dot.MermaidShapeCircle).
			Attr("style", "fill:lightyellow")
	}
}

// BuildDotGraph creates a Graphviz dot.Graph from the visualization graph.
func BuildDotGraph(g *Graph) *dot.Graph {
	return buildGraph(g, decorateDot)
}

// BuildMermaidGraph creates a dot.Graph from the visualization graph with node attributes that
// dot.MermaidFlowchart can render.
func BuildMermaidGraph(g *Graph) *dot.Graph {
	return buildGraph(g, decorateMermaid)
}

func buildGraph(g *Graph, decorate decorator) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "LR")
	graph.Attr("label", g.Name)
	graph.Attr("labelloc", "t")
	graph.Attr("fontsize", "16")

	nodes := make(map[string]dot.Node, len(g.Nodes)+1)
	root := graph.Node(RootID).Attr("label", fmt.Sprintf("%s/%d", g.Name, g.Cardinality))
	decorate(root, rootNode)
	nodes[RootID] = root

	for _, n := range g.Nodes {
		node := graph.Node(n.ID).Attr("label", n.Label)
		kind := innerNode
		if n.Leaf {
			kind = leafNode
		}
		decorate(node, kind)
		nodes[n.ID] = node
	}

	for _, e := range g.Edges {
		from, fromExists := nodes[e.From]
		to, toExists := nodes[e.To]
		if fromExists && toExists {
			graph.Edge(from, to)
		}
	}

	return graph
}

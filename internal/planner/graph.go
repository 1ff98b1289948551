package planner

import (
	"fmt"

	"cspace-planner/internal/geometry"
	"cspace-planner/internal/visibility"
)

const (
	StartName = "Start"
	GoalName  = "Goal"
)

// Node is a named graph vertex
type Node struct {
	Name   string         `json:"name"`
	Center geometry.Point `json:"center"`
}

// Same reports whether two nodes share a name or a position
func (n Node) Same(other Node) bool {
	return n.Name == other.Name || n.Center.Equal(other.Center)
}

// Graph is the searchable form of a visibility graph. Adjacency is symmetric:
// Adjacency[a][b] == Adjacency[b][a] for every stored pair.
type Graph struct {
	Nodes     []Node
	Adjacency map[string]map[string]float64

	order map[string]int
}

// registry assigns node names while edges are scanned. Each scanned edge
// reserves the pair N{i}, N{i+1}; an endpoint that matches an existing node
// keeps that node instead.
type registry struct {
	nodes []Node
	next  int
}

func newRegistry(start, goal geometry.Point) *registry {
	return &registry{nodes: []Node{
		{Name: StartName, Center: start},
		{Name: GoalName, Center: goal},
	}}
}

func (r *registry) contains(candidate Node) bool {
	for _, n := range r.nodes {
		if n.Same(candidate) {
			return true
		}
	}
	return false
}

func (r *registry) scan(e visibility.Edge) {
	first := Node{Name: fmt.Sprintf("N%d", r.next), Center: e.A}
	second := Node{Name: fmt.Sprintf("N%d", r.next+1), Center: e.B}
	r.next += 2

	// Both endpoints are checked against the nodes known before this edge
	addFirst, addSecond := !r.contains(first), !r.contains(second)
	if addFirst {
		r.nodes = append(r.nodes, first)
	}
	if addSecond {
		r.nodes = append(r.nodes, second)
	}
}

// NewGraph indexes the visibility edges into named nodes and a weighted
// adjacency map. Start and Goal are always the first two nodes.
//
// Node registration is O(E*V); adjacency resolution looks up an edge for every
// ordered node pair, O(V^2 * E).
func NewGraph(edges []visibility.Edge, start, goal geometry.Point) *Graph {
	reg := newRegistry(start, goal)
	for _, e := range edges {
		reg.scan(e)
	}

	g := &Graph{
		Nodes:     reg.nodes,
		Adjacency: make(map[string]map[string]float64, len(reg.nodes)),
		order:     make(map[string]int, len(reg.nodes)),
	}
	for i, n := range g.Nodes {
		g.order[n.Name] = i
		g.Adjacency[n.Name] = make(map[string]float64)
	}

	for i, from := range g.Nodes {
		for j, to := range g.Nodes {
			if i == j {
				continue
			}
			if e, ok := findEdge(edges, from.Center, to.Center); ok {
				g.Adjacency[from.Name][to.Name] = e.Length
			}
		}
	}

	return g
}

// findEdge identifies the edge connecting two positions, if it exists
func findEdge(edges []visibility.Edge, a, b geometry.Point) (visibility.Edge, bool) {
	for _, e := range edges {
		if e.Connects(a, b) {
			return e, true
		}
	}
	return visibility.Edge{}, false
}

// Node returns the node with the given name
func (g *Graph) Node(name string) (Node, bool) {
	i, ok := g.order[name]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Neighbors lists the nodes adjacent to name, in node order
func (g *Graph) Neighbors(name string) []Node {
	adj := g.Adjacency[name]
	out := make([]Node, 0, len(adj))
	for _, n := range g.Nodes {
		if _, ok := adj[n.Name]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Weight returns the edge length between two nodes
func (g *Graph) Weight(from, to string) (float64, bool) {
	w, ok := g.Adjacency[from][to]
	return w, ok
}

// EdgeCount is the number of undirected edges in the graph
func (g *Graph) EdgeCount() int {
	total := 0
	for _, adj := range g.Adjacency {
		total += len(adj)
	}
	return total / 2
}

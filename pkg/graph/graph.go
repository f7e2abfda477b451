// Package graph builds the directed page graph from crawl results.
// Construction and export only; no traversal or analysis.
package graph

import (
	"sort"
)

// NodeClass labels what kind of wiki page a node represents.
type NodeClass string

const (
	ClassTalk NodeClass = "talk"
	ClassPage NodeClass = "page"
	ClassUser NodeClass = "user"
)

// Edge is a directed edge between two node IDs.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is a directed graph of talk, page, and user nodes.
type Graph struct {
	nodes map[string]NodeClass
	edges map[Edge]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]NodeClass),
		edges: make(map[Edge]bool),
	}
}

// AddNode adds or relabels a node.
func (g *Graph) AddNode(id string, class NodeClass) {
	g.nodes[id] = class
}

// AddEdge adds a directed edge, creating unlabeled endpoints as needed.
func (g *Graph) AddEdge(from, to string) {
	if _, ok := g.nodes[from]; !ok {
		g.nodes[from] = ""
	}
	if _, ok := g.nodes[to]; !ok {
		g.nodes[to] = ""
	}
	g.edges[Edge{From: from, To: to}] = true
}

// HasNode reports whether id is in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Class returns the node class of id.
func (g *Graph) Class(id string) NodeClass {
	return g.nodes[id]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns all node IDs, sorted.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edges returns all edges, sorted by (from, to).
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, len(g.edges))
	for e := range g.edges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

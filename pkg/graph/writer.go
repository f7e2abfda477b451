package graph

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// jsonNode is the on-disk node representation.
type jsonNode struct {
	ID    string    `json:"id"`
	Class NodeClass `json:"class,omitempty"`
}

// jsonGraph is the on-disk graph representation.
type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []Edge     `json:"edges"`
}

// WriteJSON writes the graph to path as JSON with deterministic ordering.
func (g *Graph) WriteJSON(fs afero.Fs, path string) error {
	out := jsonGraph{
		Nodes: make([]jsonNode, 0, g.NodeCount()),
		Edges: g.Edges(),
	}
	for _, id := range g.Nodes() {
		out.Nodes = append(out.Nodes, jsonNode{ID: id, Class: g.nodes[id]})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}

	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return fmt.Errorf("write graph file: %w", err)
	}
	return nil
}

// WriteDOT writes the graph to path in Graphviz DOT format. Node classes
// become a "class" attribute.
func (g *Graph) WriteDOT(fs afero.Fs, path string) error {
	var b strings.Builder
	b.WriteString("digraph pages {\n")

	for _, id := range g.Nodes() {
		if class := g.nodes[id]; class != "" {
			fmt.Fprintf(&b, "  %q [class=%q];\n", id, string(class))
		} else {
			fmt.Fprintf(&b, "  %q;\n", id)
		}
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
	}

	b.WriteString("}\n")

	if err := afero.WriteFile(fs, path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write dot file: %w", err)
	}
	return nil
}

// Package diagram provides the in-memory model, parser, and serializer for
// the restricted Mermaid flowchart dialect flowsmith tracks. The parser is
// deliberately tolerant: architecture diagrams get hand-edited and
// LLM-regenerated, so anything unrecognized is skipped rather than rejected.
package diagram

import (
	"sort"
	"strings"
)

// Shape identifies the visual shape of a node.
type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeRounded   Shape = "rounded"
	// ShapeCylinder is conventionally used for storage and database steps.
	ShapeCylinder Shape = "cylinder"
)

// Node is a labeled vertex in the diagram.
type Node struct {
	// Content is the display label, without delimiters or quotes.
	Content string
	Shape   Shape
	// Subgraph is the name of the enclosing subgraph, empty for top-level nodes.
	Subgraph string
	// RawLine preserves the source line the node was parsed from.
	RawLine string
}

// Edge is a directed connection between two node IDs. Endpoints are not
// required to resolve to declared nodes.
type Edge struct {
	From string
	To   string
}

// Diagram is the parsed structure of a Mermaid flowchart. An empty Type
// means the source could not be recognized as a flowchart at all.
type Diagram struct {
	// Type is the header line, e.g. "flowchart TD".
	Type  string
	Nodes map[string]Node
	// Edges keeps source order and may contain duplicates.
	Edges []Edge
	// Subgraphs maps subgraph name to member node IDs in declaration order.
	Subgraphs map[string][]string
	// SubgraphOrder records the order subgraphs first appeared in the source.
	SubgraphOrder []string
	// Metadata holds the fixed-key annotation lines (title, purpose, note).
	Metadata map[string]string
	// Raw is the original source text.
	Raw string
}

// New returns an empty diagram with all collections initialized.
func New() *Diagram {
	return &Diagram{
		Nodes:     make(map[string]Node),
		Subgraphs: make(map[string][]string),
		Metadata:  make(map[string]string),
	}
}

// NodesByKeyword returns the IDs of nodes whose label or ID contains the
// keyword, case-insensitively, in source-independent sorted order.
func (d *Diagram) NodesByKeyword(keyword string) []string {
	kw := strings.ToLower(keyword)
	var ids []string
	for id, node := range d.Nodes {
		if strings.Contains(strings.ToLower(node.Content), kw) || strings.Contains(strings.ToLower(id), kw) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Incoming returns the IDs of nodes with an edge into id, in edge order.
func (d *Diagram) Incoming(id string) []string {
	var ids []string
	for _, e := range d.Edges {
		if e.To == id {
			ids = append(ids, e.From)
		}
	}
	return ids
}

// Outgoing returns the IDs of nodes id has an edge to, in edge order.
func (d *Diagram) Outgoing(id string) []string {
	var ids []string
	for _, e := range d.Edges {
		if e.From == id {
			ids = append(ids, e.To)
		}
	}
	return ids
}

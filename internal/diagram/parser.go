package diagram

import (
	"regexp"
	"strings"
)

// lineKind is the classification a source line receives before extraction.
type lineKind int

const (
	lineIgnorable lineKind = iota
	lineSubgraphOpen
	lineSubgraphClose
	lineMetadata
	lineStatement // candidate node definition and/or edge
)

// nodePatterns are tried in order; the first match wins. Quoted forms come
// before unquoted so the quotes are stripped from the label rather than
// kept in it.
var nodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\w+)\["(.*?)"\]`),     // A["label"]
	regexp.MustCompile(`(\w+)\[\("(.*?)"\)\]`), // A[("label")]
	regexp.MustCompile(`(\w+)\[\((.*?)\)\]`),   // A[(label)]
	regexp.MustCompile(`(\w+)\[(.*?)\]`),       // A[label]
	regexp.MustCompile(`(\w+)\((.*?)\)`),       // A(label)
}

var edgePattern = regexp.MustCompile(`(\w+)(?:\[.*?\])?\s*(?:-->|---)\s*(\w+)`)

// metadataKeys are the fixed annotation keys recognized outside node syntax.
var metadataKeys = []string{"title", "purpose", "note"}

// Parse builds a Diagram from Mermaid source. It never fails: lines that do
// not match any known construct are skipped, and a source without a
// flowchart/graph header yields a diagram with an empty Type.
func Parse(source string) *Diagram {
	d := New()
	d.Raw = source

	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return d
	}

	lines := strings.Split(trimmed, "\n")
	header := strings.TrimSpace(lines[0])
	if strings.HasPrefix(header, "flowchart") || strings.HasPrefix(header, "graph") {
		d.Type = header
	}

	currentSubgraph := ""
	for _, raw := range lines[1:] {
		line := strings.TrimSpace(raw)
		switch classifyLine(line) {
		case lineIgnorable:
			continue

		case lineSubgraphOpen:
			name := strings.TrimSpace(strings.TrimPrefix(line, "subgraph"))
			name = strings.Trim(name, `"`)
			currentSubgraph = name
			if _, seen := d.Subgraphs[name]; !seen {
				d.SubgraphOrder = append(d.SubgraphOrder, name)
			}
			d.Subgraphs[name] = []string{}

		case lineSubgraphClose:
			currentSubgraph = ""

		case lineMetadata:
			key, value := parseMetadata(line)
			if key != "" {
				d.Metadata[key] = value
			}

		case lineStatement:
			// A single line may both define a node and declare an edge,
			// e.g. "A --> B[Store]".
			if id, node, ok := parseNode(line, currentSubgraph); ok {
				d.Nodes[id] = node
				if currentSubgraph != "" {
					d.Subgraphs[currentSubgraph] = append(d.Subgraphs[currentSubgraph], id)
				}
			}
			if m := edgePattern.FindStringSubmatch(line); m != nil {
				d.Edges = append(d.Edges, Edge{From: m[1], To: m[2]})
			}
		}
	}

	return d
}

func classifyLine(line string) lineKind {
	switch {
	case line == "" || strings.HasPrefix(line, "%%"):
		return lineIgnorable
	case strings.HasPrefix(line, "subgraph "):
		return lineSubgraphOpen
	case line == "end":
		return lineSubgraphClose
	case isMetadataLine(line):
		return lineMetadata
	default:
		return lineStatement
	}
}

func isMetadataLine(line string) bool {
	for _, key := range metadataKeys {
		if strings.HasPrefix(line, key+"(") || strings.HasPrefix(line, key+"[") {
			return true
		}
	}
	return false
}

// parseMetadata extracts the key and the value between the outer delimiter
// pair. Both bracket styles are accepted on every key.
func parseMetadata(line string) (string, string) {
	for _, key := range metadataKeys {
		rest, ok := strings.CutPrefix(line, key)
		if !ok || rest == "" {
			continue
		}
		var closer string
		switch rest[0] {
		case '(':
			closer = ")"
		case '[':
			closer = "]"
		default:
			continue
		}
		value := strings.TrimSuffix(rest[1:], closer)
		return key, strings.Trim(value, `"`)
	}
	return "", ""
}

// parseNode extracts a node definition from a line, if present. The shape is
// inferred from the delimiter style around the label.
func parseNode(line, subgraph string) (string, Node, bool) {
	for _, pat := range nodePatterns {
		m := pat.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return m[1], Node{
			Content:  m[2],
			Shape:    inferShape(line),
			Subgraph: subgraph,
			RawLine:  line,
		}, true
	}
	return "", Node{}, false
}

func inferShape(line string) Shape {
	switch {
	case strings.Contains(line, "[("):
		return ShapeCylinder
	case strings.Contains(line, "(") && !strings.Contains(line, "["):
		return ShapeRounded
	default:
		return ShapeRectangle
	}
}

package diagram

import (
	"fmt"
	"sort"
	"strings"
)

// Serialize reconstructs Mermaid source from the model. Nodes listed in
// replacements get their label swapped for the new content while keeping
// their original shape; every other structural element (type line, metadata,
// subgraph order, node membership, edges) is emitted unchanged. Passing a
// nil replacements map round-trips the diagram.
func Serialize(d *Diagram, replacements map[string]string) string {
	var b strings.Builder

	b.WriteString(d.Type)
	b.WriteString("\n")

	for _, key := range metadataKeys {
		value, ok := d.Metadata[key]
		if !ok {
			continue
		}
		if key == "title" {
			fmt.Fprintf(&b, "    %s(%s)\n", key, value)
		} else {
			fmt.Fprintf(&b, "    %s[%s]\n", key, value)
		}
	}

	emitted := make(map[string]bool)

	for _, name := range d.SubgraphOrder {
		fmt.Fprintf(&b, "    subgraph %s\n", name)
		for _, id := range d.Subgraphs[name] {
			node, ok := d.Nodes[id]
			if !ok {
				continue // dangling membership reference
			}
			b.WriteString("        ")
			b.WriteString(renderNode(id, node, replacements))
			b.WriteString("\n")
			emitted[id] = true
		}
		b.WriteString("    end\n")
	}

	// Nodes outside any subgraph, in stable order.
	var orphans []string
	for id := range d.Nodes {
		if !emitted[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		b.WriteString("    ")
		b.WriteString(renderNode(id, d.Nodes[id], replacements))
		b.WriteString("\n")
	}

	if len(d.Edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range d.Edges {
		fmt.Fprintf(&b, "    %s --> %s\n", e.From, e.To)
	}

	return b.String()
}

func renderNode(id string, node Node, replacements map[string]string) string {
	content := node.Content
	if repl, ok := replacements[id]; ok {
		content = repl
	}
	switch node.Shape {
	case ShapeCylinder:
		return fmt.Sprintf(`%s[("%s")]`, id, content)
	case ShapeRounded:
		return fmt.Sprintf("%s(%s)", id, content)
	default:
		return fmt.Sprintf(`%s["%s"]`, id, content)
	}
}

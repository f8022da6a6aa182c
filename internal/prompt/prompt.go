// Package prompt renders the LLM prompts used for diagram generation and
// incremental patching.
package prompt

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/julianshen/flowsmith/internal/changemap"
	"github.com/julianshen/flowsmith/internal/config"
)

// System is the system prompt shared by all diagram completions.
const System = `You are an expert at reading data-pipeline code and documenting its architecture as Mermaid flowcharts. You respond with Mermaid diagram source only, no commentary.`

// maxDiffContext caps the diff excerpt embedded in incremental prompts.
const maxDiffContext = 3000

var generateTmpl = template.Must(template.New("generate").Parse(`Analyze the following codebase and produce a Mermaid flowchart describing its data pipeline architecture.

Rules:
- Output a single Mermaid diagram starting with "flowchart TD".
- One node per pipeline step, named after what the step does.
- Use [("...")] for storage/database steps, ("...") for external services, ["..."] for processing steps.
- Group related steps into subgraphs named after pipeline stages.
- Connect steps with --> in data-flow order.
- Include metadata lines near the top: title(...), purpose[...].
- Do not invent steps that the code does not contain.
{{if .Metadata}}
{{.Metadata}}
{{end}}
Codebase:

{{.Context}}

Respond with the Mermaid diagram only.`))

var incrementalTmpl = template.Must(template.New("incremental").Parse(`A data-pipeline codebase changed and its Mermaid architecture diagram must be patched.

Current diagram:

` + "```mermaid" + `
{{.Diagram}}
` + "```" + `

Only these steps are affected by the change:

{{.Affected}}
Recent change:

` + "```diff" + `
{{.Diff}}
` + "```" + `
{{if .Metadata}}
{{.Metadata}}
{{end}}
Rules:
- Update ONLY the labels of the affected steps listed above.
- Keep every node ID, every edge, every subgraph, and the overall structure exactly as they are.
- Do not add or remove steps.
- Respond with the complete updated Mermaid diagram only.`))

// MetadataSection formats pipeline metadata for inclusion in a prompt.
// Empty metadata yields an empty string.
func MetadataSection(md config.Metadata) string {
	if md.IsZero() {
		return ""
	}

	var b strings.Builder
	b.WriteString("Pipeline metadata:\n")
	fields := []struct{ label, value string }{
		{"Name", md.Name},
		{"Purpose", md.Purpose},
		{"Data type", md.DataType},
		{"Data source", md.DataSource},
		{"Use case", md.UseCase},
		{"Owner", md.Owner},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", f.label, f.value)
	}
	return strings.TrimRight(b.String(), "\n")
}

// BuildGenerate renders the full-regeneration prompt from scanned codebase
// context and an optional metadata section.
func BuildGenerate(contextText, metadataSection string) (string, error) {
	var b strings.Builder
	err := generateTmpl.Execute(&b, struct {
		Context  string
		Metadata string
	}{Context: contextText, Metadata: metadataSection})
	if err != nil {
		return "", fmt.Errorf("rendering generate prompt: %w", err)
	}
	return b.String(), nil
}

// BuildIncremental renders the patch prompt for the affected nodes. The diff
// excerpt is truncated to keep the prompt focused on the diagram itself.
func BuildIncremental(existing, diff string, contexts []changemap.NodeContext, metadataSection string) (string, error) {
	if len(diff) > maxDiffContext {
		diff = diff[:maxDiffContext] + "\n... (diff truncated)"
	}

	var b strings.Builder
	err := incrementalTmpl.Execute(&b, struct {
		Diagram  string
		Affected string
		Diff     string
		Metadata string
	}{
		Diagram:  strings.TrimSpace(existing),
		Affected: affectedSection(contexts),
		Diff:     strings.TrimSpace(diff),
		Metadata: metadataSection,
	})
	if err != nil {
		return "", fmt.Errorf("rendering incremental prompt: %w", err)
	}
	return b.String(), nil
}

// affectedSection formats one block per affected node with its neighborhood,
// so the model sees where each step sits in the flow.
func affectedSection(contexts []changemap.NodeContext) string {
	var b strings.Builder
	for _, nc := range contexts {
		fmt.Fprintf(&b, "- %s: %q", nc.NodeID, nc.Content)
		if nc.Subgraph != "" {
			fmt.Fprintf(&b, " (in %s)", nc.Subgraph)
		}
		b.WriteString("\n")
		if len(nc.Incoming) > 0 {
			fmt.Fprintf(&b, "  receives from: %s\n", strings.Join(nc.Incoming, ", "))
		}
		if len(nc.Outgoing) > 0 {
			fmt.Fprintf(&b, "  feeds into: %s\n", strings.Join(nc.Outgoing, ", "))
		}
	}
	return b.String()
}

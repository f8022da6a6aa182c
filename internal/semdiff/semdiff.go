// Package semdiff turns a raw git diff into a structured change description
// by asking an LLM to classify what changed in pipeline terms. Callers fall
// back to direct diff parsing when this fails; nothing here is
// load-bearing for correctness, only for mapping precision.
package semdiff

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/julianshen/flowsmith/internal/changemap"
)

// Completer is the minimal LLM surface semdiff needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// maxDiffLen bounds how much diff text is sent to the LLM.
const maxDiffLen = 15000

var diffTmpl = template.Must(template.New("semdiff").Parse(`You are analyzing a git diff from a data pipeline codebase.

Classify every meaningful change into this JSON structure:
{
  "changes": [
    {
      "component": "which pipeline step changed (e.g. chunking, embedding, storage, vectordb)",
      "type": "config_update | method_change | new_component | removed_component | flow_change",
      "field": "config field name if applicable (e.g. chunk_size)",
      "old_value": "previous value if visible",
      "new_value": "new value if visible",
      "impact": "one sentence on what this means for the pipeline",
      "affected_nodes": ["diagram node IDs or step names this touches"]
    }
  ],
  "summary": "one-sentence summary of the whole diff",
  "changed_files": ["files touched"],
  "impact_assessment": "none | low | medium | high"
}

Ignore formatting-only and comment-only changes. Respond with JSON only.

Git diff:
{{.Diff}}
`))

// Parse asks the LLM to classify the diff. An empty diff returns an empty
// set immediately. Unparseable LLM output is an error; the caller decides
// whether to fall back to legacy mapping.
func Parse(ctx context.Context, diffText string, llm Completer) (*changemap.SemanticChanges, error) {
	diffText = strings.TrimSpace(diffText)
	if diffText == "" {
		return &changemap.SemanticChanges{Summary: "no changes detected", ImpactAssessment: "none"}, nil
	}

	if len(diffText) > maxDiffLen {
		diffText = diffText[:maxDiffLen] + "\n... (diff truncated)"
	}

	var prompt bytes.Buffer
	if err := diffTmpl.Execute(&prompt, struct{ Diff string }{diffText}); err != nil {
		return nil, fmt.Errorf("rendering diff prompt: %w", err)
	}

	response, err := llm.Complete(ctx, prompt.String())
	if err != nil {
		return nil, fmt.Errorf("analyzing diff: %w", err)
	}

	var sc changemap.SemanticChanges
	if err := json.Unmarshal([]byte(StripFences(response)), &sc); err != nil {
		return nil, fmt.Errorf("parsing change analysis: %w", err)
	}

	if sc.ImpactAssessment == "" {
		sc.ImpactAssessment = "low"
	}

	return &sc, nil
}

// StripFences removes a surrounding markdown code fence, with or without a
// language tag, from an LLM response.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line (```json, ```mermaid, or bare ```).
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

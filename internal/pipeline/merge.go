package pipeline

import (
	"fmt"

	"github.com/julianshen/flowsmith/internal/diagram"
)

// mergePatched lifts the new labels of affected nodes out of the LLM's
// patched diagram and re-serializes them through the original structure.
// The model's output is treated as a source of labels only; node IDs,
// edges, and subgraphs always come from the original, so a drifting or
// hallucinated response cannot corrupt the diagram layout.
func mergePatched(original *diagram.Diagram, patchedSource string, affected []string) (string, error) {
	patched := diagram.Parse(patchedSource)
	if patched.Type == "" || len(patched.Nodes) == 0 {
		return "", fmt.Errorf("patched diagram is not parseable")
	}

	replacements := make(map[string]string)
	for _, id := range affected {
		origNode, ok := original.Nodes[id]
		if !ok {
			continue
		}
		newNode, ok := patched.Nodes[id]
		if !ok {
			// The model dropped an affected node; keep the old label.
			continue
		}
		if newNode.Content != origNode.Content {
			replacements[id] = newNode.Content
		}
	}

	return diagram.Serialize(original, replacements), nil
}

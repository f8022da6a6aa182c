package diagram

import (
	"fmt"
	"strings"
)

// Validate checks that source is plausibly renderable Mermaid before it is
// written anywhere. It is a structural sanity check, not a full grammar
// check: header present, subgraph/end balanced, at least one node defined.
func Validate(source string) error {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return fmt.Errorf("empty diagram")
	}

	lines := strings.Split(trimmed, "\n")
	header := strings.TrimSpace(lines[0])
	if !strings.HasPrefix(header, "flowchart") && !strings.HasPrefix(header, "graph") {
		return fmt.Errorf("missing flowchart or graph declaration")
	}

	opens, closes := 0, 0
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "subgraph ") {
			opens++
		}
		if line == "end" {
			closes++
		}
	}
	if opens != closes {
		return fmt.Errorf("unbalanced subgraphs: %d opened, %d closed", opens, closes)
	}

	if d := Parse(source); len(d.Nodes) == 0 {
		return fmt.Errorf("no nodes defined")
	}

	return nil
}

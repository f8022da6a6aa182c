package output

import (
	"fmt"
	"strings"
)

// MarkdownFormatter outputs a Report as human-readable Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format renders the Report as Markdown.
func (f *MarkdownFormatter) Format(report *Report) ([]byte, error) {
	var b strings.Builder

	if report.Error != "" {
		b.WriteString("## Error\n\n")
		b.WriteString(report.Error)
		b.WriteString("\n")
		return []byte(b.String()), nil
	}

	fmt.Fprintf(&b, "## Diagram %s\n\n", modeHeading(report.Mode))
	fmt.Fprintf(&b, "%s\n", report.Reason)

	if report.Mode != "noop" {
		b.WriteString("\n")
		if report.Tier != "" {
			fmt.Fprintf(&b, "- Impact: %s (%.1f%% of %d nodes)\n",
				report.Tier, report.Percentage, report.NodeCount)
		}
		if len(report.AffectedNodes) > 0 {
			fmt.Fprintf(&b, "- Affected steps: %s\n", strings.Join(report.AffectedNodes, ", "))
		}
		if report.ArtifactPath != "" {
			fmt.Fprintf(&b, "- Artifact: %s\n", report.ArtifactPath)
		}
	}

	if report.Commit != "" {
		fmt.Fprintf(&b, "\n---\n*At commit %s, took %dms*\n", shortCommit(report.Commit), report.DurationMs)
	} else {
		fmt.Fprintf(&b, "\n---\n*Took %dms*\n", report.DurationMs)
	}

	return []byte(b.String()), nil
}

func modeHeading(mode string) string {
	switch mode {
	case "full":
		return "regenerated"
	case "incremental":
		return "patched"
	case "noop":
		return "unchanged"
	default:
		return mode
	}
}

func shortCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}

// Package output renders the result of a flowsmith run for terminals and
// scripts.
package output

// Report holds the collected outcome of a generate or update run.
type Report struct {
	Mode          string   `json:"mode"`
	Reason        string   `json:"reason"`
	Tier          string   `json:"tier,omitempty"`
	Percentage    float64  `json:"percentage"`
	AffectedNodes []string `json:"affected_nodes,omitempty"`
	NodeCount     int      `json:"node_count"`
	ArtifactPath  string   `json:"artifact_path,omitempty"`
	Commit        string   `json:"commit,omitempty"`
	DurationMs    int64    `json:"duration_ms"`
	Error         string   `json:"error,omitempty"`
}

// Formatter renders a Report into output bytes.
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// NewFormatter returns the formatter for the given format name. Anything
// other than "json" gets the Markdown formatter.
func NewFormatter(format string) Formatter {
	if format == "json" {
		return NewJSONFormatter()
	}
	return NewMarkdownFormatter()
}

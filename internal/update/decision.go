// Package update decides how an existing architecture diagram should be
// brought in line with a set of code changes: regenerated from scratch,
// patched incrementally, or left alone.
package update

import (
	"fmt"

	"github.com/julianshen/flowsmith/internal/changemap"
	"github.com/julianshen/flowsmith/internal/diagram"
)

// Mode is the chosen update strategy.
type Mode string

const (
	ModeFull        Mode = "full"
	ModeIncremental Mode = "incremental"
	ModeNoop        Mode = "noop"
)

// Reasons for falling back to full regeneration or doing nothing. These are
// user-facing strings; run reports and logs show them verbatim.
const (
	ReasonForcedFull  = "full regeneration forced by caller"
	ReasonNoDiagram   = "no existing diagram found"
	ReasonParseFailed = "could not parse existing diagram"
	ReasonNoChanges   = "no changes detected"
)

// DefaultThreshold is the affected-node percentage above which an
// incremental patch is abandoned in favor of full regeneration.
const DefaultThreshold = 50.0

// Input collects everything the decision depends on. DiagramSource is only
// consulted when HasDiagram is true.
type Input struct {
	ForceFull     bool
	HasDiagram    bool
	DiagramSource string
	HasChanges    bool
	Changes       changemap.ChangeSet
	// Threshold is a percentage; zero means DefaultThreshold.
	Threshold float64
}

// Decision is the orchestrator output. For incremental decisions it carries
// the affected node IDs and their contexts; for all decisions Reason
// explains the choice in plain language.
type Decision struct {
	Mode          Mode
	Reason        string
	Tier          changemap.Tier
	Percentage    float64
	AffectedNodes []string
	Contexts      []changemap.NodeContext
	// Diagram is the parsed existing diagram, present whenever parsing
	// succeeded, so callers can patch without re-parsing.
	Diagram *diagram.Diagram
}

// Decide runs the decision sequence: forced-full short-circuit, diagram
// presence, parseability, change presence, then impact classification
// against the threshold.
func Decide(in Input) Decision {
	if in.ForceFull {
		return Decision{Mode: ModeFull, Reason: ReasonForcedFull, Tier: changemap.TierFull, Percentage: 100}
	}

	if !in.HasDiagram {
		return Decision{Mode: ModeFull, Reason: ReasonNoDiagram, Tier: changemap.TierFull, Percentage: 100}
	}

	d := diagram.Parse(in.DiagramSource)
	if d.Type == "" || len(d.Nodes) == 0 {
		return Decision{Mode: ModeFull, Reason: ReasonParseFailed, Tier: changemap.TierFull, Percentage: 100}
	}

	if !in.HasChanges || in.Changes.IsEmpty() {
		return Decision{Mode: ModeNoop, Reason: ReasonNoChanges, Tier: changemap.TierNone, Diagram: d}
	}

	mapper := changemap.NewMapper(d)
	affected := mapper.Map(in.Changes)
	tier, pct := changemap.Classify(len(affected), len(d.Nodes))

	if len(affected) == 0 {
		return Decision{
			Mode:    ModeNoop,
			Reason:  "changes do not touch any diagram node",
			Tier:    tier,
			Diagram: d,
		}
	}

	threshold := in.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	if pct > threshold {
		return Decision{
			Mode:          ModeFull,
			Reason:        fmt.Sprintf("high impact (%.1f%% of nodes) - regenerating from scratch", pct),
			Tier:          tier,
			Percentage:    pct,
			AffectedNodes: affected,
			Diagram:       d,
		}
	}

	contexts := make([]changemap.NodeContext, 0, len(affected))
	for _, id := range affected {
		contexts = append(contexts, mapper.NodeContext(id))
	}

	return Decision{
		Mode:          ModeIncremental,
		Reason:        fmt.Sprintf("low impact (%.1f%% of nodes) - patching affected steps", pct),
		Tier:          tier,
		Percentage:    pct,
		AffectedNodes: affected,
		Contexts:      contexts,
		Diagram:       d,
	}
}

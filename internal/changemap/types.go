package changemap

// ChangeType classifies a single semantic change record.
type ChangeType string

const (
	ChangeConfigUpdate     ChangeType = "config_update"
	ChangeMethod           ChangeType = "method_change"
	ChangeNewComponent     ChangeType = "new_component"
	ChangeRemovedComponent ChangeType = "removed_component"
	ChangeFlow             ChangeType = "flow_change"
)

// Change is one pre-classified semantic change, typically produced by an LLM
// from a raw diff. All fields are optional hints; the mapper uses whatever
// is populated.
type Change struct {
	Component     string     `json:"component"`
	Type          ChangeType `json:"type"`
	Field         string     `json:"field,omitempty"`
	OldValue      string     `json:"old_value,omitempty"`
	NewValue      string     `json:"new_value,omitempty"`
	Impact        string     `json:"impact,omitempty"`
	AffectedNodes []string   `json:"affected_nodes,omitempty"`
}

// SemanticChanges is the structured change description form.
type SemanticChanges struct {
	Changes          []Change `json:"changes"`
	Summary          string   `json:"summary"`
	ChangedFiles     []string `json:"changed_files"`
	ImpactAssessment string   `json:"impact_assessment"`
}

// LegacyChanges carries raw signals extracted directly from a git diff, used
// when no structured description is available.
type LegacyChanges struct {
	ChangedFiles     []string
	ChangedFunctions []string
	ChangedConfigs   map[string]string
	DiffText         string
}

// ChangeSet is a tagged union over the two description forms. The semantic
// form drives mapping exactly when it carries at least one Change record;
// otherwise the legacy form does. The two are never combined.
type ChangeSet struct {
	Semantic *SemanticChanges
	Legacy   *LegacyChanges
}

// IsSemantic reports whether the structured form will drive mapping.
func (cs ChangeSet) IsSemantic() bool {
	return cs.Semantic != nil && len(cs.Semantic.Changes) > 0
}

// IsEmpty reports whether the set carries no usable signal in either form.
func (cs ChangeSet) IsEmpty() bool {
	if cs.IsSemantic() {
		return false
	}
	l := cs.Legacy
	if l == nil {
		return true
	}
	return len(l.ChangedFiles) == 0 && len(l.ChangedFunctions) == 0 &&
		len(l.ChangedConfigs) == 0 && l.DiffText == ""
}

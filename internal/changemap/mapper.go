package changemap

import (
	"sort"
	"strings"

	"github.com/julianshen/flowsmith/internal/diagram"
)

// Mapper resolves change descriptions against one parsed diagram. Keyword
// sets for every node are computed once at construction; the diagram is
// treated as read-only afterwards.
type Mapper struct {
	diagram      *diagram.Diagram
	nodeKeywords map[string]map[string]bool
}

// NodeContext describes one node and its immediate neighborhood, used to
// build focused incremental-update prompts.
type NodeContext struct {
	NodeID   string
	Content  string
	Shape    diagram.Shape
	Subgraph string
	Incoming []string
	Outgoing []string
	Keywords []string
}

// NewMapper precomputes the taxonomy keywords present in each node's label.
// Every matching keyword is recorded along with its category name, so
// category membership is a plain set lookup afterwards.
func NewMapper(d *diagram.Diagram) *Mapper {
	m := &Mapper{
		diagram:      d,
		nodeKeywords: make(map[string]map[string]bool, len(d.Nodes)),
	}
	for id, node := range d.Nodes {
		text := strings.ToLower(node.Content)
		kws := make(map[string]bool)
		for _, cat := range categoryOrder {
			for _, kw := range stepKeywords[cat] {
				if strings.Contains(text, kw) {
					kws[kw] = true
					kws[string(cat)] = true
				}
			}
		}
		m.nodeKeywords[id] = kws
	}
	return m
}

// Map resolves a ChangeSet to the sorted IDs of affected nodes. Empty or
// malformed input yields an empty result, never an error.
func (m *Mapper) Map(cs ChangeSet) []string {
	var affected map[string]bool
	if cs.IsSemantic() {
		affected = m.mapSemantic(cs.Semantic)
	} else if cs.Legacy != nil {
		affected = m.mapLegacy(cs.Legacy)
	}

	ids := make([]string, 0, len(affected))
	for id := range affected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NodeContext returns the context record for id. Unknown IDs get a zero
// context rather than an error.
func (m *Mapper) NodeContext(id string) NodeContext {
	node, ok := m.diagram.Nodes[id]
	if !ok {
		return NodeContext{NodeID: id}
	}

	var kws []string
	for kw := range m.nodeKeywords[id] {
		kws = append(kws, kw)
	}
	sort.Strings(kws)

	return NodeContext{
		NodeID:   id,
		Content:  node.Content,
		Shape:    node.Shape,
		Subgraph: node.Subgraph,
		Incoming: m.diagram.Incoming(id),
		Outgoing: m.diagram.Outgoing(id),
		Keywords: kws,
	}
}

func (m *Mapper) mapSemantic(sc *SemanticChanges) map[string]bool {
	affected := make(map[string]bool)
	for _, change := range sc.Changes {
		m.applyHints(change.AffectedNodes, affected)
		if change.Component != "" {
			m.applyComponent(change.Component, affected)
		}
		if change.Field != "" {
			m.applyField(change.Field, affected)
		}
	}
	return affected
}

// applyHints matches pre-resolved node hints against node IDs,
// case-insensitively and in both containment directions, so "embed" hits
// "EmbedChunks" and "EmbedChunksStep" hits "Embed".
func (m *Mapper) applyHints(hints []string, affected map[string]bool) {
	for _, hint := range hints {
		h := strings.ToLower(strings.TrimSpace(hint))
		if h == "" {
			continue
		}
		for id := range m.diagram.Nodes {
			lid := strings.ToLower(id)
			if strings.Contains(lid, h) || strings.Contains(h, lid) {
				affected[id] = true
			}
		}
	}
}

// applyComponent routes a component name through the taxonomy (keyword
// equality, or containment between the name and a category name in either
// direction), then adds every node of the matched categories.
func (m *Mapper) applyComponent(component string, affected map[string]bool) {
	comp := strings.ToLower(component)

	for _, cat := range categoryOrder {
		if !componentMatchesCategory(comp, cat) {
			continue
		}
		for id := range m.nodesForCategory(cat) {
			affected[id] = true
		}
	}
}

func componentMatchesCategory(comp string, cat Category) bool {
	name := string(cat)
	if strings.Contains(comp, name) || strings.Contains(name, comp) {
		return true
	}
	for _, kw := range stepKeywords[cat] {
		if comp == kw {
			return true
		}
	}
	return false
}

// applyField matches a config field name against each node's precomputed
// keyword set, with containment in either direction so "embedding_model"
// reaches the node that carries "embedding". Only the matching nodes are
// added, never their whole category.
func (m *Mapper) applyField(field string, affected map[string]bool) {
	f := strings.ToLower(strings.TrimSpace(field))
	if f == "" {
		return
	}
	for id, kws := range m.nodeKeywords {
		for kw := range kws {
			if strings.Contains(f, kw) || strings.Contains(kw, f) {
				affected[id] = true
				break
			}
		}
	}
}

func (m *Mapper) mapLegacy(lc *LegacyChanges) map[string]bool {
	affected := make(map[string]bool)

	for _, file := range lc.ChangedFiles {
		base := strings.ToLower(baseName(file))
		m.applyKeywordsIn(base, affected)
	}

	for _, fn := range lc.ChangedFunctions {
		m.applyKeywordsIn(strings.ToLower(fn), affected)
	}

	// Config keys resolve per node, not per category: only nodes whose own
	// keyword set matches the key are stale.
	for key := range lc.ChangedConfigs {
		m.applyField(key, affected)
	}

	if lc.DiffText != "" {
		for _, cat := range categoriesInDiff(lc.DiffText) {
			for id := range m.nodesForCategory(cat) {
				affected[id] = true
			}
		}
	}

	return affected
}

// applyKeywordsIn routes text through the taxonomy: every category with a
// keyword appearing in the text marks all of that category's nodes. The
// indirection matters because a diff signal and a node label rarely share
// exact tokens ("upsert_vectors" must still reach the "Pinecone Index" node).
func (m *Mapper) applyKeywordsIn(text string, affected map[string]bool) {
	for _, cat := range categoryOrder {
		for _, kw := range stepKeywords[cat] {
			if !strings.Contains(text, kw) {
				continue
			}
			for id := range m.nodesForCategory(cat) {
				affected[id] = true
			}
			break
		}
	}
}

// nodesForCategory returns every node of a category: nodes whose keyword
// set includes it, plus members of any subgraph whose name contains the
// category name. A stage-named subgraph marks all its steps stale even when
// an individual label carries none of the category's keywords.
func (m *Mapper) nodesForCategory(cat Category) map[string]bool {
	out := make(map[string]bool)
	for id, kws := range m.nodeKeywords {
		if kws[string(cat)] {
			out[id] = true
		}
	}
	for name, members := range m.diagram.Subgraphs {
		if !strings.Contains(strings.ToLower(name), string(cat)) {
			continue
		}
		for _, id := range members {
			out[id] = true
		}
	}
	return out
}

// baseName returns the final path segment, extension included, so keyword
// hits inside extensions (cache.pkl) still count.
func baseName(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path
}

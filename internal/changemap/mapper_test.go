package changemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/flowsmith/internal/diagram"
)

const testPipeline = `flowchart TD
    subgraph Ingestion
        Reader["Read Source Files"]
        Chunker(Chunk Text)
    end
    subgraph Indexing
        Embedder[Generate Embeddings]
        VectorStore[("Pinecone Index")]
    end
    CacheStep[Pickle Cache]

    Reader --> Chunker
    Chunker --> Embedder
    Embedder --> VectorStore
    Chunker --> CacheStep
`

func newTestMapper(t *testing.T) *Mapper {
	t.Helper()
	d := diagram.Parse(testPipeline)
	require.Len(t, d.Nodes, 5)
	return NewMapper(d)
}

func TestMapSemanticHints(t *testing.T) {
	m := newTestMapper(t)

	got := m.Map(ChangeSet{Semantic: &SemanticChanges{Changes: []Change{
		{Component: "", Type: ChangeMethod, AffectedNodes: []string{"embed"}},
	}}})

	assert.Equal(t, []string{"Embedder"}, got)
}

func TestMapSemanticComponentCategory(t *testing.T) {
	m := newTestMapper(t)

	got := m.Map(ChangeSet{Semantic: &SemanticChanges{Changes: []Change{
		{Component: "chunking", Type: ChangeConfigUpdate},
	}}})

	assert.Equal(t, []string{"Chunker"}, got)
}

func TestMapSemanticComponentSubgraph(t *testing.T) {
	m := newTestMapper(t)

	got := m.Map(ChangeSet{Semantic: &SemanticChanges{Changes: []Change{
		{Component: "Ingestion", Type: ChangeFlow},
	}}})

	assert.Equal(t, []string{"Chunker", "Reader"}, got)
}

func TestMapSemanticField(t *testing.T) {
	m := newTestMapper(t)

	got := m.Map(ChangeSet{Semantic: &SemanticChanges{Changes: []Change{
		{Component: "unrelated-widget", Type: ChangeConfigUpdate, Field: "chunk_size", OldValue: "500", NewValue: "1000"},
	}}})

	assert.Contains(t, got, "Chunker")
}

func TestMapSemanticFieldSubstring(t *testing.T) {
	m := newTestMapper(t)

	got := m.Map(ChangeSet{Semantic: &SemanticChanges{Changes: []Change{
		{Component: "x", Type: ChangeConfigUpdate, Field: "embedding_model"},
	}}})

	// The field contains the "embedding" keyword, so it reaches the node
	// carrying it; nothing else matches.
	assert.Equal(t, []string{"Embedder"}, got)
}

func TestMapSemanticComponentNoSpuriousMatch(t *testing.T) {
	m := newTestMapper(t)

	got := m.Map(ChangeSet{Semantic: &SemanticChanges{Changes: []Change{
		{Component: "x", Type: ChangeMethod},
	}}})

	assert.Empty(t, got, "a component matching no category or keyword marks nothing")
}

func TestMapKeywordsComeFromContentNotID(t *testing.T) {
	d := diagram.Parse(`flowchart TD
    IndexBuilder["Assemble lookup tables"]
`)
	m := NewMapper(d)

	got := m.Map(ChangeSet{Semantic: &SemanticChanges{Changes: []Change{
		{Component: "vectordb", Type: ChangeMethod},
	}}})

	assert.Empty(t, got, "the ID's 'index' token must not count as a label keyword")
}

func TestMapSemanticUnionsAcrossChanges(t *testing.T) {
	m := newTestMapper(t)

	single := func(c Change) []string {
		return m.Map(ChangeSet{Semantic: &SemanticChanges{Changes: []Change{c}}})
	}
	first := Change{Component: "chunking"}
	second := Change{AffectedNodes: []string{"VectorStore"}}

	combined := m.Map(ChangeSet{Semantic: &SemanticChanges{Changes: []Change{first, second}}})

	want := map[string]bool{}
	for _, id := range single(first) {
		want[id] = true
	}
	for _, id := range single(second) {
		want[id] = true
	}
	assert.Len(t, combined, len(want))
	for _, id := range combined {
		assert.True(t, want[id], "unexpected node %s", id)
	}
}

func TestMapLegacyFileNames(t *testing.T) {
	m := newTestMapper(t)

	got := m.Map(ChangeSet{Legacy: &LegacyChanges{
		ChangedFiles: []string{"src/embedding_service.py"},
	}})

	assert.Contains(t, got, "Embedder")
	assert.NotContains(t, got, "Chunker")
}

func TestMapLegacyFileNameIncludesStageSubgraphMembers(t *testing.T) {
	d := diagram.Parse(`flowchart TD
    subgraph Chunking
        Docs["Raw documents"]
        Splitter["Split text"]
    end

    Docs --> Splitter
`)
	m := NewMapper(d)

	got := m.Map(ChangeSet{Legacy: &LegacyChanges{
		ChangedFiles: []string{"src/chunking.py"},
	}})

	// The stage-named subgraph marks every member, including Docs, whose
	// label carries no chunking keyword of its own.
	assert.Equal(t, []string{"Docs", "Splitter"}, got)
}

func TestMapLegacyFileNameKeepsExtension(t *testing.T) {
	m := newTestMapper(t)

	got := m.Map(ChangeSet{Legacy: &LegacyChanges{
		ChangedFiles: []string{"embeddings/model.pkl"},
	}})

	assert.Contains(t, got, "Embedder")
	assert.Contains(t, got, "CacheStep", "the .pkl extension is part of the matched segment")
}

func TestMapLegacyFunctionNames(t *testing.T) {
	m := newTestMapper(t)

	got := m.Map(ChangeSet{Legacy: &LegacyChanges{
		ChangedFunctions: []string{"upsert_vectors"},
	}})

	assert.Contains(t, got, "VectorStore")
}

func TestMapLegacyConfigKeys(t *testing.T) {
	m := newTestMapper(t)

	got := m.Map(ChangeSet{Legacy: &LegacyChanges{
		ChangedConfigs: map[string]string{"chunk_size": "1000"},
	}})

	assert.Equal(t, []string{"Chunker"}, got)
}

func TestMapLegacyConfigKeysPerNode(t *testing.T) {
	m := newTestMapper(t)

	// "load" is a taxonomy keyword, but no node label carries it: config
	// keys resolve against node keyword sets, never whole categories.
	got := m.Map(ChangeSet{Legacy: &LegacyChanges{
		ChangedConfigs: map[string]string{"load_timeout": "30"},
	}})

	assert.Empty(t, got)
}

func TestMapLegacyDiffTextPatterns(t *testing.T) {
	m := newTestMapper(t)

	got := m.Map(ChangeSet{Legacy: &LegacyChanges{
		DiffText: "+    namespace=\"prod-docs\"\n",
	}})

	assert.Contains(t, got, "VectorStore")
}

func TestMapSemanticWinsOverLegacy(t *testing.T) {
	m := newTestMapper(t)

	got := m.Map(ChangeSet{
		Semantic: &SemanticChanges{Changes: []Change{{Component: "cache"}}},
		Legacy:   &LegacyChanges{ChangedFiles: []string{"chunker.py"}},
	})

	assert.Contains(t, got, "CacheStep")
	assert.NotContains(t, got, "Chunker")
}

func TestMapEmptyInputs(t *testing.T) {
	m := newTestMapper(t)

	assert.Empty(t, m.Map(ChangeSet{}))
	assert.Empty(t, m.Map(ChangeSet{Semantic: &SemanticChanges{}}))
	assert.Empty(t, m.Map(ChangeSet{Legacy: &LegacyChanges{}}))
}

func TestNodeContext(t *testing.T) {
	m := newTestMapper(t)

	ctx := m.NodeContext("Chunker")
	assert.Equal(t, "Chunk Text", ctx.Content)
	assert.Equal(t, diagram.ShapeRounded, ctx.Shape)
	assert.Equal(t, "Ingestion", ctx.Subgraph)
	assert.Equal(t, []string{"Reader"}, ctx.Incoming)
	assert.Equal(t, []string{"Embedder", "CacheStep"}, ctx.Outgoing)
	assert.Contains(t, ctx.Keywords, "chunk")
}

func TestNodeContextUnknownID(t *testing.T) {
	m := newTestMapper(t)

	ctx := m.NodeContext("Ghost")
	assert.Equal(t, "Ghost", ctx.NodeID)
	assert.Empty(t, ctx.Content)
	assert.Empty(t, ctx.Incoming)
	assert.Empty(t, ctx.Keywords)
}

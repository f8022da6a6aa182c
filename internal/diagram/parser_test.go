package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiagram = `flowchart TD
    title(Document Pipeline)
    subgraph Ingestion
        A["Read Files"]
        B(Split Documents)
    end
    subgraph Storage
        C[("GCS Bucket")]
    end
    %% embedding happens outside any subgraph
    D[Embed Chunks]

    A --> B
    B --> D
    D --> C
`

func TestParseSampleDiagram(t *testing.T) {
	d := Parse(sampleDiagram)

	assert.Equal(t, "flowchart TD", d.Type)
	assert.Equal(t, "Document Pipeline", d.Metadata["title"])

	require.Len(t, d.Nodes, 4)
	assert.Equal(t, "Read Files", d.Nodes["A"].Content)
	assert.Equal(t, ShapeRectangle, d.Nodes["A"].Shape)
	assert.Equal(t, "Ingestion", d.Nodes["A"].Subgraph)

	assert.Equal(t, "Split Documents", d.Nodes["B"].Content)
	assert.Equal(t, ShapeRounded, d.Nodes["B"].Shape)

	assert.Equal(t, "GCS Bucket", d.Nodes["C"].Content)
	assert.Equal(t, ShapeCylinder, d.Nodes["C"].Shape)
	assert.Equal(t, "Storage", d.Nodes["C"].Subgraph)

	assert.Equal(t, "Embed Chunks", d.Nodes["D"].Content)
	assert.Equal(t, ShapeRectangle, d.Nodes["D"].Shape)
	assert.Empty(t, d.Nodes["D"].Subgraph)

	assert.Equal(t, []string{"Ingestion", "Storage"}, d.SubgraphOrder)
	assert.Equal(t, []string{"A", "B"}, d.Subgraphs["Ingestion"])
	assert.Equal(t, []string{"C"}, d.Subgraphs["Storage"])

	require.Len(t, d.Edges, 3)
	assert.Equal(t, Edge{From: "A", To: "B"}, d.Edges[0])
	assert.Equal(t, Edge{From: "D", To: "C"}, d.Edges[2])
}

func TestParseEmptyAndUnrecognized(t *testing.T) {
	assert.Empty(t, Parse("").Type)
	assert.Empty(t, Parse("   \n  ").Type)

	d := Parse("sequenceDiagram\n    Alice->>Bob: hi\n")
	assert.Empty(t, d.Type, "non-flowchart source signals parse failure via empty type")
}

func TestParseToleratesDanglingReferences(t *testing.T) {
	d := Parse("flowchart LR\n    A[Start]\n    A --> Missing\n")

	require.Len(t, d.Edges, 1)
	assert.Equal(t, "Missing", d.Edges[0].To)
	_, declared := d.Nodes["Missing"]
	assert.False(t, declared)
}

func TestParseNodeDefinedOnEdgeLine(t *testing.T) {
	d := Parse("flowchart TD\n    A[Start]\n    A --> B[Finish]\n")

	require.Contains(t, d.Nodes, "B")
	assert.Equal(t, "Finish", d.Nodes["B"].Content)
	require.Len(t, d.Edges, 1)
	assert.Equal(t, Edge{From: "A", To: "B"}, d.Edges[0])
}

func TestParseSubgraphsDoNotNest(t *testing.T) {
	src := `flowchart TD
    subgraph Outer
        A[One]
    subgraph Inner
        B[Two]
    end
        C[Three]
`
	d := Parse(src)

	// Opening Inner replaces Outer as the current context; the single end
	// closes it, so C lands at top level.
	assert.Equal(t, []string{"A"}, d.Subgraphs["Outer"])
	assert.Equal(t, []string{"B"}, d.Subgraphs["Inner"])
	assert.Empty(t, d.Nodes["C"].Subgraph)
}

func TestParseMetadataBothDelimiterStyles(t *testing.T) {
	d := Parse("flowchart TD\n    title(My Pipeline)\n    purpose[Index docs]\n    note[WIP]\n    A[Step]\n")

	assert.Equal(t, "My Pipeline", d.Metadata["title"])
	assert.Equal(t, "Index docs", d.Metadata["purpose"])
	assert.Equal(t, "WIP", d.Metadata["note"])
}

func TestParseSkipsCommentsAndBlanks(t *testing.T) {
	d := Parse("flowchart TD\n\n    %% a comment\n    A[Step]\n")

	assert.Len(t, d.Nodes, 1)
	assert.Empty(t, d.Edges)
}

func TestNodesByKeyword(t *testing.T) {
	d := Parse(sampleDiagram)

	assert.Equal(t, []string{"C"}, d.NodesByKeyword("bucket"))
	assert.Equal(t, []string{"D"}, d.NodesByKeyword("EMBED"))
	assert.Empty(t, d.NodesByKeyword("pinecone"))
}

func TestIncomingOutgoing(t *testing.T) {
	d := Parse(sampleDiagram)

	assert.Equal(t, []string{"B"}, d.Incoming("D"))
	assert.Equal(t, []string{"D"}, d.Outgoing("B"))
	assert.Empty(t, d.Incoming("A"))
}

package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianshen/flowsmith/internal/changemap"
	"github.com/julianshen/flowsmith/internal/config"
)

func TestMetadataSection(t *testing.T) {
	md := config.Metadata{
		Name:     "docs-pipeline",
		Purpose:  "index support docs",
		DataType: "markdown",
	}

	section := MetadataSection(md)
	assert.Contains(t, section, "- Name: docs-pipeline")
	assert.Contains(t, section, "- Purpose: index support docs")
	assert.Contains(t, section, "- Data type: markdown")
	assert.NotContains(t, section, "Owner")
}

func TestMetadataSectionEmpty(t *testing.T) {
	assert.Empty(t, MetadataSection(config.Metadata{}))
}

func TestBuildGenerate(t *testing.T) {
	p, err := BuildGenerate("--- FILE: pipeline.py [python] ---", "Pipeline metadata:\n- Name: docs")
	require.NoError(t, err)

	assert.Contains(t, p, "flowchart TD")
	assert.Contains(t, p, "--- FILE: pipeline.py [python] ---")
	assert.Contains(t, p, "- Name: docs")
	assert.Contains(t, p, "Mermaid diagram only")
}

func TestBuildGenerateNoMetadata(t *testing.T) {
	p, err := BuildGenerate("code here", "")
	require.NoError(t, err)
	assert.NotContains(t, p, "Pipeline metadata")
}

func TestBuildIncremental(t *testing.T) {
	contexts := []changemap.NodeContext{
		{
			NodeID:   "Chunker",
			Content:  "Split into chunks",
			Subgraph: "Ingestion",
			Incoming: []string{"Reader"},
			Outgoing: []string{"Embedder"},
		},
	}

	p, err := BuildIncremental("flowchart TD\n    Chunker[Split into chunks]", "+chunk_size = 1000", contexts, "")
	require.NoError(t, err)

	assert.Contains(t, p, `- Chunker: "Split into chunks" (in Ingestion)`)
	assert.Contains(t, p, "receives from: Reader")
	assert.Contains(t, p, "feeds into: Embedder")
	assert.Contains(t, p, "+chunk_size = 1000")
	assert.Contains(t, p, "Update ONLY the labels")
}

func TestBuildIncrementalTruncatesDiff(t *testing.T) {
	long := strings.Repeat("x", maxDiffContext+500)

	p, err := BuildIncremental("flowchart TD\n    A[Step]", long, nil, "")
	require.NoError(t, err)

	assert.Contains(t, p, "(diff truncated)")
	assert.Less(t, len(p), len(long)+2000)
}

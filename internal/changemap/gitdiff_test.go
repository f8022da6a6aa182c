package changemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/pipeline/chunker.py b/pipeline/chunker.py
index 1234567..89abcde 100644
--- a/pipeline/chunker.py
+++ b/pipeline/chunker.py
@@ -10,7 +10,7 @@
-def chunk_documents(docs):
+def chunk_documents(docs, overlap):
-chunk_size = 500
+chunk_size = 1000
diff --git a/pipeline/embedder.py b/pipeline/embedder.py
--- a/pipeline/embedder.py
+++ b/pipeline/embedder.py
+model = "text-embedding-3-small"
+func helperEmbed() {
`

func TestParseGitDiff(t *testing.T) {
	lc := ParseGitDiff(sampleDiff)

	assert.Equal(t, []string{"pipeline/chunker.py", "pipeline/embedder.py"}, lc.ChangedFiles)
	assert.Equal(t, []string{"chunk_documents", "helperEmbed"}, lc.ChangedFunctions)

	require.Contains(t, lc.ChangedConfigs, "chunk_size")
	assert.Equal(t, "1000", lc.ChangedConfigs["chunk_size"])
	require.Contains(t, lc.ChangedConfigs, "model")
	assert.Equal(t, "text-embedding-3-small", lc.ChangedConfigs["model"])

	assert.Equal(t, sampleDiff, lc.DiffText)
}

func TestParseGitDiffEmpty(t *testing.T) {
	lc := ParseGitDiff("")

	assert.Empty(t, lc.ChangedFiles)
	assert.Empty(t, lc.ChangedFunctions)
	assert.Empty(t, lc.ChangedConfigs)
}

func TestCategoriesInDiff(t *testing.T) {
	cats := categoriesInDiff("+chunk_size = 800\n+bucket=\"prod\"\n")
	assert.Equal(t, []Category{CategoryChunking, CategoryStorage}, cats)

	assert.Empty(t, categoriesInDiff("+unrelated = true\n"))
}

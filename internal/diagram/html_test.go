package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromHTML(t *testing.T) {
	page := `<html><body>
<h1>Pipeline</h1>
<div class="mermaid">
flowchart TD
    A[Read] --> B[Chunk]
</div>
<div class="mermaid">graph LR
X --> Y</div>
</body></html>`

	src, ok := ExtractFromHTML(page)
	assert.True(t, ok)
	assert.Equal(t, "flowchart TD\n    A[Read] --> B[Chunk]", src)
}

func TestExtractFromHTMLNotFound(t *testing.T) {
	src, ok := ExtractFromHTML("<html><body>no diagram here</body></html>")
	assert.False(t, ok)
	assert.Empty(t, src)
}

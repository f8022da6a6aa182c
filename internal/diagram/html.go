package diagram

import (
	"regexp"
	"strings"
)

var mermaidContainer = regexp.MustCompile(`(?s)<div class="mermaid">(.*?)</div>`)

// ExtractFromHTML returns the Mermaid source embedded in the first
// <div class="mermaid"> container of an HTML document. The second return
// value reports whether a container was found; absence is a normal outcome
// for a page without a diagram, not an error.
func ExtractFromHTML(content string) (string, bool) {
	m := mermaidContainer.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// Package artifact reads and writes the diagram.html file: the single HTML
// page holding the rendered Mermaid diagram for a repository.
package artifact

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianshen/flowsmith/internal/diagram"
)

// ErrNotFound reports that there is no usable diagram at the artifact path:
// either the file does not exist or it holds no mermaid container. Callers
// treat this as "generate from scratch", unlike real I/O failures which are
// surfaced.
var ErrNotFound = errors.New("diagram artifact not found")

// Store manages one diagram artifact file and its single backup.
type Store struct {
	path string
}

// NewStore creates a store for the artifact at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the artifact file location.
func (s *Store) Path() string {
	return s.path
}

// ReadMermaid extracts the Mermaid source from the artifact. It returns
// ErrNotFound when the file is absent or contains no mermaid container.
func (s *Store) ReadMermaid() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading %s: %w", s.path, err)
	}

	src, ok := diagram.ExtractFromHTML(string(data))
	if !ok {
		return "", ErrNotFound
	}
	return src, nil
}

// WriteMermaid validates the Mermaid source, rotates the previous artifact
// to a single .bak file, and writes the new HTML page.
func (s *Store) WriteMermaid(mermaid string) error {
	if err := diagram.Validate(mermaid); err != nil {
		return fmt.Errorf("refusing to write invalid diagram: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		if err := os.Rename(s.path, s.path+".bak"); err != nil {
			return fmt.Errorf("rotating previous diagram: %w", err)
		}
	}

	html := renderHTML(mermaid)
	if err := os.WriteFile(s.path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}
	return nil
}

const htmlPage = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Pipeline Architecture</title>
    <script src="https://cdn.jsdelivr.net/npm/mermaid/dist/mermaid.min.js"></script>
    <script>mermaid.initialize({startOnLoad: true});</script>
</head>
<body>
<div class="mermaid">
%s
</div>
</body>
</html>
`

func renderHTML(mermaid string) string {
	return fmt.Sprintf(htmlPage, mermaid)
}

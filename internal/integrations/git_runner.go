// Package integrations wraps the external systems flowsmith talks to: the
// git binary of the target repository and the configured LLM provider.
package integrations

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/julianshen/flowsmith/internal/parser"
)

// docExtensions are filtered out of diffs and changed-file lists; prose
// edits never affect the architecture diagram.
var docExtensions = []string{".md", ".rst", ".txt"}

// GitRunner executes git commands in a target repository.
type GitRunner struct {
	workDir string
}

// NewGitRunner creates a GitRunner for the given directory.
func NewGitRunner(workDir string) *GitRunner {
	return &GitRunner{workDir: workDir}
}

// IsRepo reports whether the work directory is inside a git repository.
func (g *GitRunner) IsRepo(ctx context.Context) bool {
	_, err := g.run(ctx, "rev-parse", "--git-dir")
	return err == nil
}

// Head returns the current HEAD commit hash.
func (g *GitRunner) Head(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Diff returns the textual diff between baseRef and HEAD, restricted to
// supported source files. If the restricted diff comes back empty, it
// retries unrestricted and strips documentation hunks afterwards, so a
// repo whose code lives behind unusual extensions still yields a signal.
func (g *GitRunner) Diff(ctx context.Context, baseRef string) (string, error) {
	args := []string{"diff", baseRef, "HEAD", "--unified=10", "--"}
	args = append(args, codePathspecs()...)

	out, err := g.run(ctx, args...)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) != "" {
		return out, nil
	}

	out, err = g.run(ctx, "diff", baseRef, "HEAD", "--unified=10")
	if err != nil {
		return "", err
	}
	return stripDocHunks(out), nil
}

// ChangedFiles returns the source files touched between baseRef and HEAD.
func (g *GitRunner) ChangedFiles(ctx context.Context, baseRef string) ([]string, error) {
	out, err := g.run(ctx, "diff", "--name-only", baseRef, "HEAD")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isDocFile(line) {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}

// codePathspecs builds git pathspec globs for every supported language
// extension.
func codePathspecs() []string {
	exts := parser.Extensions()
	specs := make([]string, 0, len(exts))
	for _, ext := range exts {
		specs = append(specs, "*"+ext)
	}
	return specs
}

func isDocFile(path string) bool {
	for _, ext := range docExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// stripDocHunks removes per-file diff sections for documentation files.
func stripDocHunks(diff string) string {
	var kept []string
	keeping := true
	for _, line := range strings.Split(diff, "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			keeping = !isDocFile(line)
		}
		if keeping {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func (g *GitRunner) run(ctx context.Context, args ...string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("git: no subcommand provided")
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.workDir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("git %s: %s", args[0], string(exitErr.Stderr))
		}
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return string(out), nil
}

// Package scan discovers the source files of a pipeline repository and
// extracts the structural skeleton (functions, imports, call sites) used to
// build generation prompts.
package scan

import (
	"bufio"
	"bytes"
	"context"
	"io/fs"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/julianshen/flowsmith/internal/config"
	"github.com/julianshen/flowsmith/internal/parser"
)

// langExtensions maps file extensions to language names.
var langExtensions = map[string]string{
	".go":   "go",
	".py":   "python",
	".js":   "javascript",
	".ts":   "typescript",
	".java": "java",
	".rb":   "ruby",
}

// skipDirs contains directory names that are excluded from scanning.
var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	"build":        true,
	"dist":         true,
	"__pycache__":  true,
	".venv":        true,
}

// File is one scanned source file with its extracted skeleton.
type File struct {
	Path      string
	Language  string
	Size      int64
	Module    string
	Functions []parser.FunctionDef
	Imports   []string
	Calls     []parser.CallSite
}

// Scan discovers supported source files in dir and extracts their skeletons.
// It uses git ls-files when inside a git repository, falling back to
// filepath.WalkDir otherwise. Files are parsed in parallel; discovery order
// is preserved in the result.
func Scan(ctx context.Context, dir string, cfg config.ScanConfig) ([]File, error) {
	relPaths, err := listFiles(ctx, dir)
	if err != nil {
		return nil, err
	}

	var candidates []File
	for _, rel := range relPaths {
		if shouldSkip(rel) {
			continue
		}
		ext := filepath.Ext(rel)
		lang, supported := langExtensions[ext]
		if !supported || !parser.Supported(ext) {
			continue
		}

		info, err := os.Stat(filepath.Join(dir, rel))
		if err != nil || info.IsDir() {
			continue
		}
		if cfg.MaxFileBytes > 0 && info.Size() > int64(cfg.MaxFileBytes) {
			continue
		}

		candidates = append(candidates, File{
			Path:     rel,
			Language: lang,
			Size:     info.Size(),
			Module:   moduleFromPath(rel),
		})
	}

	// Tree-sitter parsers are not safe for concurrent use, so each worker
	// owns one. Results land at their discovery index.
	p := pool.New().WithMaxGoroutines(runtime.NumCPU())
	for i := range candidates {
		p.Go(func() {
			f := &candidates[i]
			source, err := os.ReadFile(filepath.Join(dir, f.Path))
			if err != nil {
				log.Printf("WARNING: scan: reading %s: %v", f.Path, err)
				return
			}
			f.Functions, f.Imports, f.Calls = parseFile(parser.NewParser(), f.Path, source)
		})
	}
	p.Wait()

	return candidates, nil
}

// listFiles returns relative file paths under dir, via git ls-files when
// possible.
func listFiles(ctx context.Context, dir string) ([]string, error) {
	paths, err := gitLsFiles(ctx, dir)
	if err == nil {
		return paths, nil
	}
	return walkFiles(dir)
}

func gitLsFiles(ctx context.Context, dir string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var paths []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths, scanner.Err()
}

func walkFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Printf("WARNING: scan: skipping path %q: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	return paths, err
}

func shouldSkip(relPath string) bool {
	parts := strings.Split(filepath.ToSlash(relPath), "/")
	for _, part := range parts {
		if skipDirs[part] {
			return true
		}
	}
	return false
}

// moduleFromPath infers a module grouping from the file's directory. Files
// at the root return "root".
func moduleFromPath(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "." {
		return "root"
	}
	return filepath.ToSlash(dir)
}

// parseFile parses a single file, closing the tree before returning to
// avoid use-after-free when called in a loop.
func parseFile(p *parser.Parser, filename string, source []byte) ([]parser.FunctionDef, []string, []parser.CallSite) {
	tree, err := p.Parse(filename, source)
	if err != nil {
		return nil, nil, nil
	}
	defer tree.Close()
	return tree.Functions(), tree.Imports(), tree.Calls()
}

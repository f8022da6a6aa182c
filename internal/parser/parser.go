// Package parser provides tree-sitter-based source parsing for the
// languages pipeline codebases are written in. It extracts the pieces a
// diagram prompt needs: function definitions, imports, and call sites with
// their literal arguments, so config values like chunk_size=1000 survive
// into the LLM context.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// FunctionDef represents a function or method definition found in source code.
type FunctionDef struct {
	Name      string
	StartLine int
	EndLine   int
}

// CallSite represents a function or method invocation together with the
// literal text of its arguments.
type CallSite struct {
	Callee    string
	Args      string
	StartLine int
}

// maxArgsLen caps the captured argument text per call site.
const maxArgsLen = 160

// langInfo holds tree-sitter language metadata: which node types represent
// functions, imports, and calls, and which field names carry the callee.
type langInfo struct {
	lang            *sitter.Language
	funcNodeTypes   []string
	importNodeTypes []string
	callNodeTypes   []string
	calleeField     string
	argsField       string
}

// registry maps file extensions to language info for auto-detection.
var registry = map[string]langInfo{
	".go": {
		lang:            golang.GetLanguage(),
		funcNodeTypes:   []string{"function_declaration", "method_declaration"},
		importNodeTypes: []string{"import_declaration"},
		callNodeTypes:   []string{"call_expression"},
		calleeField:     "function",
		argsField:       "arguments",
	},
	".py": {
		lang:            python.GetLanguage(),
		funcNodeTypes:   []string{"function_definition"},
		importNodeTypes: []string{"import_statement", "import_from_statement"},
		callNodeTypes:   []string{"call"},
		calleeField:     "function",
		argsField:       "arguments",
	},
	".js": {
		lang:            javascript.GetLanguage(),
		funcNodeTypes:   []string{"function_declaration"},
		importNodeTypes: []string{"import_statement"},
		callNodeTypes:   []string{"call_expression"},
		calleeField:     "function",
		argsField:       "arguments",
	},
	".ts": {
		lang:            typescript.GetLanguage(),
		funcNodeTypes:   []string{"function_declaration"},
		importNodeTypes: []string{"import_statement"},
		callNodeTypes:   []string{"call_expression"},
		calleeField:     "function",
		argsField:       "arguments",
	},
	".java": {
		lang:            java.GetLanguage(),
		funcNodeTypes:   []string{"method_declaration", "constructor_declaration"},
		importNodeTypes: []string{"import_declaration"},
		callNodeTypes:   []string{"method_invocation"},
		calleeField:     "name",
		argsField:       "arguments",
	},
	".rb": {
		lang:            ruby.GetLanguage(),
		funcNodeTypes:   []string{"method"},
		importNodeTypes: []string{"call"}, // require/require_relative calls
		callNodeTypes:   []string{"call"},
		calleeField:     "method",
		argsField:       "arguments",
	},
}

// Supported reports whether files with the given extension can be parsed.
func Supported(ext string) bool {
	_, ok := registry[ext]
	return ok
}

// Extensions returns the supported file extensions.
func Extensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	return exts
}

// Parser wraps tree-sitter to parse source files with automatic language
// detection. It is not safe for concurrent use; create one per goroutine.
type Parser struct {
	inner *sitter.Parser
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{
		inner: sitter.NewParser(),
	}
}

// Parse parses source code from the given filename, auto-detecting the
// language from the file extension. Returns an error for unsupported
// extensions.
func (p *Parser) Parse(filename string, source []byte) (*Tree, error) {
	ext := filepath.Ext(filename)
	info, ok := registry[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file extension %q: language not in registry", ext)
	}

	p.inner.SetLanguage(info.lang)
	sitterTree, err := p.inner.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	return &Tree{
		tree:   sitterTree,
		source: source,
		info:   info,
	}, nil
}

// Tree wraps a parsed tree-sitter syntax tree with extraction methods.
type Tree struct {
	tree   *sitter.Tree
	source []byte
	info   langInfo
}

// RootNode returns the root node of the parsed syntax tree.
func (t *Tree) RootNode() *sitter.Node {
	return t.tree.RootNode()
}

// Close releases the underlying tree-sitter resources. The Tree must not be
// used afterwards.
func (t *Tree) Close() {
	t.tree.Close()
}

// Functions extracts all function and method definitions from the syntax tree.
func (t *Tree) Functions() []FunctionDef {
	var funcs []FunctionDef
	funcTypes := asSet(t.info.funcNodeTypes)

	walk(t.RootNode(), func(node *sitter.Node) {
		if !funcTypes[node.Type()] {
			return
		}
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		funcs = append(funcs, FunctionDef{
			Name:      nameNode.Content(t.source),
			StartLine: int(node.StartPoint().Row) + 1, // 0-indexed to 1-indexed
			EndLine:   int(node.EndPoint().Row) + 1,
		})
	})

	return funcs
}

// Imports extracts import paths/module names from the syntax tree.
func (t *Tree) Imports() []string {
	var imports []string
	importTypes := asSet(t.info.importNodeTypes)

	walk(t.RootNode(), func(node *sitter.Node) {
		if !importTypes[node.Type()] {
			return
		}
		text := node.Content(t.source)
		imports = append(imports, extractImportPaths(text, node, t.source)...)
	})

	return imports
}

// Calls extracts call sites with their argument text. Argument text is
// whitespace-collapsed and truncated; calls with an unresolvable callee are
// skipped.
func (t *Tree) Calls() []CallSite {
	var calls []CallSite
	callTypes := asSet(t.info.callNodeTypes)

	walk(t.RootNode(), func(node *sitter.Node) {
		if !callTypes[node.Type()] {
			return
		}
		calleeNode := node.ChildByFieldName(t.info.calleeField)
		if calleeNode == nil {
			return
		}
		callee := strings.TrimSpace(calleeNode.Content(t.source))
		if callee == "" {
			return
		}

		args := ""
		if argsNode := node.ChildByFieldName(t.info.argsField); argsNode != nil {
			args = normalizeArgs(argsNode.Content(t.source))
		}

		calls = append(calls, CallSite{
			Callee:    callee,
			Args:      args,
			StartLine: int(node.StartPoint().Row) + 1,
		})
	})

	return calls
}

// normalizeArgs strips the surrounding parentheses, collapses whitespace,
// and truncates long argument lists.
func normalizeArgs(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "(")
	text = strings.TrimSuffix(text, ")")
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > maxArgsLen {
		text = text[:maxArgsLen] + "..."
	}
	return text
}

func asSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// walk performs a depth-first traversal of the syntax tree, calling fn for each node.
func walk(node *sitter.Node, fn func(*sitter.Node)) {
	if node == nil {
		return
	}
	fn(node)
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child != nil {
			walk(child, fn)
		}
	}
}

// extractImportPaths parses import statement text to extract clean module
// or package paths.
func extractImportPaths(text string, node *sitter.Node, source []byte) []string {
	switch node.Type() {
	case "import_declaration":
		// Go: import "fmt" or import ( "fmt"\n"os" )
		// Java: import java.util.List;
		return extractImportDeclaration(node, source)
	case "import_statement":
		// Python: import os, sys
		// JS/TS: import { foo } from 'bar'
		return extractGenericImport(text)
	case "import_from_statement":
		// Python: from pathlib import Path
		return extractPythonFromImport(text)
	case "call":
		// Ruby: require 'foo' or require_relative 'bar'
		return extractRubyRequire(text)
	default:
		return []string{extractImportPath(text)}
	}
}

// extractImportDeclaration handles import declarations for Go and Java.
func extractImportDeclaration(node *sitter.Node, source []byte) []string {
	var paths []string
	seen := make(map[string]bool)

	walk(node, func(n *sitter.Node) {
		var content string
		switch n.Type() {
		case "import_spec":
			// Go: import spec wrapping a string literal
			content = extractImportPath(n.Content(source))
		case "interpreted_string_literal":
			// Go: the actual string literal "fmt"
			content = extractImportPath(n.Content(source))
		case "scoped_identifier":
			// Java: java.util.List — only take the top-level scoped_identifier
			if n.Parent() != nil && n.Parent().Type() == "scoped_identifier" {
				return
			}
			content = n.Content(source)
		default:
			return
		}
		if content != "" && !seen[content] {
			seen[content] = true
			paths = append(paths, content)
		}
	})
	return paths
}

// extractGenericImport handles Python "import x, y" and JS/TS
// "import ... from 'x'" statements.
func extractGenericImport(text string) []string {
	if strings.Contains(text, " from ") {
		parts := strings.SplitN(text, " from ", 2)
		if len(parts) == 2 {
			return []string{extractImportPath(parts[1])}
		}
	}

	text = strings.TrimPrefix(text, "import ")
	text = strings.TrimSpace(text)
	parts := strings.Split(text, ",")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		// Handle "import os as operating_system"
		if idx := strings.Index(p, " as "); idx >= 0 {
			p = p[:idx]
		}
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// extractPythonFromImport handles Python "from x import y" statements.
func extractPythonFromImport(text string) []string {
	text = strings.TrimPrefix(text, "from ")
	parts := strings.SplitN(text, " import ", 2)
	if len(parts) >= 1 {
		module := strings.TrimSpace(parts[0])
		if module != "" {
			return []string{module}
		}
	}
	return nil
}

// extractRubyRequire handles Ruby require and require_relative calls.
func extractRubyRequire(text string) []string {
	if !strings.HasPrefix(text, "require") {
		return nil
	}
	for _, prefix := range []string{"require_relative ", "require "} {
		if strings.HasPrefix(text, prefix) {
			rest := strings.TrimPrefix(text, prefix)
			cleaned := extractImportPath(rest)
			if cleaned != "" {
				return []string{cleaned}
			}
		}
	}
	return nil
}

// extractImportPath cleans an import path string by removing quotes,
// semicolons, and other surrounding syntax.
func extractImportPath(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "\"'`();")
	text = strings.TrimSpace(text)
	return text
}

package scan

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/julianshen/flowsmith/internal/config"
)

// interestingCallees marks call sites worth surfacing in prompts even when
// they carry no literal config arguments.
var interestingCallees = []string{
	"chunk", "split", "embed", "upsert", "upload", "download",
	"ingest", "load", "read", "parse", "transform", "index",
	"cache", "dump", "query", "insert", "write",
}

// maxCallsPerFile bounds the CALL lines emitted for one file.
const maxCallsPerFile = 20

// BuildContext renders scanned files into the structured skeleton text fed
// to the full-generation prompt, grouped by module and capped at
// cfg.MaxContextBytes. Call sites carrying literal arguments are kept so
// concrete config values (chunk sizes, model names, bucket names) reach the
// LLM.
func BuildContext(files []File, cfg config.ScanConfig) string {
	var buf bytes.Buffer
	currentModule := ""

	for _, f := range files {
		section := fileSection(f)
		if cfg.MaxContextBytes > 0 && buf.Len()+len(section) > cfg.MaxContextBytes {
			buf.WriteString("... (truncated: context limit reached)\n")
			break
		}
		if f.Module != currentModule {
			currentModule = f.Module
			fmt.Fprintf(&buf, "# Module: %s\n\n", f.Module)
		}
		buf.WriteString(section)
	}

	return buf.String()
}

func fileSection(f File) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "--- FILE: %s [%s] ---\n", f.Path, f.Language)

	if len(f.Imports) > 0 {
		fmt.Fprintf(&buf, "IMPORTS: %s\n", strings.Join(f.Imports, ", "))
	}

	for _, fn := range f.Functions {
		fmt.Fprintf(&buf, "FUNC %s (lines %d-%d)\n", fn.Name, fn.StartLine, fn.EndLine)
	}

	emitted := 0
	for _, c := range f.Calls {
		if emitted >= maxCallsPerFile {
			break
		}
		if !callWorthKeeping(c.Callee, c.Args) {
			continue
		}
		fmt.Fprintf(&buf, "CALL %s(%s)\n", c.Callee, c.Args)
		emitted++
	}

	buf.WriteString("\n")
	return buf.String()
}

// callWorthKeeping keeps calls with keyword arguments (likely pipeline
// config) and calls whose name suggests a pipeline step.
func callWorthKeeping(callee, args string) bool {
	if strings.Contains(args, "=") || strings.Contains(args, ":") {
		return true
	}
	lc := strings.ToLower(callee)
	for _, kw := range interestingCallees {
		if strings.Contains(lc, kw) {
			return true
		}
	}
	return false
}

package changemap

import "regexp"

var (
	diffFilePattern = regexp.MustCompile(`diff --git a/(.*?) b/`)
	// Added or removed function definitions (Python and Go).
	diffFuncPattern = regexp.MustCompile(`(?m)^[-+]\s*(?:def|func)\s+(\w+)\s*\(`)
	// Added or removed key = value assignments, numeric or quoted.
	diffConfigNumPattern = regexp.MustCompile(`(?m)^[-+]\s*(\w+)\s*=\s*(\d+)\s*$`)
	diffConfigStrPattern = regexp.MustCompile(`(?m)^[-+]\s*(\w+)\s*=\s*["']([^"']+)["']`)
)

// diffTextPatterns route raw diff fragments to a taxonomy category when the
// coarser file/function signals miss them.
var diffTextPatterns = []struct {
	re       *regexp.Regexp
	category Category
}{
	{regexp.MustCompile(`(?i)chunk_size\s*=\s*\d+`), CategoryChunking},
	{regexp.MustCompile(`(?i)chunk_overlap\s*=\s*\d+`), CategoryChunking},
	{regexp.MustCompile(`(?i)model\s*=\s*["'][^"']+["']`), CategoryEmbedding},
	{regexp.MustCompile(`(?i)namespace\s*=\s*["'][^"']+["']`), CategoryVectorDB},
	{regexp.MustCompile(`(?i)bucket\s*=\s*["'][^"']+["']`), CategoryStorage},
}

// ParseGitDiff extracts the legacy change signals from raw `git diff`
// output: the touched files, added or removed function definitions, and
// simple key = value config changes.
func ParseGitDiff(diffOutput string) *LegacyChanges {
	lc := &LegacyChanges{
		ChangedConfigs: make(map[string]string),
		DiffText:       diffOutput,
	}

	seen := make(map[string]bool)
	for _, m := range diffFilePattern.FindAllStringSubmatch(diffOutput, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			lc.ChangedFiles = append(lc.ChangedFiles, m[1])
		}
	}

	seenFn := make(map[string]bool)
	for _, m := range diffFuncPattern.FindAllStringSubmatch(diffOutput, -1) {
		if !seenFn[m[1]] {
			seenFn[m[1]] = true
			lc.ChangedFunctions = append(lc.ChangedFunctions, m[1])
		}
	}

	for _, m := range diffConfigNumPattern.FindAllStringSubmatch(diffOutput, -1) {
		lc.ChangedConfigs[m[1]] = m[2]
	}
	for _, m := range diffConfigStrPattern.FindAllStringSubmatch(diffOutput, -1) {
		lc.ChangedConfigs[m[1]] = m[2]
	}

	return lc
}

// categoriesInDiff returns the categories whose diff-text patterns match,
// in taxonomy order, without duplicates.
func categoriesInDiff(diffText string) []Category {
	matched := make(map[Category]bool)
	for _, p := range diffTextPatterns {
		if p.re.MatchString(diffText) {
			matched[p.category] = true
		}
	}
	var cats []Category
	for _, cat := range categoryOrder {
		if matched[cat] {
			cats = append(cats, cat)
		}
	}
	return cats
}

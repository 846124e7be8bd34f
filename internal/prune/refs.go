package prune

import (
	"path/filepath"
	"regexp"
	"strings"
)

// refPattern pairs a regexp with the submatch index that carries the
// reference. Patterns run in order, most specific first, and every hit
// is blanked out of the working text so a later, more generic pattern
// cannot re-capture part of an already-extracted match.
type refPattern struct {
	re    *regexp.Regexp
	group int
}

var pathPatterns = []refPattern{
	// Explicit file:/path: references
	{regexp.MustCompile(`(?i)\b(?:file|path):\s*([^\s,;]+)`), 1},
	// Project source trees
	{regexp.MustCompile(`\b(?:extensions|src)/[A-Za-z0-9_./-]+\.[A-Za-z0-9]+`), 0},
	// Relative paths
	{regexp.MustCompile(`\.\.?/[A-Za-z0-9_./-]+`), 0},
	// Well-known absolute roots
	{regexp.MustCompile(`(?:/Users|/home|/var|/tmp|/opt)/[A-Za-z0-9_./-]+`), 0},
	// Generic segment/.../name.ext fallback
	{regexp.MustCompile(`\b[A-Za-z0-9_.-]+/[A-Za-z0-9_./-]*\.[A-Za-z0-9]+\b`), 0},
}

var branchPatterns = []refPattern{
	// Explicit branch:/on:/merge: references
	{regexp.MustCompile(`(?i)\b(?:branch|on|merge):\s*([A-Za-z0-9_./-]+)`), 1},
	// "[branch abc1234]" commit-header idiom
	{regexp.MustCompile(`\[([A-Za-z0-9_./-]+)\s+[0-9a-f]{7,40}\]`), 1},
	// Conventional prefix branches
	{regexp.MustCompile(`\b(?:feat|fix|feature|bugfix|hotfix|release|chore|refactor|docs)/[A-Za-z0-9_.-]+`), 0},
	// "PR #12 on some-branch" mentions
	{regexp.MustCompile(`(?i)\bPR\s*#\d+\s+(?:on|from|to)\s+([A-Za-z0-9_./-]+)`), 1},
}

// pathExtensions is the allow-list of extensions a detected path must
// carry; anything else is assumed to be prose, not a file reference.
var pathExtensions = map[string]bool{
	"go": true, "js": true, "ts": true, "jsx": true, "tsx": true,
	"py": true, "rb": true, "rs": true, "java": true, "kt": true,
	"c": true, "h": true, "cpp": true, "hpp": true, "cs": true,
	"swift": true, "php": true, "sh": true, "sql": true,
	"html": true, "css": true, "scss": true, "json": true,
	"yaml": true, "yml": true, "toml": true, "xml": true,
	"md": true, "txt": true, "csv": true, "proto": true, "lock": true,
}

// pathExclusions knock out generated and vendored trees that show up in
// tool output but are never worth an orphan check.
var pathExclusions = []string{
	"node_modules", ".git", "dist/", "build/", ".cache", "__pycache__",
}

// protectedBranches never count as references: they are too common in
// prose and are effectively permanent anyway.
var protectedBranches = map[string]bool{
	"main":    true,
	"master":  true,
	"develop": true,
	"dev":     true,
	"HEAD":    true,
}

const (
	refLeadTrim = "\"'`([{<"
	refTailTrim = "\"'`)]}>.,;:!?"
)

// DetectFilePaths extracts candidate filesystem paths from free text.
// Pure and side-effect free; the result is de-duplicated in first-seen
// order.
func DetectFilePaths(text string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, p := range pathPatterns {
		text = consumeMatches(text, p, func(match string) {
			path := cleanRef(match)
			if len(path) < 3 || seen[path] {
				return
			}
			if !allowedExtension(path) {
				return
			}
			for _, excl := range pathExclusions {
				if strings.Contains(path, excl) {
					return
				}
			}
			seen[path] = true
			out = append(out, path)
		})
	}
	return out
}

// DetectBranchRefs extracts candidate branch names from free text.
func DetectBranchRefs(text string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, p := range branchPatterns {
		text = consumeMatches(text, p, func(match string) {
			branch := cleanRef(match)
			if len(branch) < 3 || seen[branch] {
				return
			}
			if protectedBranches[strings.TrimPrefix(branch, "origin/")] {
				return
			}
			seen[branch] = true
			out = append(out, branch)
		})
	}
	return out
}

// consumeMatches invokes fn for every match of p in text and returns the
// text with the matched spans blanked out.
func consumeMatches(text string, p refPattern, fn func(match string)) string {
	matches := p.re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	blanked := []byte(text)
	for _, loc := range matches {
		gs, ge := loc[2*p.group], loc[2*p.group+1]
		if gs < 0 {
			continue
		}
		fn(text[gs:ge])
		// Blank the whole match, not just the capture group
		for i := loc[0]; i < loc[1]; i++ {
			blanked[i] = ' '
		}
	}
	return string(blanked)
}

func cleanRef(s string) string {
	return strings.TrimLeft(strings.TrimRight(s, refTailTrim), refLeadTrim)
}

func allowedExtension(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return pathExtensions[strings.ToLower(ext)]
}

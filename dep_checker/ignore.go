package dep_checker

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pydepsync/pydepsync/constants/lipgloss"
)

// hardIgnoredDirs are directory names that are always pruned, regardless of
// pattern rules: VCS metadata, virtual environments, bytecode and tool caches.
var hardIgnoredDirs = map[string]bool{
	".git":          true,
	".hg":           true,
	".svn":          true,
	"__pycache__":   true,
	".venv":         true,
	"venv":          true,
	"env":           true,
	".tox":          true,
	".mypy_cache":   true,
	".pytest_cache": true,
	".ruff_cache":   true,
	".eggs":         true,
	"node_modules":  true,
}

// ignoreRule is one compiled gitignore-style pattern. Rules form an ordered
// list; the last rule that matches a path decides the outcome.
type ignoreRule struct {
	raw      string
	segments []string
	negate   bool
	dirOnly  bool
	anchored bool
}

// IgnoreMatcher evaluates gitignore-compatible rules over slash-separated
// paths relative to the project root.
type IgnoreMatcher struct {
	rules []ignoreRule
}

// CompileIgnoreRules compiles raw pattern lines into a matcher. Blank lines
// and comments are dropped. A malformed pattern is skipped with a warning,
// never fatal.
func CompileIgnoreRules(patterns []string) *IgnoreMatcher {
	m := &IgnoreMatcher{}

	for _, raw := range patterns {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		rule := ignoreRule{raw: line}

		if strings.HasPrefix(line, "!") {
			rule.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			rule.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		if strings.HasPrefix(line, "/") {
			rule.anchored = true
			line = strings.TrimPrefix(line, "/")
		}
		// A slash anywhere in the body anchors the pattern to the root,
		// mirroring gitignore.
		if strings.Contains(line, "/") {
			rule.anchored = true
		}
		if line == "" {
			continue
		}

		rule.segments = strings.Split(filepath.ToSlash(line), "/")
		if !validSegments(rule.segments) {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: skipping malformed ignore pattern %q", rule.raw)))
			continue
		}

		m.rules = append(m.rules, rule)
	}

	return m
}

// validSegments rejects patterns filepath.Match cannot compile (e.g. "[").
func validSegments(segments []string) bool {
	for _, seg := range segments {
		if seg == "**" {
			continue
		}
		if _, err := filepath.Match(seg, "probe"); err != nil {
			return false
		}
	}
	return true
}

// IsIgnored reports whether relPath should be excluded from the scan.
// The built-in deny list is checked before pattern rules; pattern rules are
// evaluated in declaration order with last-match-wins semantics.
func (m *IgnoreMatcher) IsIgnored(relPath string, isDir bool) bool {
	path := filepath.ToSlash(filepath.Clean(relPath))
	if path == "." || path == "" {
		return false
	}

	for _, part := range strings.Split(path, "/") {
		if hardIgnoredDirs[part] {
			return true
		}
	}

	ignored := false
	for _, rule := range m.rules {
		if rule.matches(path, isDir) {
			ignored = !rule.negate
		}
	}
	return ignored
}

// matches tests the rule against the path itself and against every ancestor
// directory, so a rule matching a parent ignores the whole subtree.
func (r ignoreRule) matches(path string, isDir bool) bool {
	parts := strings.Split(path, "/")

	for i := 1; i <= len(parts); i++ {
		last := i == len(parts)
		if last && r.dirOnly && !isDir {
			continue
		}
		if r.matchParts(parts[:i]) {
			return true
		}
	}
	return false
}

func (r ignoreRule) matchParts(parts []string) bool {
	if r.anchored {
		return matchPathSegments(r.segments, parts)
	}
	// A pattern without a slash matches at any depth.
	return matchPathSegments(append([]string{"**"}, r.segments...), parts)
}

// matchPathSegments matches pattern segments against path segments, with
// "**" spanning any number of segments and filepath.Match handling "*"/"?"
// within one segment.
func matchPathSegments(pats, parts []string) bool {
	for len(pats) > 0 {
		p := pats[0]
		pats = pats[1:]

		if p == "**" {
			if len(pats) == 0 {
				return true
			}
			for i := 0; i <= len(parts); i++ {
				if matchPathSegments(pats, parts[i:]) {
					return true
				}
			}
			return false
		}

		if len(parts) == 0 {
			return false
		}

		ok, _ := filepath.Match(p, parts[0])
		if !ok {
			return false
		}
		parts = parts[1:]
	}

	return len(parts) == 0
}

// LoadGitignorePatterns reads pattern lines from the project's .gitignore.
// A missing file yields an empty list.
func LoadGitignorePatterns(projectRoot string) ([]string, error) {
	gitignorePath := filepath.Join(projectRoot, ".gitignore")

	f, err := os.Open(gitignorePath)
	if os.IsNotExist(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error reading .gitignore: %w", err)
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading .gitignore: %w", err)
	}
	return patterns, nil
}

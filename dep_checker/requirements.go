package dep_checker

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var requirementNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*`)

// NormalizePackageName canonicalizes a package name for comparison:
// lower-cased, with underscores and dots mapped to hyphens (PEP 503 style).
func NormalizePackageName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, ".", "-")
	return name
}

// ParseRequirementName extracts the package-name component from one raw
// requirement specifier. Version pins, extras, and environment markers are
// stripped, not validated. Returns false for lines carrying no name
// (comments, blanks, pip options such as "-r" or "--index-url").
func ParseRequirementName(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
		return "", false
	}
	name := requirementNamePattern.FindString(line)
	if name == "" {
		return "", false
	}
	return name, true
}

// LoadRequirements reads the manifest and returns the declared requirement
// specifiers in file order. A missing or unreadable manifest is a
// configuration error: the caller aborts before scanning.
func LoadRequirements(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read requirements file %s: %w", path, err)
	}
	defer f.Close()

	var entries []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		entries = append(entries, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read requirements file %s: %w", path, err)
	}
	return entries, nil
}

// ManifestNames returns the normalized package-name set declared by the
// manifest entries.
func ManifestNames(entries []string) map[string]bool {
	names := make(map[string]bool)
	for _, entry := range entries {
		if name, ok := ParseRequirementName(entry); ok {
			names[NormalizePackageName(name)] = true
		}
	}
	return names
}

package models

import "time"

// SourceFile describes one candidate file discovered during traversal.
// Identity is the slash-separated path relative to the project root.
type SourceFile struct {
	RelativePath string
	AbsolutePath string
	Size         int64
	ModTime      time.Time
	// Fingerprint is the hex xxh3-128 of the file content. It is filled in
	// by the worker that reads the file, not by the walker.
	Fingerprint string
}

// ImportRecord is one import statement found in a single file.
type ImportRecord struct {
	ModuleName string
	IsRelative bool
	Line       int
}

// Root returns the top-level module segment, the granularity at which
// package registries publish.
func (r ImportRecord) Root() string {
	for i := 0; i < len(r.ModuleName); i++ {
		if r.ModuleName[i] == '.' {
			return r.ModuleName[:i]
		}
	}
	return r.ModuleName
}

// CacheEntry is the persisted record for one scanned file. An entry is only
// reusable when Fingerprint equals the current content fingerprint.
type CacheEntry struct {
	Fingerprint string   `json:"fingerprint"`
	Packages    []string `json:"packages"`
}

// ParseError reports a file whose source could not be parsed. The run
// continues; the path is surfaced in the final report.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e ParseError) Error() string {
	return e.Path + ": " + e.Message
}

// ReconciliationResult is the outcome of one pipeline run. Produced fresh
// every run, never persisted.
type ReconciliationResult struct {
	Missing          []string
	Satisfied        []string
	ScannedFileCount int
	ParseErrors      []ParseError
}

// HasMissing reports whether the run found undeclared dependencies.
func (r *ReconciliationResult) HasMissing() bool {
	return len(r.Missing) > 0
}

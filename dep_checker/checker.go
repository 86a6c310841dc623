package dep_checker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/sync/errgroup"

	"github.com/pydepsync/pydepsync/constants/lipgloss"
	"github.com/pydepsync/pydepsync/dep_checker/contracts"
	"github.com/pydepsync/pydepsync/dep_checker/models"
	providers "github.com/pydepsync/pydepsync/providers/contracts"
)

// CheckerOptions is the resolved configuration handed to the core by the
// front end. Paths are treated as already validated for shape, not existence.
type CheckerOptions struct {
	ProjectRoot      string
	RequirementsFile string
	IgnoreDirs       []string
	RespectGitignore bool
	EnableCache      bool
	CacheFile        string
	Workers          int
	Supplemental     providers.ISupplementalSource
}

// DependencyChecker runs the scan-analyze-reconcile pipeline.
type DependencyChecker struct {
	opts      CheckerOptions
	matcher   *IgnoreMatcher
	cache     *CacheStore
	extractor *ImportExtractor
	resolver  *NameResolver
}

// NewDependencyChecker wires the pipeline components. A nonexistent project
// root or an unloadable extractor is a configuration error.
func NewDependencyChecker(opts CheckerOptions) (contracts.IDependencyChecker, error) {
	info, err := os.Stat(opts.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("project root %s is not accessible: %w", opts.ProjectRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", opts.ProjectRoot)
	}

	var patterns []string
	if opts.RespectGitignore {
		patterns, err = LoadGitignorePatterns(opts.ProjectRoot)
		if err != nil {
			fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: %v", err)))
		}
	}

	extractor, err := NewImportExtractor()
	if err != nil {
		return nil, err
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.CacheFile == "" {
		opts.CacheFile = filepath.Join(opts.ProjectRoot, DefaultCacheFileName)
	}

	return &DependencyChecker{
		opts:      opts,
		matcher:   CompileIgnoreRules(patterns),
		cache:     NewCacheStore(opts.CacheFile, opts.EnableCache),
		extractor: extractor,
		resolver:  NewNameResolver(opts.ProjectRoot),
	}, nil
}

// DefaultCacheFileName is the cache location relative to the project root.
const DefaultCacheFileName = ".pydepsync_cache.json"

// Check runs one full pipeline invocation: walk, extract (cache-assisted),
// resolve, reconcile. The cache is persisted only on clean completion.
func (c *DependencyChecker) Check(ctx context.Context) (*models.ReconciliationResult, error) {
	manifestEntries, err := LoadRequirements(c.requirementsPath())
	if err != nil {
		return nil, err
	}
	manifest := ManifestNames(manifestEntries)

	ignoreDirs := make(map[string]bool, len(c.opts.IgnoreDirs))
	for _, dir := range c.opts.IgnoreDirs {
		ignoreDirs[dir] = true
	}

	files, err := WalkProjectFiles(c.opts.ProjectRoot, c.matcher, ignoreDirs)
	if err != nil {
		return nil, fmt.Errorf("failed to walk project tree: %w", err)
	}

	resolved, parseErrors, err := c.analyzeFiles(ctx, files)
	if err != nil {
		// Abandoned run: never persist partial cache state.
		return nil, err
	}

	supplemental := c.supplementalNames(ctx)

	missing, satisfied := Reconcile(resolved, manifest, supplemental)

	seen := make(map[string]bool, len(files))
	for _, file := range files {
		seen[file.RelativePath] = true
	}
	if err := c.cache.Persist(seen); err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: could not save cache: %v", err)))
	}

	sort.Slice(parseErrors, func(i, j int) bool { return parseErrors[i].Path < parseErrors[j].Path })

	return &models.ReconciliationResult{
		Missing:          missing,
		Satisfied:        satisfied,
		ScannedFileCount: len(files),
		ParseErrors:      parseErrors,
	}, nil
}

// analyzeFiles fans files out to a bounded worker pool. Each file is handled
// by exactly one worker: read, fingerprint, cache lookup, extraction and
// resolution on a miss. Results fold into a single set under a lock.
func (c *DependencyChecker) analyzeFiles(ctx context.Context, files []models.SourceFile) (map[string]bool, []models.ParseError, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)

	var mu sync.Mutex
	resolved := make(map[string]bool)
	var parseErrors []models.ParseError

	for _, file := range files {
		file := file
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			content, err := os.ReadFile(file.AbsolutePath)
			if err != nil {
				mu.Lock()
				parseErrors = append(parseErrors, models.ParseError{
					Path:    file.RelativePath,
					Message: fmt.Sprintf("could not read file: %v", err),
				})
				mu.Unlock()
				return nil
			}
			file.Fingerprint = Fingerprint(content)

			if packages, ok := c.cache.Lookup(file.RelativePath, file.Fingerprint); ok {
				mu.Lock()
				for _, name := range packages {
					resolved[name] = true
				}
				mu.Unlock()
				return nil
			}

			records, err := c.extractor.Extract(content)
			if err != nil {
				var parseErr models.ParseError
				if errors.As(err, &parseErr) {
					parseErr.Path = file.RelativePath
					mu.Lock()
					parseErrors = append(parseErrors, parseErr)
					mu.Unlock()
					return nil
				}
				return err
			}

			filePackages := c.resolveRecords(records)
			c.cache.Upsert(file.RelativePath, file.Fingerprint, filePackages)

			mu.Lock()
			for _, name := range filePackages {
				resolved[name] = true
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return resolved, parseErrors, nil
}

// resolveRecords maps extracted imports to normalized package names.
// Relative imports and stdlib/internal modules contribute nothing.
func (c *DependencyChecker) resolveRecords(records []models.ImportRecord) []string {
	names := make(map[string]bool)
	for _, record := range records {
		if record.IsRelative {
			continue
		}
		root := record.Root()
		if root == "" {
			continue
		}
		packageName, resolution := c.resolver.Resolve(root)
		if resolution != ResolvedExternal {
			continue
		}
		names[NormalizePackageName(packageName)] = true
	}

	keys := maps.Keys(names)
	sort.Strings(keys)
	return keys
}

// supplementalNames queries the optional heuristic source. Failures degrade
// to an empty set with a warning; they never fail the run.
func (c *DependencyChecker) supplementalNames(ctx context.Context) []string {
	if c.opts.Supplemental == nil {
		return nil
	}
	names, err := c.opts.Supplemental.DetectPackageNames(ctx, c.opts.ProjectRoot)
	if err != nil {
		fmt.Println(lipgloss.Yellow.Render(fmt.Sprintf("Warning: supplemental detection failed: %v", err)))
		return nil
	}
	return names
}

// Reconcile computes the set difference between resolved imports and the
// declared manifest. Supplemental names are additive only. Output ordering is
// alphabetical for stable CI diffs.
func Reconcile(resolved map[string]bool, manifest map[string]bool, supplemental []string) (missing []string, satisfied []string) {
	candidates := make(map[string]bool, len(resolved)+len(supplemental))
	for name := range resolved {
		candidates[name] = true
	}
	for _, name := range supplemental {
		candidates[NormalizePackageName(name)] = true
	}

	for name := range candidates {
		if !manifest[name] {
			missing = append(missing, name)
		}
	}
	for name := range resolved {
		if manifest[name] {
			satisfied = append(satisfied, name)
		}
	}

	sort.Strings(missing)
	sort.Strings(satisfied)
	return missing, satisfied
}

func (c *DependencyChecker) requirementsPath() string {
	if filepath.IsAbs(c.opts.RequirementsFile) {
		return c.opts.RequirementsFile
	}
	return filepath.Join(c.opts.ProjectRoot, c.opts.RequirementsFile)
}

// ClearCache removes all cached scan state.
func (c *DependencyChecker) ClearCache() error {
	return c.cache.Clear()
}

// GetCacheStats exposes cache counters for the reset-cache command.
func (c *DependencyChecker) GetCacheStats() map[string]interface{} {
	return c.cache.Stats()
}

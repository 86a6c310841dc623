package dep_checker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pydepsync/pydepsync/dep_checker/contracts"
)

type fakeSupplementalSource struct {
	names []string
	err   error
}

func (f *fakeSupplementalSource) DetectPackageNames(_ context.Context, _ string) ([]string, error) {
	return f.names, f.err
}

func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}

func newChecker(t *testing.T, root string, mutate func(*CheckerOptions)) contracts.IDependencyChecker {
	t.Helper()
	opts := CheckerOptions{
		ProjectRoot:      root,
		RequirementsFile: "requirements.txt",
		EnableCache:      false,
		CacheFile:        filepath.Join(t.TempDir(), "cache.json"),
		Workers:          2,
	}
	if mutate != nil {
		mutate(&opts)
	}
	checker, err := NewDependencyChecker(opts)
	require.NoError(t, err)
	return checker
}

func TestCheck_EndToEnd(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "flask==2.0\n",
		"app.py":           "import os\nimport flask\nimport requests\n",
		"lib/helpers.py":   "import json\n",
	})
	checker := newChecker(t, root, nil)

	result, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"requests"}, result.Missing)
	assert.Equal(t, []string{"flask"}, result.Satisfied)
	assert.Equal(t, 2, result.ScannedFileCount)
	assert.Empty(t, result.ParseErrors)
	assert.True(t, result.HasMissing())
}

func TestCheck_NoMissing(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "requests\n",
		"app.py":           "import requests\n",
	})
	checker := newChecker(t, root, nil)

	result, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Missing)
	assert.False(t, result.HasMissing())
}

func TestCheck_AliasResolution(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "beautifulsoup4\nPillow\n",
		"scrape.py":        "import bs4\nfrom PIL import Image\n",
	})
	checker := newChecker(t, root, nil)

	result, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Missing)
	assert.Equal(t, []string{"beautifulsoup4", "pillow"}, result.Satisfied)
}

func TestCheck_InternalModuleSuppression(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt":  "",
		"utils.py":          "import os\n",
		"mypkg/__init__.py": "",
		"main.py":           "import utils\nimport mypkg\n",
	})
	checker := newChecker(t, root, nil)

	result, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Missing)
}

func TestCheck_RelativeImportExclusion(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "",
		"pkg/__init__.py":  "",
		"pkg/mod.py":       "from . import sibling\nfrom ..other import thing\n",
	})
	checker := newChecker(t, root, nil)

	result, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Missing)
}

func TestCheck_ParseFailureDoesNotAbort(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "",
		"broken.py":        "def broken(:\n",
		"good.py":          "import requests\n",
	})
	checker := newChecker(t, root, nil)

	result, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"requests"}, result.Missing)
	require.Len(t, result.ParseErrors, 1)
	assert.Equal(t, "broken.py", result.ParseErrors[0].Path)
	assert.Equal(t, 2, result.ScannedFileCount)
}

func TestCheck_MissingManifestIsError(t *testing.T) {
	root := newProject(t, map[string]string{
		"app.py": "import requests\n",
	})
	checker := newChecker(t, root, nil)

	_, err := checker.Check(context.Background())
	assert.Error(t, err)
}

func TestCheck_SupplementalNamesAdditive(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "flask\n",
		"app.py":           "import flask\n",
	})
	checker := newChecker(t, root, func(opts *CheckerOptions) {
		opts.Supplemental = &fakeSupplementalSource{names: []string{"NumPy", "flask"}}
	})

	result, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"numpy"}, result.Missing)
	assert.Equal(t, []string{"flask"}, result.Satisfied)
}

func TestCheck_SupplementalFailureIsNonFatal(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "",
		"app.py":           "import requests\n",
	})
	checker := newChecker(t, root, func(opts *CheckerOptions) {
		opts.Supplemental = &fakeSupplementalSource{err: errors.New("binary not found")}
	})

	result, err := checker.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"requests"}, result.Missing)
}

func TestCheck_Idempotence(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "flask\n",
		"app.py":           "import flask\nimport requests\nimport numpy\n",
	})
	checker := newChecker(t, root, nil)

	first, err := checker.Check(context.Background())
	require.NoError(t, err)
	second, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Missing, second.Missing)
	assert.Equal(t, first.Satisfied, second.Satisfied)
	assert.Equal(t, first.ScannedFileCount, second.ScannedFileCount)
}

func TestCheck_CacheTransparency(t *testing.T) {
	files := map[string]string{
		"requirements.txt": "flask\n",
		"app.py":           "import flask\nimport requests\n",
		"other.py":         "import pandas\n",
	}

	coldRoot := newProject(t, files)
	cold := newChecker(t, coldRoot, nil)
	coldResult, err := cold.Check(context.Background())
	require.NoError(t, err)

	warmRoot := newProject(t, files)
	cacheFile := filepath.Join(t.TempDir(), "cache.json")
	warm := newChecker(t, warmRoot, func(opts *CheckerOptions) {
		opts.EnableCache = true
		opts.CacheFile = cacheFile
	})
	_, err = warm.Check(context.Background())
	require.NoError(t, err)

	// Second run against an unchanged tree must be served from cache and
	// produce identical results.
	warm2 := newChecker(t, warmRoot, func(opts *CheckerOptions) {
		opts.EnableCache = true
		opts.CacheFile = cacheFile
	})
	warmResult, err := warm2.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, coldResult.Missing, warmResult.Missing)
	assert.Equal(t, coldResult.Satisfied, warmResult.Satisfied)

	stats := warm2.GetCacheStats()
	assert.Equal(t, int64(2), stats["cache_hits"])
	assert.Equal(t, int64(0), stats["cache_misses"])
}

func TestCheck_CacheFileStableAcrossRuns(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "",
		"app.py":           "import requests\nimport flask\n",
	})
	cacheFile := filepath.Join(t.TempDir(), "cache.json")
	mutate := func(opts *CheckerOptions) {
		opts.EnableCache = true
		opts.CacheFile = cacheFile
	}

	checker := newChecker(t, root, mutate)
	_, err := checker.Check(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(cacheFile)
	require.NoError(t, err)

	again := newChecker(t, root, mutate)
	_, err = again.Check(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(cacheFile)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCheck_CacheInvalidatedOnEdit(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "",
		"app.py":           "import requests\n",
	})
	cacheFile := filepath.Join(t.TempDir(), "cache.json")
	mutate := func(opts *CheckerOptions) {
		opts.EnableCache = true
		opts.CacheFile = cacheFile
	}

	checker := newChecker(t, root, mutate)
	result, err := checker.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"requests"}, result.Missing)

	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte("import pandas\n"), 0644))

	again := newChecker(t, root, mutate)
	result, err = again.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"pandas"}, result.Missing)
}

func TestCheck_IgnoreDirsPruned(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "",
		"app.py":           "import requests\n",
		"build/gen.py":     "import torch\n",
	})
	checker := newChecker(t, root, func(opts *CheckerOptions) {
		opts.IgnoreDirs = []string{"build"}
	})

	result, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"requests"}, result.Missing)
	assert.Equal(t, 1, result.ScannedFileCount)
}

func TestCheck_GitignoreRespected(t *testing.T) {
	root := newProject(t, map[string]string{
		"requirements.txt": "",
		".gitignore":       "generated/\n",
		"app.py":           "import requests\n",
		"generated/g.py":   "import torch\n",
	})
	checker := newChecker(t, root, func(opts *CheckerOptions) {
		opts.RespectGitignore = true
	})

	result, err := checker.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"requests"}, result.Missing)
}

func TestNewDependencyChecker_BadRoot(t *testing.T) {
	_, err := NewDependencyChecker(CheckerOptions{
		ProjectRoot:      filepath.Join(t.TempDir(), "missing"),
		RequirementsFile: "requirements.txt",
	})
	assert.Error(t, err)
}

func TestReconcile(t *testing.T) {
	resolved := map[string]bool{"requests": true, "flask": true}
	manifest := map[string]bool{"flask": true, "gunicorn": true}

	missing, satisfied := Reconcile(resolved, manifest, []string{"NumPy"})

	assert.Equal(t, []string{"numpy", "requests"}, missing)
	assert.Equal(t, []string{"flask"}, satisfied)
}

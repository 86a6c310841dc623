package dep_checker

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pydepsync/pydepsync/dep_checker/models"
)

const sourceFileExtension = ".py"

// WalkProjectFiles enumerates Python source files under root, consulting the
// matcher and the explicit ignore-directory set before descending. Ignored
// directories are pruned, so their subtrees are never visited. Symbolic links
// are never followed.
//
// Each call performs a fresh traversal; the returned slice is finite and
// deterministic for an unchanged tree.
func WalkProjectFiles(root string, matcher *IgnoreMatcher, ignoreDirs map[string]bool) ([]models.SourceFile, error) {
	var files []models.SourceFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		relativePath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relativePath = strings.ReplaceAll(relativePath, "\\", "/")

		// Symlinks are skipped outright to prevent cycles.
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}

		if d.IsDir() {
			if ignoreDirs[d.Name()] || matcher.IsIgnored(relativePath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if filepath.Ext(d.Name()) != sourceFileExtension {
			return nil
		}
		if matcher.IsIgnored(relativePath, false) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to stat file: %s, error: %w", relativePath, err)
		}

		files = append(files, models.SourceFile{
			RelativePath: relativePath,
			AbsolutePath: path,
			Size:         info.Size(),
			ModTime:      info.ModTime(),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return files, nil
}

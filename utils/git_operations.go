package utils

import (
	"os/exec"
	"strings"
)

// GitOperations handles git-related operations
type GitOperations struct {
	workingDir string
}

// NewGitOperations creates a new GitOperations instance
func NewGitOperations(workingDir string) *GitOperations {
	return &GitOperations{workingDir: workingDir}
}

// IsGitRepo checks if the working directory is inside a git repository
func (g *GitOperations) IsGitRepo() bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = g.workingDir
	return cmd.Run() == nil
}

// GetRepoRoot returns the toplevel directory of the enclosing git repository.
// Used as the default project root when running as a pre-commit hook.
func (g *GitOperations) GetRepoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = g.workingDir
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

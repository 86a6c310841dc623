package utils

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandExecutor runs external helper tools with captured output.
type CommandExecutor struct{}

// NewCommandExecutor creates a new command executor instance
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{}
}

// RunCaptured executes name with args and returns its stdout. The context
// cancels the process; a non-zero exit surfaces stderr in the error.
func (ce *CommandExecutor) RunCaptured(ctx context.Context, name string, args ...string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty command provided")
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("%s failed: %v: %s", name, err, detail)
		}
		return "", fmt.Errorf("%s failed: %v", name, err)
	}

	return stdout.String(), nil
}

// LookPath reports whether the named tool is available on PATH.
func (ce *CommandExecutor) LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

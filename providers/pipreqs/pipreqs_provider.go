package pipreqs

import (
	"context"
	"fmt"
	"strings"

	"github.com/pydepsync/pydepsync/providers/contracts"
	"github.com/pydepsync/pydepsync/utils"
)

const defaultBinary = "pipreqs"

// PipreqsConfig implements the supplemental source interface on top of the
// external pipreqs tool.
type PipreqsConfig struct {
	Binary   string
	Executor *utils.CommandExecutor
}

// NewPipreqsSupplementalSource initializes a pipreqs-backed supplemental source.
func NewPipreqsSupplementalSource(config *PipreqsConfig) contracts.ISupplementalSource {
	binary := config.Binary
	if binary == "" {
		binary = defaultBinary
	}
	executor := config.Executor
	if executor == nil {
		executor = utils.NewCommandExecutor()
	}
	return &PipreqsConfig{
		Binary:   binary,
		Executor: executor,
	}
}

// DetectPackageNames runs `pipreqs <root> --print` and parses the emitted
// requirement lines into package names. The tool being absent or failing is
// an error for the caller to downgrade to a warning; it never aborts a run.
func (p *PipreqsConfig) DetectPackageNames(ctx context.Context, projectRoot string) ([]string, error) {
	if !p.Executor.LookPath(p.Binary) {
		return nil, fmt.Errorf("%s not found on PATH", p.Binary)
	}

	output, err := p.Executor.RunCaptured(ctx, p.Binary, projectRoot, "--print")
	if err != nil {
		return nil, err
	}

	return ParseOutput(output), nil
}

// ParseOutput extracts package names from pipreqs --print output, which is a
// sequence of "name==version" requirement lines.
func ParseOutput(output string) []string {
	var names []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name := line
		for _, sep := range []string{"==", ">=", "<=", "~=", "!=", ">", "<", "["} {
			if idx := strings.Index(name, sep); idx >= 0 {
				name = name[:idx]
			}
		}
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

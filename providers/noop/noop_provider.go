package noop

import (
	"context"

	"github.com/pydepsync/pydepsync/providers/contracts"
)

// NoopConfig is the supplemental source used when the feature is disabled;
// it contributes nothing, so the reconciler needs no conditional branch.
type NoopConfig struct{}

// NewNoopSupplementalSource returns a supplemental source that yields no names.
func NewNoopSupplementalSource() contracts.ISupplementalSource {
	return &NoopConfig{}
}

func (n *NoopConfig) DetectPackageNames(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

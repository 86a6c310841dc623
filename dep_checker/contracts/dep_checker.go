package contracts

import (
	"context"

	"github.com/pydepsync/pydepsync/dep_checker/models"
)

type IDependencyChecker interface {
	Check(ctx context.Context) (*models.ReconciliationResult, error)
	ClearCache() error
	GetCacheStats() map[string]interface{}
}

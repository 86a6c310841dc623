package contracts

import "context"

// ISupplementalSource contributes additional candidate package names from an
// external heuristic detector. Names are additive: they can introduce new
// findings but never suppress ones from primary extraction.
type ISupplementalSource interface {
	DetectPackageNames(ctx context.Context, projectRoot string) ([]string, error)
}

package analyses

import "context"

// Repo defines persistence operations for stored analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	ListRecent(ctx context.Context, limit, offset int) ([]Analysis, error)
}

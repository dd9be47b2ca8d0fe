package port

import (
	"context"

	"github.com/askdocs/orchestrator/internal/domain"
)

// VectorIndex owns the lifecycle of a named collection in an external
// vector database.
type VectorIndex interface {
	// EnsureCollection creates the collection if it does not exist yet.
	// Idempotent; never recreates an existing collection.
	EnsureCollection(ctx context.Context) error

	// Upsert writes the points, replacing any existing point with the same
	// ID. The write is durable before Upsert returns. No-op on empty input.
	Upsert(ctx context.Context, points []domain.IndexedPoint) error

	// Search returns up to limit results ordered by descending similarity.
	Search(ctx context.Context, vector []float32, limit int) ([]domain.SearchResult, error)
}

package port

import (
	"context"

	"github.com/askdocs/orchestrator/internal/domain"
)

// DocumentRegistry keeps bookkeeping records for ingested documents.
// All registry writes are best effort: the ingestion pipeline logs
// failures but never aborts because of them.
type DocumentRegistry interface {
	// Record inserts or updates the document row by ID.
	Record(ctx context.Context, doc *domain.Document) error

	// SetStatus updates the processing status and, when non-empty, the summary.
	SetStatus(ctx context.Context, id int64, status, summary string) error

	// Get returns a document record by ID.
	Get(ctx context.Context, id int64) (*domain.Document, error)

	// List returns all document records, newest first.
	List(ctx context.Context) ([]domain.Document, error)
}

package domain

import "time"

// Document is the registry record kept for each ingested document.
// The raw content itself lives on disk; only bookkeeping is stored.
type Document struct {
	ID        int64     `json:"document_id" db:"id"`
	Name      string    `json:"name"        db:"name"`
	FilePath  string    `json:"file_path"   db:"file_path"`
	Summary   string    `json:"summary"     db:"summary"`
	Status    string    `json:"status"      db:"status"`
	CreatedAt time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt time.Time `json:"updated_at"  db:"updated_at"`
}

// Document status constants.
const (
	DocumentStatusProcessing = "processing"
	DocumentStatusProcessed  = "processed"
	DocumentStatusFailed     = "failed"
)

// IndexedPoint is the unit persisted in the vector index. The ID is the
// composite "{document_id}_{chunk_index}", so re-ingesting a document
// overwrites its previous points instead of duplicating them.
type IndexedPoint struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// SearchResult is a matching chunk returned by a similarity query.
// Metadata carries the document's own key/value pairs, without the
// reserved payload keys (document_id, chunk_index, text).
type SearchResult struct {
	Score      float64        `json:"score"`
	DocumentID int64          `json:"document_id"`
	TextChunk  string         `json:"text_chunk"`
	Metadata   map[string]any `json:"metadata"`
}

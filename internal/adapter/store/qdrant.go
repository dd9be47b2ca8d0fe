package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/askdocs/orchestrator/internal/domain"
	"github.com/askdocs/orchestrator/internal/port"
)

// Payload keys reserved for the index itself; everything else in a point
// payload is document metadata.
const (
	payloadKeyDocumentID = "document_id"
	payloadKeyChunkIndex = "chunk_index"
	payloadKeyText       = "text"
)

// QdrantConfig holds connection details for the Qdrant REST API.
type QdrantConfig struct {
	BaseURL    string // e.g. http://localhost:6333
	Collection string
	Dimension  int
	Timeout    time.Duration
}

// QdrantIndex is a minimal REST client for a single Qdrant collection with
// cosine distance. It implements port.VectorIndex.
type QdrantIndex struct {
	baseURL    string
	collection string
	dimension  int
	client     *http.Client
}

// NewQdrantIndex creates the index gateway. No connection is made until the
// first call.
func NewQdrantIndex(cfg QdrantConfig) *QdrantIndex {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &QdrantIndex{
		baseURL:    cfg.BaseURL,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		client:     &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection if it is absent. It only ever
// issues a create after the listing confirmed the collection is missing;
// an existing collection is never touched.
func (q *QdrantIndex) EnsureCollection(ctx context.Context) error {
	var listing struct {
		Result struct {
			Collections []struct {
				Name string `json:"name"`
			} `json:"collections"`
		} `json:"result"`
	}
	if err := q.do(ctx, http.MethodGet, q.baseURL+"/collections", nil, &listing); err != nil {
		return err
	}
	for _, c := range listing.Result.Collections {
		if c.Name == q.collection {
			return nil
		}
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     q.dimension,
			"distance": "Cosine",
		},
	}
	if err := q.do(ctx, http.MethodPut, q.collectionURL(), body, nil); err != nil {
		return err
	}
	slog.Info("created vector collection", "collection", q.collection, "dimension", q.dimension)
	return nil
}

// Upsert writes the points with wait=true, so a subsequent search sees them.
func (q *QdrantIndex) Upsert(ctx context.Context, points []domain.IndexedPoint) error {
	if len(points) == 0 {
		return nil
	}
	body := map[string]any{"points": points}
	return q.do(ctx, http.MethodPut, q.collectionURL()+"/points?wait=true", body, nil)
}

// Search returns up to limit hits ordered by descending cosine similarity.
func (q *QdrantIndex) Search(ctx context.Context, vector []float32, limit int) ([]domain.SearchResult, error) {
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := q.do(ctx, http.MethodPost, q.collectionURL()+"/points/search", body, &resp); err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, hit := range resp.Result {
		sr := domain.SearchResult{
			Score:    hit.Score,
			Metadata: map[string]any{},
		}
		if v, ok := hit.Payload[payloadKeyDocumentID].(float64); ok {
			sr.DocumentID = int64(v)
		}
		if v, ok := hit.Payload[payloadKeyText].(string); ok {
			sr.TextChunk = v
		}
		for k, v := range hit.Payload {
			switch k {
			case payloadKeyDocumentID, payloadKeyChunkIndex, payloadKeyText:
				continue
			}
			sr.Metadata[k] = v
		}
		results = append(results, sr)
	}
	return results, nil
}

func (q *QdrantIndex) collectionURL() string {
	return fmt.Sprintf("%s/collections/%s", q.baseURL, q.collection)
}

func (q *QdrantIndex) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal request: %v", port.ErrVectorStore, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("%w: create request: %v", port.ErrVectorStore, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrVectorStore, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: %s %s: %s: %s", port.ErrVectorStore, method, url, resp.Status, string(msg))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", port.ErrVectorStore, err)
		}
	}
	return nil
}

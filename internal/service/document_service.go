package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/askdocs/orchestrator/internal/chunker"
	"github.com/askdocs/orchestrator/internal/domain"
	"github.com/askdocs/orchestrator/internal/port"
)

// SummaryFallback is returned whenever summarization fails. A missing
// summary never blocks document indexing.
const SummaryFallback = "Unable to generate summary."

const summarizePromptPrefix = "Summarize the following document content clearly and concisely:\n\n"

// maxConcurrentEmbeds bounds the embedding fan-out within one ingestion.
const maxConcurrentEmbeds = 4

// DocumentService handles document ingestion, semantic search and
// summarization.
type DocumentService struct {
	ai              port.AIProvider
	index           port.VectorIndex
	registry        port.DocumentRegistry // may be nil
	splitter        *chunker.Splitter
	summaryMaxChars int
}

// NewDocumentService creates a document service. The registry is optional;
// pass nil to disable bookkeeping.
func NewDocumentService(ai port.AIProvider, index port.VectorIndex, registry port.DocumentRegistry, splitter *chunker.Splitter, summaryMaxChars int) *DocumentService {
	if summaryMaxChars <= 0 {
		summaryMaxChars = 4000
	}
	return &DocumentService{
		ai:              ai,
		index:           index,
		registry:        registry,
		splitter:        splitter,
		summaryMaxChars: summaryMaxChars,
	}
}

// Ingest processes one document: read, chunk, embed, upsert, summarize.
// A failure before the upsert completes aborts the pipeline; summarization
// failure degrades to SummaryFallback and the document still counts as
// indexed. Re-ingesting the same document ID overwrites its points.
func (s *DocumentService) Ingest(ctx context.Context, documentID int64, filePath string, metadata map[string]any) (string, error) {
	slog.Info("ingesting document", "document_id", documentID, "file_path", filePath)

	if err := s.index.EnsureCollection(ctx); err != nil {
		return "", err
	}

	s.record(ctx, &domain.Document{
		ID:       documentID,
		Name:     filepath.Base(filePath),
		FilePath: filePath,
		Status:   domain.DocumentStatusProcessing,
	})

	data, err := os.ReadFile(filePath)
	if err != nil {
		s.setStatus(ctx, documentID, domain.DocumentStatusFailed, "")
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", port.ErrDocumentNotFound, filePath)
		}
		return "", fmt.Errorf("read document %d: %w", documentID, err)
	}
	content := string(data)

	chunks := s.splitter.Split(content)

	// Chunk embeddings may run concurrently, but every one of them must
	// complete before the single batched upsert.
	vectors := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentEmbeds)
	for i, chunk := range chunks {
		g.Go(func() error {
			vec, err := s.ai.Embed(gctx, chunk)
			if err != nil {
				return err
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.setStatus(ctx, documentID, domain.DocumentStatusFailed, "")
		return "", err
	}

	points := make([]domain.IndexedPoint, len(chunks))
	for i, chunk := range chunks {
		payload := map[string]any{
			"document_id": documentID,
			"chunk_index": i,
			"text":        chunk,
		}
		for k, v := range metadata {
			payload[k] = v
		}
		points[i] = domain.IndexedPoint{
			ID:      fmt.Sprintf("%d_%d", documentID, i),
			Vector:  vectors[i],
			Payload: payload,
		}
	}

	if len(points) > 0 {
		if err := s.index.Upsert(ctx, points); err != nil {
			s.setStatus(ctx, documentID, domain.DocumentStatusFailed, "")
			return "", err
		}
	}
	slog.Info("document indexed", "document_id", documentID, "chunks", len(points))

	summary := s.Summarize(ctx, documentID, content)
	s.setStatus(ctx, documentID, domain.DocumentStatusProcessed, summary)
	return summary, nil
}

// Search embeds the query and runs a similarity search over the index.
func (s *DocumentService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if err := s.index.EnsureCollection(ctx); err != nil {
		return nil, err
	}
	vec, err := s.ai.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.index.Search(ctx, vec, limit)
}

// Summarize produces a short summary of the text via one generation call.
// The input is truncated to summaryMaxChars with an ellipsis marker. Errors
// are absorbed into SummaryFallback; summarization is best effort.
func (s *DocumentService) Summarize(ctx context.Context, documentID int64, text string) string {
	truncated := text
	if runes := []rune(text); len(runes) > s.summaryMaxChars {
		truncated = string(runes[:s.summaryMaxChars]) + "..."
	}

	summary, err := s.ai.Chat(ctx, []domain.ChatTurn{
		{Role: domain.RoleUser, Content: summarizePromptPrefix + truncated},
	})
	if err != nil {
		slog.Error("summarization failed", "document_id", documentID, "error", err)
		return SummaryFallback
	}
	return summary
}

func (s *DocumentService) record(ctx context.Context, doc *domain.Document) {
	if s.registry == nil {
		return
	}
	if err := s.registry.Record(ctx, doc); err != nil {
		slog.Warn("document registry record failed", "document_id", doc.ID, "error", err)
	}
}

func (s *DocumentService) setStatus(ctx context.Context, id int64, status, summary string) {
	if s.registry == nil {
		return
	}
	if err := s.registry.SetStatus(ctx, id, status, summary); err != nil {
		slog.Warn("document registry status update failed", "document_id", id, "error", err)
	}
}

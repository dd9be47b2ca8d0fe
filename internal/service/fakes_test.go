package service_test

import (
	"context"
	"sync"

	"github.com/askdocs/orchestrator/internal/domain"
)

// fakeAI implements port.AIProvider with recorded calls and scripted
// replies. Embed is called concurrently during ingestion, so everything is
// mutex-guarded.
type fakeAI struct {
	mu sync.Mutex

	embedded []string
	embedErr error

	chats     [][]domain.ChatTurn
	chatReply string
	replies   []string // optional queue; takes precedence over chatReply
	chatErr   error
}

func (f *fakeAI) ModelName() string { return "fake-model" }

func (f *fakeAI) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	f.embedded = append(f.embedded, text)
	return []float32{float32(len(text)), 1}, nil
}

func (f *fakeAI) Chat(_ context.Context, messages []domain.ChatTurn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.chatErr != nil {
		return "", f.chatErr
	}
	f.chats = append(f.chats, messages)
	if len(f.replies) > 0 {
		reply := f.replies[0]
		f.replies = f.replies[1:]
		return reply, nil
	}
	return f.chatReply, nil
}

// fakeIndex implements port.VectorIndex in memory.
type fakeIndex struct {
	mu sync.Mutex

	ensures   int
	ensureErr error

	upserts   [][]domain.IndexedPoint
	upsertErr error

	results   []domain.SearchResult
	searchErr error
	lastLimit int
}

func (f *fakeIndex) EnsureCollection(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensures++
	return f.ensureErr
}

func (f *fakeIndex) Upsert(_ context.Context, points []domain.IndexedPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, points)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ []float32, limit int) ([]domain.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

type statusUpdate struct {
	id      int64
	status  string
	summary string
}

// fakeRegistry implements port.DocumentRegistry.
type fakeRegistry struct {
	err      error
	records  []domain.Document
	statuses []statusUpdate
}

func (f *fakeRegistry) Record(_ context.Context, doc *domain.Document) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, *doc)
	return nil
}

func (f *fakeRegistry) SetStatus(_ context.Context, id int64, status, summary string) error {
	if f.err != nil {
		return f.err
	}
	f.statuses = append(f.statuses, statusUpdate{id: id, status: status, summary: summary})
	return nil
}

func (f *fakeRegistry) Get(_ context.Context, _ int64) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.records) == 0 {
		return nil, nil
	}
	return &f.records[0], nil
}

func (f *fakeRegistry) List(_ context.Context) ([]domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askdocs/orchestrator/internal/domain"
	"github.com/askdocs/orchestrator/internal/port"
	"github.com/askdocs/orchestrator/internal/service"
)

func twoResults() []domain.SearchResult {
	return []domain.SearchResult{
		{Score: 0.85, DocumentID: 1, TextChunk: "Apple was founded by Steve Jobs and Steve Wozniak."},
		{Score: 0.78, DocumentID: 2, TextChunk: "The company started in a garage in 1976."},
	}
}

func history() []domain.ChatTurn {
	return []domain.ChatTurn{
		{Role: domain.RoleUser, Content: "Tell me about Apple."},
		{Role: domain.RoleAssistant, Content: "Apple is a technology company."},
	}
}

func TestAnswerNoContextShortCircuit(t *testing.T) {
	ai := &fakeAI{}
	idx := &fakeIndex{} // no results stored
	svc := service.NewRAGService(ai, idx, 3)

	answer := svc.Answer(context.Background(), "u1", "who founded apple?", nil)

	assert.Equal(t, domain.AnswerNoContext, answer.Source)
	assert.Equal(t, service.NoContextFallback, answer.Text)
	assert.Empty(t, ai.chats, "generation model must not be called without grounding context")
	assert.Equal(t, 3, idx.lastLimit)
}

func TestAnswerGeneratesFromRetrievedContext(t *testing.T) {
	ai := &fakeAI{chatReply: "Steve Jobs and Steve Wozniak founded Apple."}
	idx := &fakeIndex{results: twoResults()}
	svc := service.NewRAGService(ai, idx, 4)

	answer := svc.Answer(context.Background(), "u1", "who founded apple?", nil)

	assert.Equal(t, domain.AnswerGenerated, answer.Source)
	assert.Equal(t, "Steve Jobs and Steve Wozniak founded Apple.", answer.Text)

	require.Len(t, ai.chats, 1)
	messages := ai.chats[0]
	require.GreaterOrEqual(t, len(messages), 2)
	assert.Equal(t, domain.RoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "Steve Jobs and Steve Wozniak")
	assert.Contains(t, messages[0].Content, "garage in 1976")
	last := messages[len(messages)-1]
	assert.Equal(t, domain.RoleUser, last.Role)
	assert.Equal(t, "who founded apple?", last.Content)
}

func TestAnswerKeepsHistoryInOrder(t *testing.T) {
	ai := &fakeAI{replies: []string{"standalone question", "final answer"}}
	idx := &fakeIndex{results: twoResults()}
	svc := service.NewRAGService(ai, idx, 4)

	answer := svc.Answer(context.Background(), "u1", "and who else?", history())

	assert.Equal(t, domain.AnswerGenerated, answer.Source)
	assert.Equal(t, "final answer", answer.Text)

	// First chat call rewrites the query, the second generates the answer.
	require.Len(t, ai.chats, 2)
	generation := ai.chats[1]
	require.Len(t, generation, 4) // system + 2 history turns + prompt
	assert.Equal(t, "Tell me about Apple.", generation[1].Content)
	assert.Equal(t, "Apple is a technology company.", generation[2].Content)
	assert.Equal(t, "and who else?", generation[3].Content)
}

func TestAnswerRewriteFailure(t *testing.T) {
	ai := &fakeAI{chatErr: errors.New("llm down")}
	idx := &fakeIndex{results: twoResults()}
	svc := service.NewRAGService(ai, idx, 4)

	answer := svc.Answer(context.Background(), "u1", "and who else?", history())

	assert.Equal(t, domain.AnswerRetrievalFailed, answer.Source)
	assert.Equal(t, service.RetrievalFallback, answer.Text)
	assert.Empty(t, ai.embedded, "no retrieval after a failed rewrite")
}

func TestAnswerGenerationFailure(t *testing.T) {
	ai := &fakeAI{chatErr: errors.New("llm down")}
	idx := &fakeIndex{results: twoResults()}
	svc := service.NewRAGService(ai, idx, 4)

	// Empty history: no rewrite call, so the failure hits generation.
	answer := svc.Answer(context.Background(), "u1", "who founded apple?", nil)

	assert.Equal(t, domain.AnswerGenerationFailed, answer.Source)
	assert.Equal(t, service.GenerationFallback, answer.Text)
}

func TestAnswerEmbedFailure(t *testing.T) {
	ai := &fakeAI{embedErr: errors.New("embedding down")}
	idx := &fakeIndex{results: twoResults()}
	svc := service.NewRAGService(ai, idx, 4)

	answer := svc.Answer(context.Background(), "u1", "who founded apple?", nil)

	assert.Equal(t, domain.AnswerGenerationFailed, answer.Source)
	assert.Equal(t, service.GenerationFallback, answer.Text)
}

func TestRetrieveVerbatimWithoutHistory(t *testing.T) {
	ai := &fakeAI{}
	idx := &fakeIndex{results: twoResults()}
	svc := service.NewRAGService(ai, idx, 4)

	results, err := svc.Retrieve(context.Background(), "apple founders", nil, 5)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0.85, results[0].Score)
	assert.Equal(t, 5, idx.lastLimit)
	assert.Empty(t, ai.chats, "no rewrite call with empty history")
	require.Len(t, ai.embedded, 1)
	assert.Equal(t, "apple founders", ai.embedded[0])
}

func TestRetrieveRewritesWithHistory(t *testing.T) {
	ai := &fakeAI{chatReply: "who founded apple computer?"}
	idx := &fakeIndex{}
	svc := service.NewRAGService(ai, idx, 4)

	_, err := svc.Retrieve(context.Background(), "and who else?", history(), 0)

	require.NoError(t, err)
	require.Len(t, ai.chats, 1)
	require.Len(t, ai.embedded, 1)
	assert.Equal(t, "who founded apple computer?", ai.embedded[0], "retrieval must use the rewritten query")
	assert.Equal(t, 4, idx.lastLimit, "zero limit falls back to the configured default")
}

func TestRetrieveRewriteFailureSurfaces(t *testing.T) {
	ai := &fakeAI{chatErr: errors.New("llm down")}
	svc := service.NewRAGService(ai, &fakeIndex{}, 4)

	_, err := svc.Retrieve(context.Background(), "and who else?", history(), 4)

	require.ErrorIs(t, err, port.ErrQueryRewrite)
}

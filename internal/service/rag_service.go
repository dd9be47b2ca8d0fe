package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/askdocs/orchestrator/internal/domain"
	"github.com/askdocs/orchestrator/internal/port"
)

// Fixed fallback strings for the conversational path. The answer operation
// always returns some text; these are the documented degraded outcomes.
const (
	RetrievalFallback  = "Sorry, something went wrong while initializing the retrieval service."
	NoContextFallback  = "Sorry, I could not find any relevant information in the indexed documents."
	GenerationFallback = "Sorry, I cannot generate an answer based on internal data right now. Please try rephrasing or try again later."
)

const rewriteInstruction = "Based on the conversation above and my question, produce a single standalone question that captures all context needed to retrieve relevant information from the documents."

const answerSystemPrompt = "You are an intelligent assistant. Using the provided context and the conversation history, answer the user's question concisely and professionally.\n\nContext:\n%s"

// RAGService composes history-aware retrieval with grounded answer
// generation.
type RAGService struct {
	ai    port.AIProvider
	index port.VectorIndex
	limit int
}

// NewRAGService creates a RAG service with the given default retrieval limit.
func NewRAGService(ai port.AIProvider, index port.VectorIndex, limit int) *RAGService {
	if limit <= 0 {
		limit = 4
	}
	return &RAGService{ai: ai, index: index, limit: limit}
}

// Retrieve rewrites a follow-up question into a standalone query using the
// conversation history, then runs a similarity search. With empty history
// the query is used verbatim and no rewrite call is made. A failed rewrite
// fails the whole retrieval: an ambiguous query is worse than an explicit
// error here.
func (s *RAGService) Retrieve(ctx context.Context, query string, history []domain.ChatTurn, limit int) ([]domain.SearchResult, error) {
	standalone := query
	if len(history) > 0 {
		messages := make([]domain.ChatTurn, 0, len(history)+2)
		messages = append(messages, history...)
		messages = append(messages,
			domain.ChatTurn{Role: domain.RoleUser, Content: query},
			domain.ChatTurn{Role: domain.RoleUser, Content: rewriteInstruction},
		)
		rewritten, err := s.ai.Chat(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", port.ErrQueryRewrite, err)
		}
		if rewritten = strings.TrimSpace(rewritten); rewritten != "" {
			standalone = rewritten
		}
	}

	vec, err := s.ai.Embed(ctx, standalone)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.limit
	}
	return s.index.Search(ctx, vec, limit)
}

// Answer runs the full RAG path for one conversational turn. It never
// returns an error: every failure degrades to a fixed fallback string, and
// when retrieval finds nothing the generation model is not called at all.
func (s *RAGService) Answer(ctx context.Context, userID, prompt string, history []domain.ChatTurn) domain.Answer {
	slog.Info("rag answer requested", "user_id", userID, "history_turns", len(history))

	results, err := s.Retrieve(ctx, prompt, history, s.limit)
	if err != nil {
		slog.Error("retrieval failed", "user_id", userID, "error", err)
		if errors.Is(err, port.ErrQueryRewrite) {
			return domain.Answer{Text: RetrievalFallback, Source: domain.AnswerRetrievalFailed}
		}
		return domain.Answer{Text: GenerationFallback, Source: domain.AnswerGenerationFailed}
	}

	if len(results) == 0 {
		slog.Info("no grounding context retrieved", "user_id", userID)
		return domain.Answer{Text: NoContextFallback, Source: domain.AnswerNoContext}
	}

	contextParts := make([]string, len(results))
	for i, r := range results {
		contextParts[i] = r.TextChunk
	}

	messages := make([]domain.ChatTurn, 0, len(history)+2)
	messages = append(messages, domain.ChatTurn{
		Role:    domain.RoleSystem,
		Content: fmt.Sprintf(answerSystemPrompt, strings.Join(contextParts, "\n\n")),
	})
	messages = append(messages, history...)
	messages = append(messages, domain.ChatTurn{Role: domain.RoleUser, Content: prompt})

	text, err := s.ai.Chat(ctx, messages)
	if err != nil {
		slog.Error("answer generation failed", "user_id", userID, "error", err)
		return domain.Answer{Text: GenerationFallback, Source: domain.AnswerGenerationFailed}
	}
	return domain.Answer{Text: text, Source: domain.AnswerGenerated}
}

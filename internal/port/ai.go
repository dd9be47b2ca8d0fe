package port

import (
	"context"
	"io"

	"github.com/askdocs/orchestrator/internal/domain"
)

// AIProvider abstracts the embedding and chat-completion backend.
// Implementations can target OpenAI or any API-compatible service.
type AIProvider interface {
	// ModelName returns the identifier of the chat model being used.
	ModelName() string

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Chat sends an ordered message list and returns the completion text.
	Chat(ctx context.Context, messages []domain.ChatTurn) (string, error)
}

// Transcriber converts audio bytes into text. The filename is passed along
// so the backend can infer the container format from its extension.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

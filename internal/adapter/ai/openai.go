package ai

import (
	"context"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"github.com/askdocs/orchestrator/internal/domain"
	"github.com/askdocs/orchestrator/internal/port"
)

// OpenAIConfig holds the configuration for the OpenAI-backed provider.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string // optional, for API-compatible gateways
	EmbedModel   string // e.g. text-embedding-ada-002 (1536-dim)
	ChatModel    string // e.g. gpt-4o-mini
	WhisperModel string // e.g. whisper-1
	Temperature  float32
}

// OpenAIProvider implements port.AIProvider and port.Transcriber using the
// OpenAI API. A missing credential is recorded once at construction; every
// subsequent call fails fast with port.ErrAIUnavailable instead of retrying.
type OpenAIProvider struct {
	client      *openai.Client
	cfg         OpenAIConfig
	initErr     error
	temperature float32
}

// NewOpenAIProvider creates the provider. It never returns an error: an
// unconfigured provider stays constructible so the server can keep serving
// the endpoints that do not need it.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "text-embedding-ada-002"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o-mini"
	}
	if cfg.WhisperModel == "" {
		cfg.WhisperModel = string(openai.Whisper1)
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.7
	}

	p := &OpenAIProvider{cfg: cfg, temperature: temperature}
	if cfg.APIKey == "" {
		p.initErr = fmt.Errorf("%w: OPENAI_API_KEY is not set", port.ErrAIUnavailable)
		return p
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	p.client = openai.NewClientWithConfig(clientCfg)
	return p
}

// Available reports whether the underlying client initialized.
func (p *OpenAIProvider) Available() bool {
	return p.initErr == nil
}

// ModelName returns the chat model identifier.
func (p *OpenAIProvider) ModelName() string {
	return p.cfg.ChatModel
}

// Embed generates a vector embedding for the given text.
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if p.initErr != nil {
		return nil, p.initErr
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(p.cfg.EmbedModel),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrEmbedding, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: empty response", port.ErrEmbedding)
	}
	return resp.Data[0].Embedding, nil
}

// Chat sends an ordered message list and returns the completion text.
func (p *OpenAIProvider) Chat(ctx context.Context, messages []domain.ChatTurn) (string, error) {
	if p.initErr != nil {
		return "", p.initErr
	}

	converted := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role, ok := chatRole(m.Role)
		if !ok {
			continue
		}
		converted = append(converted, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.cfg.ChatModel,
		Messages:    converted,
		Temperature: p.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Transcribe converts audio into text using the Whisper API. The filename's
// extension tells the API which container format it is looking at.
func (p *OpenAIProvider) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if p.initErr != nil {
		return "", p.initErr
	}

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.cfg.WhisperModel,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return resp.Text, nil
}

// chatRole maps a conversation role onto the API's role constants. Turns
// with a role outside the known set are dropped rather than relabeled, so
// malformed client history cannot pose as a user turn.
func chatRole(role string) (string, bool) {
	switch role {
	case domain.RoleSystem:
		return openai.ChatMessageRoleSystem, true
	case domain.RoleUser:
		return openai.ChatMessageRoleUser, true
	case domain.RoleAssistant:
		return openai.ChatMessageRoleAssistant, true
	default:
		return "", false
	}
}

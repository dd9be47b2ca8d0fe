package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port    string
	AppName string

	// Database (optional; empty disables the document registry)
	DatabaseURL string

	// OpenAI
	OpenAIAPIKey  string
	OpenAIBaseURL string // empty = api.openai.com
	EmbedModel    string
	ChatModel     string
	WhisperModel  string

	// Qdrant
	QdrantHost     string
	QdrantPort     string
	CollectionName string

	EmbeddingDimension int

	// Ingestion
	ChunkSize       int
	ChunkOverlap    int
	SummaryMaxChars int

	// Retrieval
	SearchLimit    int
	RetrievalLimit int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:    envOrDefault("PORT", "8000"),
		AppName: envOrDefault("APP_NAME", "AskDocs Orchestrator"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		EmbedModel:    envOrDefault("OPENAI_EMBED_MODEL", "text-embedding-ada-002"),
		ChatModel:     envOrDefault("OPENAI_CHAT_MODEL", "gpt-4o-mini"),
		WhisperModel:  envOrDefault("OPENAI_WHISPER_MODEL", "whisper-1"),

		QdrantHost:     envOrDefault("QDRANT_HOST", "localhost"),
		QdrantPort:     envOrDefault("QDRANT_PORT", "6333"),
		CollectionName: envOrDefault("QDRANT_COLLECTION", "documents_collection"),

		EmbeddingDimension: envOrDefaultInt("EMBEDDING_DIMENSION", 1536),

		ChunkSize:       envOrDefaultInt("CHUNK_SIZE", 1000),
		ChunkOverlap:    envOrDefaultInt("CHUNK_OVERLAP", 200),
		SummaryMaxChars: envOrDefaultInt("SUMMARY_MAX_CHARS", 4000),

		SearchLimit:    envOrDefaultInt("SEARCH_LIMIT", 5),
		RetrievalLimit: envOrDefaultInt("RETRIEVAL_LIMIT", 4),
	}
}

// QdrantURL returns the base URL of the Qdrant REST API.
func (c *Config) QdrantURL() string {
	return fmt.Sprintf("http://%s:%s", c.QdrantHost, c.QdrantPort)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return fallback
}

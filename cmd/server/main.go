package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	_ "github.com/lib/pq"

	"github.com/askdocs/orchestrator/internal/adapter/ai"
	"github.com/askdocs/orchestrator/internal/adapter/store"
	"github.com/askdocs/orchestrator/internal/chunker"
	"github.com/askdocs/orchestrator/internal/handler"
	"github.com/askdocs/orchestrator/internal/port"
	"github.com/askdocs/orchestrator/internal/service"
	"github.com/askdocs/orchestrator/pkg/config"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()

	slog.Info("🚀 Starting AskDocs Orchestrator",
		"port", cfg.Port,
		"qdrant", cfg.QdrantURL(),
		"collection", cfg.CollectionName,
		"embed_model", cfg.EmbedModel,
		"chat_model", cfg.ChatModel,
	)

	// ── Adapters ─────────────────────────────────────────────────────────
	openAI := ai.NewOpenAIProvider(ai.OpenAIConfig{
		APIKey:       cfg.OpenAIAPIKey,
		BaseURL:      cfg.OpenAIBaseURL,
		EmbedModel:   cfg.EmbedModel,
		ChatModel:    cfg.ChatModel,
		WhisperModel: cfg.WhisperModel,
	})
	if !openAI.Available() {
		slog.Error("OpenAI client not initialized; model-backed endpoints will fail fast", "hint", "set OPENAI_API_KEY")
	}

	vectorIndex := store.NewQdrantIndex(store.QdrantConfig{
		BaseURL:    cfg.QdrantURL(),
		Collection: cfg.CollectionName,
		Dimension:  cfg.EmbeddingDimension,
	})

	// The registry is optional bookkeeping; the pipeline works without it.
	var registry port.DocumentRegistry
	if cfg.DatabaseURL != "" {
		pgRegistry, err := store.NewPostgresRegistry(cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to document registry", "error", err)
			os.Exit(1)
		}
		defer pgRegistry.Close()
		registry = pgRegistry
	} else {
		slog.Warn("DATABASE_URL not set; document registry disabled")
	}

	// ── Services ─────────────────────────────────────────────────────────
	splitter := chunker.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	documentService := service.NewDocumentService(openAI, vectorIndex, registry, splitter, cfg.SummaryMaxChars)
	ragService := service.NewRAGService(openAI, vectorIndex, cfg.RetrievalLimit)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New())

	// Liveness
	app.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": cfg.AppName + " is running and ready for duty!"})
	})
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"app":    cfg.AppName,
		})
	})

	// ── Routes ───────────────────────────────────────────────────────────
	documentHandler := handler.NewDocumentHandler(documentService, registry, cfg.SearchLimit)
	documentHandler.Register(app)

	voiceHandler := handler.NewVoiceHandler(openAI, ragService)
	voiceHandler.Register(app)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/askdocs/orchestrator/internal/domain"
	"github.com/askdocs/orchestrator/internal/port"
	"github.com/askdocs/orchestrator/internal/service"
)

// DocumentHandler handles document ingestion, search and summarization
// endpoints.
type DocumentHandler struct {
	docs        *service.DocumentService
	registry    port.DocumentRegistry // may be nil
	searchLimit int
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(docs *service.DocumentService, registry port.DocumentRegistry, searchLimit int) *DocumentHandler {
	if searchLimit <= 0 {
		searchLimit = 5
	}
	return &DocumentHandler{docs: docs, registry: registry, searchLimit: searchLimit}
}

// Register sets up document routes.
func (h *DocumentHandler) Register(router fiber.Router) {
	docs := router.Group("/documents")
	docs.Post("/upload", h.Upload)
	docs.Get("/search", h.Search)
	docs.Post("/summarize", h.Summarize)
	docs.Get("/", h.List)
}

// Upload ingests a document: chunk, embed, index, summarize.
func (h *DocumentHandler) Upload(c fiber.Ctx) error {
	var body struct {
		DocumentID int64          `json:"document_id"`
		FilePath   string         `json:"file_path"`
		Metadata   map[string]any `json:"metadata"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	summary, err := h.docs.Ingest(c.Context(), body.DocumentID, body.FilePath, body.Metadata)
	if errors.Is(err, port.ErrDocumentNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "file path does not exist: " + body.FilePath})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"document_id": body.DocumentID,
		"summary":     summary,
		"status":      domain.DocumentStatusProcessed,
	})
}

// Search runs a semantic search over the vector index.
func (h *DocumentHandler) Search(c fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query parameter is required"})
	}

	limit := h.searchLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	results, err := h.docs.Search(c.Context(), query, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	return c.JSON(fiber.Map{
		"query":   query,
		"results": results,
	})
}

// Summarize produces a summary for the supplied text content.
func (h *DocumentHandler) Summarize(c fiber.Ctx) error {
	var body struct {
		DocumentID  int64  `json:"document_id"`
		TextContent string `json:"text_content"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	summary := h.docs.Summarize(c.Context(), body.DocumentID, body.TextContent)

	return c.JSON(fiber.Map{
		"document_id": body.DocumentID,
		"summary":     summary,
		"status":      "completed",
	})
}

// List returns the registry's bookkeeping records.
func (h *DocumentHandler) List(c fiber.Ctx) error {
	if h.registry == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "document registry is not configured"})
	}

	docs, err := h.registry.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return c.JSON(fiber.Map{"documents": docs})
}

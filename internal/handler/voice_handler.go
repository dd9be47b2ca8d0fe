package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/askdocs/orchestrator/internal/domain"
	"github.com/askdocs/orchestrator/internal/port"
	"github.com/askdocs/orchestrator/internal/service"
)

// Audio formats accepted by the transcription endpoint.
var supportedAudioTypes = map[string]bool{
	"audio/webm": true,
	"audio/mp3":  true,
	"audio/mpeg": true,
	"audio/wav":  true,
	"audio/ogg":  true,
}

// VoiceHandler handles voice transcription and conversational RAG
// endpoints.
type VoiceHandler struct {
	transcriber port.Transcriber
	rag         *service.RAGService
}

// NewVoiceHandler creates a new voice handler.
func NewVoiceHandler(transcriber port.Transcriber, rag *service.RAGService) *VoiceHandler {
	return &VoiceHandler{transcriber: transcriber, rag: rag}
}

// Register sets up voice routes.
func (h *VoiceHandler) Register(router fiber.Router) {
	voice := router.Group("/voice")
	voice.Post("/transcribe", h.Transcribe)
	voice.Post("/respond", h.Respond)
}

// Transcribe accepts a multipart audio file and returns its transcription.
func (h *VoiceHandler) Transcribe(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("audio_file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "audio_file is required"})
	}

	contentType := strings.ToLower(strings.TrimSpace(fileHeader.Header.Get("Content-Type")))
	if !supportedAudioTypes[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "audio format " + contentType + " is not supported; upload mp3, wav, ogg or webm",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read audio file"})
	}
	defer file.Close()

	text, err := h.transcriber.Transcribe(c.Context(), fileHeader.Filename, file)
	if errors.Is(err, port.ErrAIUnavailable) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "transcription service is temporarily unavailable"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"transcribed_text": strings.TrimSpace(text)})
}

// Respond runs the conversational RAG pipeline over the transcribed prompt.
// The service absorbs its own failures, so this endpoint almost always
// answers 200 with some text.
func (h *VoiceHandler) Respond(c fiber.Ctx) error {
	var body struct {
		UserID              string            `json:"user_id"`
		Prompt              string            `json:"prompt"`
		ConversationHistory []domain.ChatTurn `json:"conversation_history"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	answer := h.rag.Answer(c.Context(), body.UserID, body.Prompt, body.ConversationHistory)

	return c.JSON(fiber.Map{
		"user_id":       body.UserID,
		"response_text": answer.Text,
	})
}

package assistant

import (
	"context"
	"strings"
	"time"

	"defter-backend/internal/auth"
	"defter-backend/internal/config"
	"defter-backend/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type ChatRequest struct {
	Message string  `json:"message"`
	Data    AppData `json:"data"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

const chatTimeout = 30 * time.Second

// POST /api/assistant/chat
func ChatHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := auth.CurrentUserID(c); err != nil {
			return err
		}

		if cfg.GeminiAPIKey == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Asistan yapılandırılmamış")
		}

		var body ChatRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Message = strings.TrimSpace(body.Message)
		if body.Message == "" {
			return fiber.NewError(fiber.StatusBadRequest, "message zorunlu")
		}

		analysis := AnalyzeAppData(body.Data)
		prompt := BuildPrompt(body.Message, analysis)

		ctx, cancel := context.WithTimeout(c.Context(), chatTimeout)
		defer cancel()

		reply, err := GenerateReply(ctx, cfg.GeminiAPIKey, prompt)
		if err != nil {
			logger.LogError("assistant", "ChatHandler", "gemini çağrısı başarısız", fiber.Map{
				"message_len": len(body.Message),
			}, err)
			return fiber.NewError(fiber.StatusInternalServerError, "Asistan yanıt veremedi")
		}

		return c.JSON(ChatResponse{Reply: reply})
	}
}

package middleware

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/fnt-jany/day4/internal/dto"
	"github.com/fnt-jany/day4/internal/services"
	"github.com/gofiber/fiber/v2"
)

const chatbotUserIDKey = "chatbot_user_id"

// APIKeyProtected authenticates chatbot endpoints with a scoped API key
// (Authorization: Bearer day4_ck_...). The format check is syntactic only;
// the hash lookup inside Resolve is what authorizes the call.
func APIKeyProtected(apiKeys *services.APIKeyService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := bearerToken(c)
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "unauthorized",
			})
		}

		user, err := apiKeys.Resolve(key)
		if err != nil {
			if !errors.Is(err, services.ErrInvalidAPIKey) {
				slog.Error("api key resolution failed", "error", err)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "unauthorized",
			})
		}

		c.Locals(chatbotUserIDKey, user.ID)
		return c.Next()
	}
}

// ChatbotUserID returns the key owner's id set by APIKeyProtected.
func ChatbotUserID(c *fiber.Ctx) (int, error) {
	userID, ok := c.Locals(chatbotUserIDKey).(int)
	if !ok || userID <= 0 {
		return 0, errors.New("no chatbot user in context")
	}
	return userID, nil
}

func bearerToken(c *fiber.Ctx) string {
	value := c.Get("Authorization")
	if !strings.HasPrefix(value, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(value, "Bearer "))
}

package handlers

import (
	"log/slog"

	"github.com/fnt-jany/day4/internal/dto"
	"github.com/fnt-jany/day4/internal/middleware"
	"github.com/fnt-jany/day4/internal/services"
	"github.com/gofiber/fiber/v2"
)

const plaintextRetentionWarning = "Store this key somewhere safe. It grants write access to your goals."

// APIKeyHandler serves the session-authenticated credential endpoints.
type APIKeyHandler struct {
	service *services.APIKeyService
}

func NewAPIKeyHandler(service *services.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{service: service}
}

func (h *APIKeyHandler) Status(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	status, err := h.service.Status(userID)
	if err != nil {
		slog.Error("api key status read failed", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "failed to read api key status",
		})
	}

	return c.JSON(dto.KeyStatusResponse{
		HasKey:    status.HasKey,
		KeyPrefix: status.Prefix,
		IssuedAt:  status.IssuedAt,
		APIKey:    status.PlaintextKey,
	})
}

func (h *APIKeyHandler) Issue(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	issued, err := h.service.Issue(userID)
	if err != nil {
		slog.Error("api key issue failed", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "failed to issue api key",
		})
	}

	return c.JSON(dto.IssueKeyResponse{
		APIKey:    issued.Key,
		KeyPrefix: issued.Prefix,
		IssuedAt:  issued.IssuedAt,
		Warning:   plaintextRetentionWarning,
	})
}

func (h *APIKeyHandler) Revoke(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	if err := h.service.Revoke(userID); err != nil {
		slog.Error("api key revoke failed", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "failed to revoke api key",
		})
	}

	return c.JSON(dto.OKResponse{OK: true})
}

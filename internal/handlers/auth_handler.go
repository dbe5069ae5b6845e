package handlers

import (
	"errors"
	"log/slog"

	"github.com/fnt-jany/day4/internal/dto"
	"github.com/fnt-jany/day4/internal/middleware"
	"github.com/fnt-jany/day4/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service *services.AuthService
}

func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) GoogleSignIn(c *fiber.Ctx) error {
	var req dto.GoogleSignInRequest
	if err := c.BodyParser(&req); err != nil || req.Credential == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	resp, err := h.service.GoogleSignIn(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredential) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "invalid token",
			})
		}
		slog.Error("google sign-in failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "sign-in failed",
		})
	}

	return c.JSON(resp)
}

func (h *AuthHandler) GuestSignIn(c *fiber.Ctx) error {
	resp, err := h.service.GuestSignIn()
	if err != nil {
		slog.Error("guest sign-in failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "guest auth failed",
		})
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	user, err := h.service.GetUser(userID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	return c.JSON(fiber.Map{"user": dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		PictureURL: user.PictureURL,
	}})
}

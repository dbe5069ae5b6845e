package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/fnt-jany/day4/internal/dto"
	"github.com/fnt-jany/day4/internal/middleware"
	"github.com/fnt-jany/day4/internal/services"
	"github.com/gofiber/fiber/v2"
)

type GoalHandler struct {
	service *services.GoalService
}

func NewGoalHandler(service *services.GoalService) *GoalHandler {
	return &GoalHandler{service: service}
}

func (h *GoalHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	goals, err := h.service.List(userID)
	if err != nil {
		slog.Error("goals read failed", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "failed to read goals",
		})
	}
	return c.JSON(goals)
}

func (h *GoalHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	var req dto.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	goal, err := h.service.Create(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPayload):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "invalid payload",
			})
		case errors.Is(err, services.ErrGoalQuotaExceeded):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("goal create failed", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "failed to create goal",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.IDResponse{ID: goal.ID})
}

func (h *GoalHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	goalID, err := strconv.Atoi(c.Params("goalId"))
	if err != nil || goalID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	var req dto.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	if err := h.service.Update(userID, goalID, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPayload):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "invalid payload",
			})
		case errors.Is(err, services.ErrGoalNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "goal not found",
			})
		}
		slog.Error("goal update failed", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "failed to update goal",
		})
	}

	return c.JSON(dto.OKResponse{OK: true})
}

func (h *GoalHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	goalID, err := strconv.Atoi(c.Params("goalId"))
	if err != nil || goalID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	if err := h.service.Delete(userID, goalID); err != nil {
		if errors.Is(err, services.ErrGoalNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "goal not found",
			})
		}
		slog.Error("goal delete failed", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "failed to delete goal",
		})
	}

	return c.JSON(dto.OKResponse{OK: true})
}

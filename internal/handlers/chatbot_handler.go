package handlers

import (
	"log/slog"
	"strconv"

	"github.com/fnt-jany/day4/internal/dto"
	"github.com/fnt-jany/day4/internal/middleware"
	"github.com/fnt-jany/day4/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ChatbotHandler serves the key-authenticated ingestion endpoints consumed
// by chatbots and the MCP gateway.
type ChatbotHandler struct {
	service *services.RecordService
}

func NewChatbotHandler(service *services.RecordService) *ChatbotHandler {
	return &ChatbotHandler{service: service}
}

func (h *ChatbotHandler) ListGoals(c *fiber.Ctx) error {
	userID, err := middleware.ChatbotUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	goals, err := h.service.ListGoals(userID)
	if err != nil {
		slog.Error("chatbot goals read failed", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "failed to read goals",
		})
	}
	return c.JSON(goals)
}

func (h *ChatbotHandler) CreateRecord(c *fiber.Ctx) error {
	userID, err := middleware.ChatbotUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	var req dto.RecordWriteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	created, err := h.service.CreateRecord(userID, &req)
	if err != nil {
		return respondServiceError(c, err, "failed to create record")
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// CreateBatch processes up to 50 record writes. The call itself succeeds
// with 200 even when every item failed; only the aggregate report carries
// the partial-failure story.
func (h *ChatbotHandler) CreateBatch(c *fiber.Ctx) error {
	userID, err := middleware.ChatbotUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	var req dto.BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	resp, err := h.service.CreateBatch(userID, req.Records)
	if err != nil {
		return respondServiceError(c, err, "failed to process batch")
	}

	return c.JSON(resp)
}

func (h *ChatbotHandler) ListRecords(c *fiber.Ctx) error {
	userID, err := middleware.ChatbotUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	goalID, _ := strconv.Atoi(c.Query("goalId"))
	goalName := c.Query("goalName")

	resp, err := h.service.ListRecords(userID, goalID, goalName)
	if err != nil {
		return respondServiceError(c, err, "failed to read records")
	}
	return c.JSON(resp)
}

func (h *ChatbotHandler) UpdateRecord(c *fiber.Ctx) error {
	userID, err := middleware.ChatbotUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	recordID, err := strconv.Atoi(c.Params("recordId"))
	if err != nil || recordID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	var req dto.RecordWriteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	resp, err := h.service.UpdateRecord(userID, recordID, &req)
	if err != nil {
		return respondServiceError(c, err, "failed to update record")
	}
	return c.JSON(resp)
}

func (h *ChatbotHandler) DeleteRecord(c *fiber.Ctx) error {
	userID, err := middleware.ChatbotUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	recordID, err := strconv.Atoi(c.Params("recordId"))
	if err != nil || recordID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	goalID, _ := strconv.Atoi(c.Query("goalId"))
	goalName := c.Query("goalName")

	resp, err := h.service.DeleteRecord(userID, recordID, goalID, goalName)
	if err != nil {
		return respondServiceError(c, err, "failed to delete record")
	}
	return c.JSON(resp)
}

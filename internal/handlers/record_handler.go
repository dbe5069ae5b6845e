package handlers

import (
	"log/slog"
	"strconv"

	"github.com/fnt-jany/day4/internal/dto"
	"github.com/fnt-jany/day4/internal/middleware"
	"github.com/fnt-jany/day4/internal/services"
	"github.com/gofiber/fiber/v2"
)

// RecordHandler serves the session-side record routes used by the web UI
// (records addressed through their goal's path).
type RecordHandler struct {
	service *services.RecordService
}

func NewRecordHandler(service *services.RecordService) *RecordHandler {
	return &RecordHandler{service: service}
}

func (h *RecordHandler) Create(c *fiber.Ctx) error {
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

	var req dto.CreateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	created, err := h.service.CreateRecord(userID, &dto.RecordWriteRequest{
		GoalID:  goalID,
		Date:    req.Date,
		Level:   req.Level,
		Message: req.Message,
	})
	if err != nil {
		return respondServiceError(c, err, "failed to create record")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.IDResponse{ID: created.RecordID})
}

func (h *RecordHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	goalID, err := strconv.Atoi(c.Params("goalId"))
	recordID, err2 := strconv.Atoi(c.Params("recordId"))
	if err != nil || goalID <= 0 || err2 != nil || recordID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	var req dto.CreateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	_, err = h.service.UpdateRecord(userID, recordID, &dto.RecordWriteRequest{
		GoalID:  goalID,
		Date:    req.Date,
		Level:   req.Level,
		Message: req.Message,
	})
	if err != nil {
		return respondServiceError(c, err, "failed to update record")
	}

	return c.JSON(dto.OKResponse{OK: true})
}

func (h *RecordHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.CurrentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "unauthorized",
		})
	}

	goalID, err := strconv.Atoi(c.Params("goalId"))
	recordID, err2 := strconv.Atoi(c.Params("recordId"))
	if err != nil || goalID <= 0 || err2 != nil || recordID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "invalid payload",
		})
	}

	if _, err := h.service.DeleteRecord(userID, recordID, goalID, ""); err != nil {
		return respondServiceError(c, err, "failed to delete record")
	}

	return c.JSON(dto.OKResponse{OK: true})
}

// respondServiceError maps a service error to its HTTP status. Known
// rejections keep their machine-stable message; everything else is logged
// and hidden behind the fallback.
func respondServiceError(c *fiber.Ctx, err error, fallback string) error {
	status := services.StatusForError(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error(fallback, "error", err, "path", c.Path())
		return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: fallback})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
}

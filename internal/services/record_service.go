package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fnt-jany/day4/internal/dto"
	"github.com/fnt-jany/day4/internal/models"
	"gorm.io/gorm"
)

// MaxRecordsPerGoal is a hard pre-insert quota, not advisory. The count
// happens outside a transaction, so heavily concurrent writers to one goal
// can overshoot by a small margin; accepted for the expected load (single
// user, low write rate).
const MaxRecordsPerGoal = 100

// Batch size bounds; out-of-range batches are rejected before any item runs.
const (
	MinBatchSize = 1
	MaxBatchSize = 50
)

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrRecordQuotaExceeded = errors.New("record limit reached for this goal")
	ErrRecordGoalMismatch  = errors.New("record does not belong to the referenced goal")
	ErrBatchSize           = fmt.Errorf("batch must contain between %d and %d records", MinBatchSize, MaxBatchSize)
)

// RecordService validates and persists progress-record writes coming from
// the chatbot ingestion endpoints (and the session-side record routes).
type RecordService struct {
	db    *gorm.DB
	goals *GoalService
	alloc *IDAllocator
}

func NewRecordService(db *gorm.DB, goals *GoalService, alloc *IDAllocator) *RecordService {
	return &RecordService{db: db, goals: goals, alloc: alloc}
}

// ListGoals is the chatbot's goal listing: id/name/target plus record count.
func (s *RecordService) ListGoals(userID int) ([]dto.ChatbotGoalResponse, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Order("id DESC").Find(&goals).Error; err != nil {
		return nil, err
	}

	resp := make([]dto.ChatbotGoalResponse, 0, len(goals))
	for _, g := range goals {
		var count int64
		if err := s.db.Model(&models.GoalRecord{}).Where("goal_id = ?", g.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		resp = append(resp, dto.ChatbotGoalResponse{
			ID:          g.ID,
			Name:        g.Name,
			TargetDate:  g.TargetDate,
			TargetLevel: g.TargetLevel,
			Unit:        g.Unit,
			RecordCount: int(count),
		})
	}
	return resp, nil
}

// CreateRecord validates one write request in a fixed order: payload shape,
// goal resolution, quota, then allocation and insert. The first failing
// rule wins; each failure kind maps to a distinct status.
func (s *RecordService) CreateRecord(userID int, req *dto.RecordWriteRequest) (*dto.RecordCreatedResponse, error) {
	if (req.GoalID <= 0 && strings.TrimSpace(req.GoalName) == "") || req.Level == nil || !validDate(req.Date) {
		return nil, ErrInvalidPayload
	}

	goal, err := s.goals.Resolve(userID, req.GoalID, req.GoalName)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.GoalRecord{}).Where("goal_id = ?", goal.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count >= MaxRecordsPerGoal {
		return nil, ErrRecordQuotaExceeded
	}

	record := models.GoalRecord{
		GoalID:  goal.ID,
		Date:    req.Date,
		Level:   *req.Level,
		Message: normalizeMessage(req.Message),
	}
	recordID, err := s.alloc.Allocate(&models.GoalRecord{}, func(id int) error {
		record.ID = id
		return s.db.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	return &dto.RecordCreatedResponse{
		GoalID:   goal.ID,
		GoalName: goal.Name,
		RecordID: recordID,
	}, nil
}

// UpdateRecord follows the same ownership-then-resolve pattern: the record
// is loaded through its parent goal, and a goal reference in the payload —
// if present — must resolve to that same parent. This keeps a caller from
// accidentally retargeting a record with an inconsistent id/name pair.
func (s *RecordService) UpdateRecord(userID, recordID int, req *dto.RecordWriteRequest) (*dto.RecordMutationResponse, error) {
	if recordID <= 0 || req.Level == nil || !validDate(req.Date) {
		return nil, ErrInvalidPayload
	}

	record, goal, err := s.getOwnedRecord(userID, recordID)
	if err != nil {
		return nil, err
	}

	if err := s.checkGoalReference(userID, goal, req.GoalID, req.GoalName); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"date":    req.Date,
		"level":   *req.Level,
		"message": normalizeMessage(req.Message),
	}
	if err := s.db.Model(record).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &dto.RecordMutationResponse{
		OK:       true,
		RecordID: record.ID,
		GoalID:   goal.ID,
		GoalName: goal.Name,
	}, nil
}

func (s *RecordService) DeleteRecord(userID, recordID, goalID int, goalName string) (*dto.RecordMutationResponse, error) {
	if recordID <= 0 {
		return nil, ErrInvalidPayload
	}

	record, goal, err := s.getOwnedRecord(userID, recordID)
	if err != nil {
		return nil, err
	}

	if err := s.checkGoalReference(userID, goal, goalID, goalName); err != nil {
		return nil, err
	}

	if err := s.db.Delete(record).Error; err != nil {
		return nil, err
	}

	return &dto.RecordMutationResponse{
		OK:       true,
		RecordID: record.ID,
		GoalID:   goal.ID,
		GoalName: goal.Name,
	}, nil
}

// ListRecords resolves a goal reference and returns its records newest
// first.
func (s *RecordService) ListRecords(userID, goalID int, goalName string) (*dto.RecordListResponse, error) {
	if goalID <= 0 && strings.TrimSpace(goalName) == "" {
		return nil, ErrInvalidPayload
	}

	goal, err := s.goals.Resolve(userID, goalID, goalName)
	if err != nil {
		return nil, err
	}

	var records []models.GoalRecord
	if err := s.db.
		Where("goal_id = ?", goal.ID).
		Order("date DESC").Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.GoalRecord{}
	}

	return &dto.RecordListResponse{
		GoalID:   goal.ID,
		GoalName: goal.Name,
		Count:    len(records),
		Records:  records,
	}, nil
}

// CreateBatch drives CreateRecord over the items in input order. One item's
// failure never aborts the rest; every outcome is reported with its input
// index. ok is true only when nothing failed.
func (s *RecordService) CreateBatch(userID int, items []dto.RecordWriteRequest) (*dto.BatchResponse, error) {
	if len(items) < MinBatchSize || len(items) > MaxBatchSize {
		return nil, ErrBatchSize
	}

	resp := &dto.BatchResponse{
		Total:   len(items),
		Success: make([]dto.BatchItemSuccess, 0, len(items)),
		Failed:  make([]dto.BatchItemFailure, 0),
	}

	for i := range items {
		created, err := s.createRecordSafe(userID, &items[i])
		if err != nil {
			resp.Failed = append(resp.Failed, dto.BatchItemFailure{
				Index:   i,
				Status:  StatusForError(err),
				Message: err.Error(),
			})
			continue
		}
		resp.Success = append(resp.Success, dto.BatchItemSuccess{
			Index:    i,
			GoalID:   created.GoalID,
			GoalName: created.GoalName,
			RecordID: created.RecordID,
		})
	}

	resp.Inserted = len(resp.Success)
	resp.FailedCount = len(resp.Failed)
	resp.OK = resp.FailedCount == 0
	return resp, nil
}

// createRecordSafe converts a panic inside one batch item into that item's
// failure instead of taking down the whole batch.
func (s *RecordService) createRecordSafe(userID int, item *dto.RecordWriteRequest) (created *dto.RecordCreatedResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("batch item panicked", "user_id", userID, "error", fmt.Sprint(r))
			err = fmt.Errorf("internal error")
		}
	}()
	return s.CreateRecord(userID, item)
}

func (s *RecordService) getOwnedRecord(userID, recordID int) (*models.GoalRecord, *models.Goal, error) {
	var record models.GoalRecord
	err := s.db.First(&record, "id = ?", recordID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	// Ownership runs through the parent goal.
	var goal models.Goal
	err = s.db.Where("id = ? AND user_id = ?", record.GoalID, userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return &record, &goal, nil
}

// checkGoalReference rejects a write whose explicit goal reference resolves
// to a goal other than the record's actual parent.
func (s *RecordService) checkGoalReference(userID int, parent *models.Goal, goalID int, goalName string) error {
	if goalID <= 0 && strings.TrimSpace(goalName) == "" {
		return nil
	}

	referenced, err := s.goals.Resolve(userID, goalID, goalName)
	if err != nil {
		return err
	}
	if referenced.ID != parent.ID {
		return ErrRecordGoalMismatch
	}
	return nil
}

func normalizeMessage(message string) *string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// StatusForError maps service errors to HTTP statuses. Batch item reports
// reuse the same mapping so a conversational caller sees consistent codes.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidPayload) || errors.Is(err, ErrInvalidSetting) || errors.Is(err, ErrBatchSize):
		return http.StatusBadRequest
	case errors.Is(err, ErrGoalNotFound) || errors.Is(err, ErrRecordNotFound) || errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrGoalNameAmbiguous),
		errors.Is(err, ErrGoalQuotaExceeded),
		errors.Is(err, ErrRecordQuotaExceeded),
		errors.Is(err, ErrRecordGoalMismatch):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidAPIKey) || errors.Is(err, ErrInvalidCredential):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

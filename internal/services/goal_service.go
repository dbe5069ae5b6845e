package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fnt-jany/day4/internal/dto"
	"github.com/fnt-jany/day4/internal/models"
	"gorm.io/gorm"
)

// MaxGoalsPerUser is a hard pre-insert quota, not advisory.
const MaxGoalsPerUser = 10

var (
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrGoalNotFound      = errors.New("goal not found")
	ErrGoalNameAmbiguous = errors.New("goal name is ambiguous, use goalId")
	ErrGoalQuotaExceeded = errors.New("goal limit reached")
)

type GoalService struct {
	db    *gorm.DB
	alloc *IDAllocator
}

func NewGoalService(db *gorm.DB, alloc *IDAllocator) *GoalService {
	return &GoalService{db: db, alloc: alloc}
}

// List returns the user's goals newest first, each with its records
// embedded (date desc, id desc) for the web UI.
func (s *GoalService) List(userID int) ([]dto.GoalResponse, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ?", userID).Order("id DESC").Find(&goals).Error; err != nil {
		return nil, err
	}

	resp := make([]dto.GoalResponse, 0, len(goals))
	if len(goals) == 0 {
		return resp, nil
	}

	goalIDs := make([]int, 0, len(goals))
	for _, g := range goals {
		goalIDs = append(goalIDs, g.ID)
	}

	var records []models.GoalRecord
	if err := s.db.
		Where("goal_id IN ?", goalIDs).
		Order("date DESC").Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	byGoal := make(map[int][]models.GoalRecord, len(goals))
	for _, r := range records {
		byGoal[r.GoalID] = append(byGoal[r.GoalID], r)
	}

	for _, g := range goals {
		inputs := byGoal[g.ID]
		if inputs == nil {
			inputs = []models.GoalRecord{}
		}
		resp = append(resp, dto.GoalResponse{
			ID:          g.ID,
			Name:        g.Name,
			TargetDate:  g.TargetDate,
			TargetLevel: g.TargetLevel,
			Unit:        g.Unit,
			Inputs:      inputs,
		})
	}
	return resp, nil
}

func (s *GoalService) Create(userID int, req *dto.CreateGoalRequest) (*models.Goal, error) {
	name := strings.TrimSpace(req.Name)
	unit := strings.TrimSpace(req.Unit)
	if name == "" || unit == "" || req.TargetLevel == nil || !validDate(req.TargetDate) {
		return nil, ErrInvalidPayload
	}

	var count int64
	if err := s.db.Model(&models.Goal{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count >= MaxGoalsPerUser {
		return nil, ErrGoalQuotaExceeded
	}

	goal := models.Goal{
		UserID:      userID,
		Name:        name,
		TargetDate:  req.TargetDate,
		TargetLevel: *req.TargetLevel,
		Unit:        unit,
	}
	id, err := s.alloc.Allocate(&models.Goal{}, func(id int) error {
		goal.ID = id
		return s.db.Create(&goal).Error
	})
	if err != nil {
		return nil, err
	}
	goal.ID = id
	return &goal, nil
}

func (s *GoalService) Update(userID, goalID int, req *dto.CreateGoalRequest) error {
	name := strings.TrimSpace(req.Name)
	unit := strings.TrimSpace(req.Unit)
	if goalID <= 0 || name == "" || unit == "" || req.TargetLevel == nil || !validDate(req.TargetDate) {
		return ErrInvalidPayload
	}

	result := s.db.Model(&models.Goal{}).
		Where("id = ? AND user_id = ?", goalID, userID).
		Updates(map[string]interface{}{
			"name":         name,
			"target_date":  req.TargetDate,
			"target_level": *req.TargetLevel,
			"unit":         unit,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// Delete removes the goal and all its records.
func (s *GoalService) Delete(userID, goalID int) error {
	goal, err := s.getOwned(userID, goalID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", goal.ID).Delete(&models.GoalRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(goal).Error
	})
}

// Resolve maps a caller-supplied goal reference to exactly one owned goal.
// A numeric id takes precedence over a name. Name resolution is exact-match
// and fails loudly when the user owns several goals with that name —
// names are not unique, so picking one silently would be wrong.
func (s *GoalService) Resolve(userID, goalID int, goalName string) (*models.Goal, error) {
	if goalID > 0 {
		return s.getOwned(userID, goalID)
	}

	name := strings.TrimSpace(goalName)
	if name == "" {
		return nil, ErrInvalidPayload
	}

	var matches []models.Goal
	if err := s.db.Where("user_id = ? AND name = ?", userID, name).Find(&matches).Error; err != nil {
		return nil, fmt.Errorf("goal lookup failed: %w", err)
	}

	switch len(matches) {
	case 0:
		return nil, ErrGoalNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, ErrGoalNameAmbiguous
	}
}

func (s *GoalService) getOwned(userID, goalID int) (*models.Goal, error) {
	var goal models.Goal
	err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// validDate accepts calendar days only, formatted YYYY-MM-DD.
func validDate(s string) bool {
	if len(s) != 10 {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

package services

import (
	"errors"

	"github.com/fnt-jany/day4/internal/dto"
	"github.com/fnt-jany/day4/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	settingChartSpacingMode = "chart_spacing_mode"
	settingLanguage         = "language"
)

var ErrInvalidSetting = errors.New("invalid payload")

// SettingsService reads and writes display preferences. Unknown or missing
// values fall back to the defaults ("equal" spacing, Korean UI).
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

func (s *SettingsService) Get(userID int) (*dto.SettingsResponse, error) {
	resp := &dto.SettingsResponse{
		ChartSpacingMode: "equal",
		Language:         "ko",
	}

	var rows []models.UserSetting
	err := s.db.
		Where("user_id = ? AND key IN ?", userID, []string{settingChartSpacingMode, settingLanguage}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		switch row.Key {
		case settingChartSpacingMode:
			if row.Value == "actual" {
				resp.ChartSpacingMode = "actual"
			}
		case settingLanguage:
			if row.Value == "en" {
				resp.Language = "en"
			}
		}
	}
	return resp, nil
}

func (s *SettingsService) Update(userID int, req *dto.UpdateSettingsRequest) error {
	hasSpacing := req.ChartSpacingMode != nil &&
		(*req.ChartSpacingMode == "equal" || *req.ChartSpacingMode == "actual")
	hasLanguage := req.Language != nil &&
		(*req.Language == "ko" || *req.Language == "en")

	if !hasSpacing && !hasLanguage {
		return ErrInvalidSetting
	}

	if hasSpacing {
		if err := s.set(userID, settingChartSpacingMode, *req.ChartSpacingMode); err != nil {
			return err
		}
	}
	if hasLanguage {
		if err := s.set(userID, settingLanguage, *req.Language); err != nil {
			return err
		}
	}
	return nil
}

func (s *SettingsService) set(userID int, key, value string) error {
	setting := models.UserSetting{UserID: userID, Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

package services

import (
	"testing"

	"github.com/fnt-jany/day4/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB spins up an in-memory SQLite database with the same error
// translation the production config uses, so duplicated-key detection
// behaves identically.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A second connection would see its own empty :memory: database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.GoalRecord{},
		&models.UserSetting{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, sub string) *models.User {
	t.Helper()
	user := models.User{GoogleSub: sub}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedGoal(t *testing.T, db *gorm.DB, alloc *IDAllocator, userID int, name string) *models.Goal {
	t.Helper()
	goal := models.Goal{
		UserID:      userID,
		Name:        name,
		TargetDate:  "2026-12-31",
		TargetLevel: 100,
		Unit:        "km",
	}
	id, err := alloc.Allocate(&models.Goal{}, func(id int) error {
		goal.ID = id
		return db.Create(&goal).Error
	})
	require.NoError(t, err)
	goal.ID = id
	return &goal
}

func ptr(v float64) *float64 {
	return &v
}

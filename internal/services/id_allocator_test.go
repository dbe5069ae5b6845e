package services

import (
	"errors"
	"testing"

	"github.com/fnt-jany/day4/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAllocatorAssignsSequentialIDs(t *testing.T) {
	db := openTestDB(t)
	alloc := NewIDAllocator(db)
	user := seedUser(t, db, "alloc-user")

	first := seedGoal(t, db, alloc, user.ID, "first")
	second := seedGoal(t, db, alloc, user.ID, "second")

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
}

func TestAllocatorRetriesOnDuplicateKey(t *testing.T) {
	db := openTestDB(t)
	alloc := NewIDAllocator(db)

	attempts := 0
	id, err := alloc.Allocate(&models.Goal{}, func(id int) error {
		attempts++
		if attempts < 3 {
			return gorm.ErrDuplicatedKey
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, id)
	assert.Equal(t, 3, attempts)
}

func TestAllocatorGivesUpAfterRetryBudget(t *testing.T) {
	db := openTestDB(t)
	alloc := NewIDAllocator(db)

	attempts := 0
	_, err := alloc.Allocate(&models.Goal{}, func(id int) error {
		attempts++
		return gorm.ErrDuplicatedKey
	})

	assert.ErrorIs(t, err, ErrAllocationExhausted)
	assert.Equal(t, allocateAttempts, attempts)
}

func TestAllocatorStopsOnOtherInsertErrors(t *testing.T) {
	db := openTestDB(t)
	alloc := NewIDAllocator(db)

	boom := errors.New("constraint violation")
	attempts := 0
	_, err := alloc.Allocate(&models.Goal{}, func(id int) error {
		attempts++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

func TestAllocatorProposesAboveExistingMax(t *testing.T) {
	db := openTestDB(t)
	alloc := NewIDAllocator(db)
	user := seedUser(t, db, "collision-user")

	// Occupy id 1 behind the allocator's back.
	require.NoError(t, db.Create(&models.Goal{
		ID: 1, UserID: user.ID, Name: "squatter",
		TargetDate: "2026-12-31", TargetLevel: 1, Unit: "x",
	}).Error)

	goal := models.Goal{
		UserID: user.ID, Name: "next",
		TargetDate: "2026-12-31", TargetLevel: 1, Unit: "x",
	}
	id, err := alloc.Allocate(&models.Goal{}, func(id int) error {
		goal.ID = id
		return db.Create(&goal).Error
	})

	require.NoError(t, err)
	assert.Equal(t, 2, id)
}

package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const allocateAttempts = 5

var ErrAllocationExhausted = errors.New("id allocation failed after retries")

// IDAllocator hands out primary keys for tables whose insert path exposes
// no sequence. It reads the current max id, proposes max+1 and lets the
// caller attempt the insert; a primary-key collision (gorm.ErrDuplicatedKey)
// triggers a re-read and retry, bounded by allocateAttempts.
//
// This is optimistic, not locking: it tolerates a bounded amount of
// concurrent writers to the same table. Exhausting the retry budget is a
// fatal failure for the call, not something retried further up.
type IDAllocator struct {
	db *gorm.DB
}

func NewIDAllocator(db *gorm.DB) *IDAllocator {
	return &IDAllocator{db: db}
}

// Allocate runs insert with a proposed id until it sticks. Any insert
// error other than a duplicated key is surfaced immediately.
func (a *IDAllocator) Allocate(model interface{}, insert func(id int) error) (int, error) {
	for attempt := 0; attempt < allocateAttempts; attempt++ {
		var maxID int64
		if err := a.db.Model(model).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return 0, fmt.Errorf("reading max id: %w", err)
		}

		id := int(maxID) + 1
		err := insert(id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, err
		}
	}
	return 0, ErrAllocationExhausted
}

package models

import "time"

// Goal ids are assigned by the id allocator, not a database sequence, so
// the primary keys are declared without auto-increment. Dates are stored as
// plain YYYY-MM-DD strings: records carry a calendar day with no time
// component, and keeping them as text avoids timezone drift between the
// store and the API.
type Goal struct {
	ID          int       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	UserID      int       `gorm:"not null;index" json:"-"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	TargetDate  string    `gorm:"size:10;not null" json:"targetDate"`
	TargetLevel float64   `gorm:"not null" json:"targetLevel"`
	Unit        string    `gorm:"size:50;not null" json:"unit"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`

	Records []GoalRecord `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE" json:"-"`
}

// GoalRecord is one dated progress entry for a goal. Message is optional;
// an empty or whitespace-only message is normalized to NULL before insert.
type GoalRecord struct {
	ID        int       `gorm:"primaryKey;autoIncrement:false" json:"id"`
	GoalID    int       `gorm:"not null;index" json:"-"`
	Date      string    `gorm:"size:10;not null;index" json:"date"`
	Level     float64   `gorm:"not null" json:"level"`
	Message   *string   `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

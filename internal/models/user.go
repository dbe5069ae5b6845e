package models

import "time"

// GuestSub is the reserved identity subject for the shared guest account.
const GuestSub = "guest-mode"

// User is created on first Google sign-in (or guest bootstrap) and has its
// profile fields refreshed on every subsequent login. Users are never
// deleted by this service.
type User struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	GoogleSub  string    `gorm:"size:255;not null;uniqueIndex" json:"-"`
	Email      *string   `gorm:"size:255" json:"email"`
	Name       *string   `gorm:"size:255" json:"name"`
	PictureURL *string   `gorm:"type:text" json:"pictureUrl"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

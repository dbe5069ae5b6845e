package models

import "time"

// UserSetting is an opaque per-user key/value row. It backs both display
// preferences (chart spacing, language) and the chatbot credential, which
// is stored as four independent settings keyed under chatbot_api_key_*.
type UserSetting struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	UserID    int       `gorm:"not null;uniqueIndex:idx_user_settings_user_key" json:"-"`
	Key       string    `gorm:"size:100;not null;uniqueIndex:idx_user_settings_user_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"-"`
}

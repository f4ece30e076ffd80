package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email             string         `gorm:"unique;not null" json:"email"`
	PasswordHash      string         `gorm:"not null" json:"-"`
	FullName          string         `json:"full_name"`
	ProfilePictureURL string         `json:"profile_picture_url"`
	IsPremium         bool           `gorm:"default:false" json:"is_premium"`
	Preferences       datatypes.JSON `json:"preferences"`
	LastLogin         *time.Time     `json:"last_login,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// Preferences stores the user's sleep-schedule and notification settings.
// Bedtime and WakeTime use the HH:mm format.
type Preferences struct {
	Age            *int   `json:"age,omitempty"`
	Bedtime        string `json:"bedtime,omitempty"`
	WakeTime       string `json:"wake_time,omitempty"`
	DreamReminders *bool  `json:"dream_reminders,omitempty"`
	Notifications  *bool  `json:"notifications,omitempty"`
	DarkTheme      *bool  `json:"dark_theme,omitempty"`
}

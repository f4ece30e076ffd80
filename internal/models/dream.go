package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Dream struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	DreamDate    time.Time      `gorm:"index" json:"dream_date"`
	IsLucid      bool           `gorm:"default:false" json:"is_lucid"`
	ClarityLevel int            `json:"clarity_level"`
	SleepQuality int            `json:"sleep_quality"`
	DreamType    string         `json:"dream_type"`
	Tags         []Tag          `gorm:"many2many:dream_tags;" json:"-"`
	Moods        []DreamMood    `gorm:"foreignKey:DreamID" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

type Tag struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

type Mood struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

// DreamMood associates a mood with a dream at a given intensity (1-5).
type DreamMood struct {
	DreamID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"dream_id"`
	MoodID    uint      `gorm:"primaryKey" json:"mood_id"`
	Intensity int       `gorm:"default:1" json:"intensity"`
	Mood      Mood      `gorm:"foreignKey:MoodID" json:"mood"`
}

// MoodEntry is the wire form of a dream's mood.
type MoodEntry struct {
	Name      string `json:"name" binding:"required"`
	Intensity int    `json:"intensity"`
}

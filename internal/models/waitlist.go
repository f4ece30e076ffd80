package models

import (
	"time"

	"gorm.io/datatypes"
)

type WaitlistEntry struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Status    string         `gorm:"default:active" json:"status"`
	Metadata  datatypes.JSON `json:"metadata"`
	CreatedAt time.Time      `json:"created_at"`
}

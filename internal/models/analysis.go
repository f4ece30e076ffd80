package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	AnalysisTypeBasic   = "basic"
	AnalysisTypePremium = "premium"
)

// DreamAnalysis holds the AI interpretation of a dream. A dream has at most
// one analysis row; a basic row is upgraded in place on the first premium
// request and premium is never downgraded.
type DreamAnalysis struct {
	ID                     uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DreamID                uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"dream_id"`
	AnalysisType           string         `gorm:"not null" json:"analysis_type"`
	Interpretation         string         `json:"interpretation"`
	Themes                 datatypes.JSON `json:"themes"`
	SymbolsDetected        datatypes.JSON `json:"symbols_detected"`
	SentimentScore         float64        `json:"sentiment_score"`
	PsychologicalAnalysis  *string        `json:"psychological_analysis"`
	PersonalGrowthInsights *string        `json:"personal_growth_insights"`
	LucidDreamingTips      *string        `json:"lucid_dreaming_tips"`
	RecurringPatterns      *string        `json:"recurring_patterns"`
	CreatedAt              time.Time      `json:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at"`
}

// AIUsage is an append-only record of one AI invocation, used to enforce
// the free-tier weekly quota. Rows are never updated or deleted.
type AIUsage struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	DreamID      uuid.UUID `gorm:"type:uuid;not null" json:"dream_id"`
	AnalysisType string    `json:"analysis_type"`
	UsedAt       time.Time `gorm:"index;not null" json:"used_at"`
}

type DreamPrompt struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	PromptText string    `json:"prompt_text"`
	Category   string    `json:"category"`
	IsPremium  bool      `json:"is_premium"`
	ActiveDate string    `gorm:"uniqueIndex" json:"active_date"` // YYYY-MM-DD
	CreatedAt  time.Time `json:"created_at"`
}

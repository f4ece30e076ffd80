package services

import (
	"context"
	"errors"

	"github.com/pmarkota/dreamlog-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalysisStore defines the persistence operations for dream analyses.
// A dream has at most one analysis row (unique index on dream_id).
type AnalysisStore interface {
	GetByDreamID(ctx context.Context, dreamID uuid.UUID) (*models.DreamAnalysis, error)
	Create(ctx context.Context, analysis *models.DreamAnalysis) error
	Update(ctx context.Context, analysis *models.DreamAnalysis) error
}

// ErrAnalysisNotFound is returned when a dream has no analysis row yet.
var ErrAnalysisNotFound = errors.New("analysis not found")

type DefaultAnalysisStore struct {
	db *gorm.DB
}

func NewAnalysisStore(db *gorm.DB) AnalysisStore {
	return &DefaultAnalysisStore{db: db}
}

func (s *DefaultAnalysisStore) GetByDreamID(ctx context.Context, dreamID uuid.UUID) (*models.DreamAnalysis, error) {
	var analysis models.DreamAnalysis
	result := s.db.WithContext(ctx).Where("dream_id = ?", dreamID).First(&analysis)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAnalysisNotFound
		}
		return nil, result.Error
	}
	return &analysis, nil
}

func (s *DefaultAnalysisStore) Create(ctx context.Context, analysis *models.DreamAnalysis) error {
	return s.db.WithContext(ctx).Create(analysis).Error
}

func (s *DefaultAnalysisStore) Update(ctx context.Context, analysis *models.DreamAnalysis) error {
	return s.db.WithContext(ctx).Save(analysis).Error
}

// PromptStore defines the persistence operations for daily dream prompts.
type PromptStore interface {
	GetByDate(ctx context.Context, date string) (*models.DreamPrompt, error)
	Create(ctx context.Context, prompt *models.DreamPrompt) error
}

// ErrPromptNotFound is returned when no prompt exists for a date.
var ErrPromptNotFound = errors.New("prompt not found")

type DefaultPromptStore struct {
	db *gorm.DB
}

func NewPromptStore(db *gorm.DB) PromptStore {
	return &DefaultPromptStore{db: db}
}

func (s *DefaultPromptStore) GetByDate(ctx context.Context, date string) (*models.DreamPrompt, error) {
	var prompt models.DreamPrompt
	result := s.db.WithContext(ctx).Where("active_date = ?", date).First(&prompt)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPromptNotFound
		}
		return nil, result.Error
	}
	return &prompt, nil
}

func (s *DefaultPromptStore) Create(ctx context.Context, prompt *models.DreamPrompt) error {
	return s.db.WithContext(ctx).Create(prompt).Error
}

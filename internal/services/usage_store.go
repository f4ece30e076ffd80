package services

import (
	"context"
	"time"

	"github.com/pmarkota/dreamlog-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageStore defines the persistence operations behind the AI usage quota.
type UsageStore interface {
	IsPremium(ctx context.Context, userID uuid.UUID) (bool, error)
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error)
	Insert(ctx context.Context, userID, dreamID uuid.UUID, analysisType string, usedAt time.Time) error
	// InsertIfUnder appends a usage row only while the user's count of rows
	// with used_at >= since stays strictly below limit. Returns whether a
	// row was written. The check and insert happen in one statement so two
	// concurrent requests cannot both pass the guard.
	InsertIfUnder(ctx context.Context, userID, dreamID uuid.UUID, analysisType string, usedAt, since time.Time, limit int) (bool, error)
}

// DefaultUsageStore implements UsageStore on GORM.
type DefaultUsageStore struct {
	db *gorm.DB
}

func NewUsageStore(db *gorm.DB) UsageStore {
	return &DefaultUsageStore{db: db}
}

func (s *DefaultUsageStore) IsPremium(ctx context.Context, userID uuid.UUID) (bool, error) {
	var user models.User
	result := s.db.WithContext(ctx).Select("is_premium").Where("id = ?", userID).First(&user)
	if result.Error != nil {
		return false, result.Error
	}
	return user.IsPremium, nil
}

func (s *DefaultUsageStore) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&models.AIUsage{}).
		Where("user_id = ? AND used_at >= ?", userID, since).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

func (s *DefaultUsageStore) Insert(ctx context.Context, userID, dreamID uuid.UUID, analysisType string, usedAt time.Time) error {
	usage := &models.AIUsage{
		UserID:       userID,
		DreamID:      dreamID,
		AnalysisType: analysisType,
		UsedAt:       usedAt,
	}
	return s.db.WithContext(ctx).Create(usage).Error
}

func (s *DefaultUsageStore) InsertIfUnder(ctx context.Context, userID, dreamID uuid.UUID, analysisType string, usedAt, since time.Time, limit int) (bool, error) {
	result := s.db.WithContext(ctx).Exec(`
		INSERT INTO ai_usages (user_id, dream_id, analysis_type, used_at)
		SELECT ?, ?, ?, ?
		WHERE (SELECT COUNT(*) FROM ai_usages WHERE user_id = ? AND used_at >= ?) < ?`,
		userID, dreamID, analysisType, usedAt, userID, since, limit)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

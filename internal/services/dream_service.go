package services

import (
	"context"
	"errors"
	"time"

	"github.com/pmarkota/dreamlog-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDreamNotFound covers both a missing dream and a dream owned by another
// user; callers cannot tell the two apart.
var ErrDreamNotFound = errors.New("dream not found")

// ValidationError is a user-facing input error.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// DreamInput is the request body for creating or updating a dream.
type DreamInput struct {
	Title        string             `json:"title" binding:"required"`
	Description  string             `json:"description" binding:"required"`
	DreamDate    string             `json:"dream_date" binding:"required"`
	IsLucid      bool               `json:"is_lucid"`
	ClarityLevel int                `json:"clarity_level"`
	SleepQuality int                `json:"sleep_quality"`
	DreamType    string             `json:"dream_type"`
	Tags         []string           `json:"tags"`
	Moods        []models.MoodEntry `json:"moods"`
}

// DreamView is a dream with its tag names and moods flattened for responses.
type DreamView struct {
	models.Dream
	Tags  []string           `json:"tags"`
	Moods []models.MoodEntry `json:"moods"`
}

// DreamStats summarizes a user's journaling activity. The week starts on
// Sunday, matching the journal's weekly streak display.
type DreamStats struct {
	TotalDreams    int64 `json:"total_dreams"`
	DreamsThisWeek int64 `json:"dreams_this_week"`
	LucidDreams    int64 `json:"lucid_dreams"`
}

// DreamService is the single canonical service for dream CRUD. Every
// mutation checks ownership, and multi-step writes (dream + tags + moods)
// run in one transaction.
type DreamService struct {
	db *gorm.DB
}

func NewDreamService(db *gorm.DB) *DreamService {
	return &DreamService{db: db}
}

func parseDreamDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ValidationError("Invalid dream_date format. Use YYYY-MM-DD or RFC 3339")
}

func (s *DreamService) Create(ctx context.Context, userID uuid.UUID, input DreamInput) (*DreamView, error) {
	dreamDate, err := parseDreamDate(input.DreamDate)
	if err != nil {
		return nil, err
	}

	dream := models.Dream{
		UserID:       userID,
		Title:        input.Title,
		Description:  input.Description,
		DreamDate:    dreamDate,
		IsLucid:      input.IsLucid,
		ClarityLevel: input.ClarityLevel,
		SleepQuality: input.SleepQuality,
		DreamType:    input.DreamType,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&dream).Error; err != nil {
			return err
		}
		if err := s.replaceTags(tx, &dream, input.Tags); err != nil {
			return err
		}
		return s.replaceMoods(tx, dream.ID, input.Moods)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, dream.ID)
}

func (s *DreamService) List(ctx context.Context, userID uuid.UUID) ([]DreamView, error) {
	var dreams []models.Dream
	result := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Moods.Mood").
		Where("user_id = ?", userID).
		Order("dream_date desc").
		Find(&dreams)
	if result.Error != nil {
		return nil, result.Error
	}
	return toViews(dreams), nil
}

// Get fetches a dream by ID, restricted to its owner.
func (s *DreamService) Get(ctx context.Context, userID, dreamID uuid.UUID) (*DreamView, error) {
	var dream models.Dream
	result := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Moods.Mood").
		Where("id = ? AND user_id = ?", dreamID, userID).
		First(&dream)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDreamNotFound
		}
		return nil, result.Error
	}
	view := toView(dream)
	return &view, nil
}

// GetOwned implements the DreamReader interface used by AnalysisService.
func (s *DreamService) GetOwned(ctx context.Context, userID, dreamID uuid.UUID) (*DreamView, error) {
	return s.Get(ctx, userID, dreamID)
}

func (s *DreamService) ListByDate(ctx context.Context, userID uuid.UUID, date string) ([]DreamView, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ValidationError("Invalid date format. Use YYYY-MM-DD")
	}

	var dreams []models.Dream
	result := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Moods.Mood").
		Where("user_id = ? AND dream_date >= ? AND dream_date < ?", userID, day, day.AddDate(0, 0, 1)).
		Order("created_at desc").
		Find(&dreams)
	if result.Error != nil {
		return nil, result.Error
	}
	return toViews(dreams), nil
}

func (s *DreamService) Update(ctx context.Context, userID, dreamID uuid.UUID, input DreamInput) (*DreamView, error) {
	dreamDate, err := parseDreamDate(input.DreamDate)
	if err != nil {
		return nil, err
	}

	var dream models.Dream
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", dreamID, userID).First(&dream).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDreamNotFound
		}
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":         input.Title,
			"description":   input.Description,
			"dream_date":    dreamDate,
			"is_lucid":      input.IsLucid,
			"clarity_level": input.ClarityLevel,
			"sleep_quality": input.SleepQuality,
			"dream_type":    input.DreamType,
		}
		if err := tx.Model(&dream).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&dream).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("dream_id = ?", dream.ID).Delete(&models.DreamMood{}).Error; err != nil {
			return err
		}
		if err := s.replaceTags(tx, &dream, input.Tags); err != nil {
			return err
		}
		return s.replaceMoods(tx, dream.ID, input.Moods)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, dreamID)
}

func (s *DreamService) Delete(ctx context.Context, userID, dreamID uuid.UUID) error {
	var dream models.Dream
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", dreamID, userID).First(&dream).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDreamNotFound
		}
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&dream).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("dream_id = ?", dream.ID).Delete(&models.DreamMood{}).Error; err != nil {
			return err
		}
		return tx.Delete(&dream).Error
	})
}

func (s *DreamService) Stats(ctx context.Context, userID uuid.UUID) (*DreamStats, error) {
	now := time.Now()
	startOfWeek := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
		AddDate(0, 0, -int(now.Weekday()))

	stats := &DreamStats{}
	base := s.db.WithContext(ctx).Model(&models.Dream{}).Where("user_id = ?", userID)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalDreams).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("dream_date >= ?", startOfWeek).Count(&stats.DreamsThisWeek).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_lucid = ?", true).Count(&stats.LucidDreams).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *DreamService) replaceTags(tx *gorm.DB, dream *models.Dream, names []string) error {
	if len(names) == 0 {
		return nil
	}
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return err
		}
		tags = append(tags, tag)
	}
	return tx.Model(dream).Association("Tags").Append(&tags)
}

func (s *DreamService) replaceMoods(tx *gorm.DB, dreamID uuid.UUID, entries []models.MoodEntry) error {
	for _, entry := range entries {
		var mood models.Mood
		if err := tx.Where(models.Mood{Name: entry.Name}).FirstOrCreate(&mood).Error; err != nil {
			return err
		}
		intensity := entry.Intensity
		if intensity == 0 {
			intensity = 1
		}
		dm := models.DreamMood{DreamID: dreamID, MoodID: mood.ID, Intensity: intensity}
		if err := tx.Create(&dm).Error; err != nil {
			return err
		}
	}
	return nil
}

func toView(dream models.Dream) DreamView {
	view := DreamView{Dream: dream, Tags: []string{}, Moods: []models.MoodEntry{}}
	for _, tag := range dream.Tags {
		view.Tags = append(view.Tags, tag.Name)
	}
	for _, dm := range dream.Moods {
		view.Moods = append(view.Moods, models.MoodEntry{Name: dm.Mood.Name, Intensity: dm.Intensity})
	}
	return view
}

func toViews(dreams []models.Dream) []DreamView {
	views := make([]DreamView, 0, len(dreams))
	for _, dream := range dreams {
		views = append(views, toView(dream))
	}
	return views
}

package services

import (
	"context"
	"encoding/json"

	"github.com/pmarkota/dreamlog-backend/internal/models"
	"github.com/pmarkota/dreamlog-backend/internal/utils/dreamtext"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InsightsService computes journal-wide aggregates for premium users.
// Each call loads the user's dreams with tags, moods and analyses once and
// hands the flattened rows to a pure aggregator.
type InsightsService struct {
	db *gorm.DB
}

func NewInsightsService(db *gorm.DB) *InsightsService {
	return &InsightsService{db: db}
}

func (s *InsightsService) Stats(ctx context.Context, userID uuid.UUID) (*InsightStats, error) {
	facts, err := s.loadFacts(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := aggregateStats(facts)
	return &stats, nil
}

func (s *InsightsService) MoodPatterns(ctx context.Context, userID uuid.UUID) (map[string]*MoodPattern, error) {
	facts, err := s.loadFacts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return aggregateMoodPatterns(facts), nil
}

func (s *InsightsService) ThemeAnalysis(ctx context.Context, userID uuid.UUID) (*ThemeAnalysis, error) {
	facts, err := s.loadFacts(ctx, userID)
	if err != nil {
		return nil, err
	}
	analysis := aggregateThemes(facts)
	return &analysis, nil
}

func (s *InsightsService) TimingPatterns(ctx context.Context, userID uuid.UUID) (*TimingPatterns, error) {
	facts, err := s.loadFacts(ctx, userID)
	if err != nil {
		return nil, err
	}
	tp := aggregateTiming(facts)
	return &tp, nil
}

func (s *InsightsService) MoodThemeAnalysis(ctx context.Context, userID uuid.UUID) (*MoodThemeAnalysis, error) {
	facts, err := s.loadFacts(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := aggregateMoodThemes(facts)
	return &out, nil
}

func (s *InsightsService) loadFacts(ctx context.Context, userID uuid.UUID) ([]dreamFacts, error) {
	var dreams []models.Dream
	result := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Moods.Mood").
		Where("user_id = ?", userID).
		Order("dream_date asc").
		Find(&dreams)
	if result.Error != nil {
		return nil, result.Error
	}

	analyses, err := s.loadAnalyses(ctx, dreams)
	if err != nil {
		return nil, err
	}

	facts := make([]dreamFacts, 0, len(dreams))
	for _, dream := range dreams {
		f := dreamFacts{
			Date:         dream.DreamDate,
			IsLucid:      dream.IsLucid,
			Clarity:      dream.ClarityLevel,
			SleepQuality: dream.SleepQuality,
		}
		for _, tag := range dream.Tags {
			f.Tags = append(f.Tags, tag.Name)
		}
		for _, dm := range dream.Moods {
			f.Moods = append(f.Moods, dreamtext.MoodRating{Name: dm.Mood.Name, Intensity: dm.Intensity})
		}
		if analysis, ok := analyses[dream.ID]; ok {
			score := analysis.SentimentScore
			f.Sentiment = &score
			f.Themes = decodeList(analysis.Themes)
			f.Symbols = decodeList(analysis.SymbolsDetected)
		}
		facts = append(facts, f)
	}
	return facts, nil
}

func (s *InsightsService) loadAnalyses(ctx context.Context, dreams []models.Dream) (map[uuid.UUID]models.DreamAnalysis, error) {
	byDream := map[uuid.UUID]models.DreamAnalysis{}
	if len(dreams) == 0 {
		return byDream, nil
	}

	ids := make([]uuid.UUID, 0, len(dreams))
	for _, dream := range dreams {
		ids = append(ids, dream.ID)
	}

	var analyses []models.DreamAnalysis
	result := s.db.WithContext(ctx).Where("dream_id IN ?", ids).Find(&analyses)
	if result.Error != nil {
		return nil, result.Error
	}
	for _, analysis := range analyses {
		byDream[analysis.DreamID] = analysis
	}
	return byDream, nil
}

func decodeList(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	return values
}

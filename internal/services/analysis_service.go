package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pmarkota/dreamlog-backend/internal/models"
	"github.com/pmarkota/dreamlog-backend/internal/utils/dreamtext"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"gorm.io/datatypes"
)

var (
	// ErrAIUnavailable wraps a failed AI provider call.
	ErrAIUnavailable = errors.New("ai provider request failed")
	// ErrMalformedReply signals a completion that does not match the
	// expected section structure. Nothing is stored in that case.
	ErrMalformedReply = errors.New("ai reply missing required sections")
)

// ChatCompleter is the single synchronous call made against the AI
// provider. *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// DreamReader fetches a dream restricted to its owner.
type DreamReader interface {
	GetOwned(ctx context.Context, userID, dreamID uuid.UUID) (*DreamView, error)
}

// UsageLimiter gates and records AI invocations.
type UsageLimiter interface {
	CanUse(ctx context.Context, userID uuid.UUID) (bool, error)
	Remaining(ctx context.Context, userID uuid.UUID) (int, error)
	Reserve(ctx context.Context, userID, dreamID uuid.UUID, analysisType string) error
}

const basicSystemPrompt = "You are a dream analyst providing concise interpretations. Keep your analysis brief and focused on the most important elements. Format your response in sections:\n1. Analysis:\n2. Sentiment:\n(Start with 'SCORE: [number between -1 and 1]' then explain the score. Use -1 for very negative, -0.5 for negative, 0 for neutral, 0.5 for positive, 1 for very positive)\n3. Themes:\n4. Symbols:\nPut each section header on its own line with the content below it."

const premiumSystemPrompt = "You are a professional dream analyst. Address the user directly using 'you/your'. Format your response with these exact headers, each on its own line with the content below it:\n1. Main themes and symbols:\n2. Psychological interpretation:\n3. Personal growth insights:\n4. Lucid dreaming potential:\n5. Recommendations for future dreams:\n6. Emotional tone/sentiment:\n(Start with 'SCORE: [number between -1 and 1]' then explain the score. Use -1 for very negative, -0.5 for negative, 0 for neutral, 0.5 for positive, 1 for very positive)\nKeep each section concise but meaningful."

// Section labels the parser must find for a reply to be stored.
var (
	basicRequiredSections   = []string{"Analysis", "Sentiment"}
	premiumRequiredSections = []string{"Psychological interpretation", "Emotional tone/sentiment"}
)

// AnalysisService orchestrates AI dream analyses. The per-dream analysis
// row moves through {absent, basic, premium}: a basic row is upgraded in
// place on the first premium request, and premium is terminal.
type AnalysisService struct {
	ai      ChatCompleter
	model   string
	dreams  DreamReader
	store   AnalysisStore
	prompts PromptStore
	usage   UsageLimiter
	now     func() time.Time
}

func NewAnalysisService(ai ChatCompleter, model string, dreams DreamReader, store AnalysisStore, prompts PromptStore, usage UsageLimiter) *AnalysisService {
	return &AnalysisService{
		ai:      ai,
		model:   model,
		dreams:  dreams,
		store:   store,
		prompts: prompts,
		usage:   usage,
		now:     time.Now,
	}
}

// BasicAnalysis returns the dream's analysis, generating a basic one on
// first request. An existing row of either tier is returned unchanged
// without consuming quota or calling the provider.
func (s *AnalysisService) BasicAnalysis(ctx context.Context, userID, dreamID uuid.UUID) (*models.DreamAnalysis, error) {
	dream, err := s.dreams.GetOwned(ctx, userID, dreamID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetByDreamID(ctx, dreamID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrAnalysisNotFound) {
		return nil, err
	}

	if err := s.usage.Reserve(ctx, userID, dreamID, models.AnalysisTypeBasic); err != nil {
		return nil, err
	}

	reply, err := s.complete(ctx, basicSystemPrompt, basicUserPrompt(dream), 0, 0)
	if err != nil {
		return nil, err
	}

	sections := dreamtext.Sections(reply)
	if err := requireSections(sections, basicRequiredSections); err != nil {
		return nil, err
	}

	analysis := &models.DreamAnalysis{
		DreamID:         dreamID,
		AnalysisType:    models.AnalysisTypeBasic,
		Interpretation:  sections["Analysis"],
		Themes:          jsonList(dreamtext.Themes(sections["Themes"])),
		SymbolsDetected: jsonList(dreamtext.Symbols(sections["Symbols"])),
		SentimentScore:  dreamtext.SentimentScore(sections["Sentiment"]),
	}
	if err := s.store.Create(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// PremiumAnalysis returns the dream's premium analysis, upgrading an
// existing basic row in place or creating a fresh premium row. An existing
// premium row is returned unchanged.
func (s *AnalysisService) PremiumAnalysis(ctx context.Context, userID, dreamID uuid.UUID) (*models.DreamAnalysis, error) {
	dream, err := s.dreams.GetOwned(ctx, userID, dreamID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetByDreamID(ctx, dreamID)
	if err != nil && !errors.Is(err, ErrAnalysisNotFound) {
		return nil, err
	}
	if existing != nil && existing.AnalysisType == models.AnalysisTypePremium {
		return existing, nil
	}

	if err := s.usage.Reserve(ctx, userID, dreamID, models.AnalysisTypePremium); err != nil {
		return nil, err
	}

	reply, err := s.complete(ctx, premiumSystemPrompt, premiumUserPrompt(dream), 0.5, 1000)
	if err != nil {
		return nil, err
	}

	sections := dreamtext.Sections(reply)
	if err := requireSections(sections, premiumRequiredSections); err != nil {
		return nil, err
	}

	themeSource := sections["Main themes and symbols"]
	if existing != nil {
		// basic -> premium upgrade: same row, fields overwritten
		existing.AnalysisType = models.AnalysisTypePremium
		existing.Interpretation = reply
		existing.Themes = jsonList(dreamtext.Themes(themeSource))
		existing.SymbolsDetected = jsonList(dreamtext.Symbols(themeSource))
		existing.SentimentScore = dreamtext.SentimentScore(sections["Emotional tone/sentiment"])
		existing.PsychologicalAnalysis = strPtr(sections["Psychological interpretation"])
		existing.PersonalGrowthInsights = strPtr(sections["Personal growth insights"])
		existing.LucidDreamingTips = strPtr(sections["Lucid dreaming potential"])
		existing.RecurringPatterns = strPtr(sections["Recommendations for future dreams"])
		if err := s.store.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	analysis := &models.DreamAnalysis{
		DreamID:                dreamID,
		AnalysisType:           models.AnalysisTypePremium,
		Interpretation:         reply,
		Themes:                 jsonList(dreamtext.Themes(themeSource)),
		SymbolsDetected:        jsonList(dreamtext.Symbols(themeSource)),
		SentimentScore:         dreamtext.SentimentScore(sections["Emotional tone/sentiment"]),
		PsychologicalAnalysis:  strPtr(sections["Psychological interpretation"]),
		PersonalGrowthInsights: strPtr(sections["Personal growth insights"]),
		LucidDreamingTips:      strPtr(sections["Lucid dreaming potential"]),
		RecurringPatterns:      strPtr(sections["Recommendations for future dreams"]),
	}
	if err := s.store.Create(ctx, analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

func (s *AnalysisService) complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	resp, err := s.ai.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrAIUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

func requireSections(sections map[string]string, required []string) error {
	for _, label := range required {
		if sections[label] == "" {
			return fmt.Errorf("%w: %q", ErrMalformedReply, label)
		}
	}
	return nil
}

func basicUserPrompt(dream *DreamView) string {
	return fmt.Sprintf(`Please analyze this dream and provide:
1. A brief analysis (4 sentences or less)
2. The overall emotional tone/sentiment (Format: SCORE: [number between -1 and 1], followed by explanation)
3. Key themes present
4. Important symbols and their meanings

Title: %s
Description: %s
Tags: %s
Moods: %s
Lucid: %s
Clarity: %d/5`,
		dream.Title,
		dream.Description,
		strings.Join(dream.Tags, ", "),
		formatMoods(dream.Moods),
		yesNo(dream.IsLucid),
		dream.ClarityLevel,
	)
}

func premiumUserPrompt(dream *DreamView) string {
	return fmt.Sprintf(`Analyze your dream concisely with all sections:
Title: %s
Description: %s
Tags: %s
Moods: %s
Lucid: %s
Clarity: %d/5

Use these exact section headers and speak directly to the user:
1. Main themes and symbols:
2. Psychological interpretation:
3. Personal growth insights:
4. Lucid dreaming potential:
5. Recommendations for future dreams:
6. Emotional tone/sentiment:

Keep each section focused and meaningful. Address the user directly using "you" and "your".`,
		dream.Title,
		dream.Description,
		strings.Join(dream.Tags, ", "),
		formatMoods(dream.Moods),
		yesNo(dream.IsLucid),
		dream.ClarityLevel,
	)
}

func formatMoods(moods []models.MoodEntry) string {
	parts := make([]string, 0, len(moods))
	for _, mood := range moods {
		parts = append(parts, fmt.Sprintf("%s (%d/5)", mood.Name, mood.Intensity))
	}
	return strings.Join(parts, ", ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func jsonList(values []string) datatypes.JSON {
	data, _ := json.Marshal(values)
	return datatypes.JSON(data)
}

func strPtr(s string) *string {
	return &s
}

var basicPromptPool = []string{
	"What colors were most vivid in your dream?",
	"Did you recognize any familiar faces?",
	"Were you able to fly or have other supernatural abilities?",
	"What emotions did you feel during the dream?",
}

var premiumPromptPool = []string{
	"Explore the connection between your current life challenges and your dream narrative",
	"Analyze the symbolic meaning of recurring characters in your dreams",
	"How did the dream environment reflect your subconscious desires?",
	"What lucid dreaming techniques could you apply based on this dream?",
}

// DailyPrompt returns today's journaling prompt, generating one if none
// exists yet. A premium prompt is masked for free users rather than leaked.
func (s *AnalysisService) DailyPrompt(ctx context.Context, isPremium bool) (*models.DreamPrompt, error) {
	today := s.now().Format("2006-01-02")

	prompt, err := s.prompts.GetByDate(ctx, today)
	if err != nil {
		if !errors.Is(err, ErrPromptNotFound) {
			return nil, err
		}
		prompt = generateDailyPrompt(today, isPremium)
		if err := s.prompts.Create(ctx, prompt); err != nil {
			return nil, err
		}
		return prompt, nil
	}

	if prompt.IsPremium && !isPremium {
		masked := *prompt
		masked.PromptText = "Upgrade to premium to access today's special dream prompt!"
		return &masked, nil
	}
	return prompt, nil
}

func generateDailyPrompt(date string, isPremium bool) *models.DreamPrompt {
	pool := basicPromptPool
	category := "basic"
	if isPremium {
		pool = append(append([]string{}, basicPromptPool...), premiumPromptPool...)
		category = "premium"
	}
	return &models.DreamPrompt{
		PromptText: pool[rand.Intn(len(pool))],
		Category:   category,
		IsPremium:  isPremium,
		ActiveDate: date,
	}
}

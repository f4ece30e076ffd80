package services_test

import (
	"context"
	"testing"

	"github.com/pmarkota/dreamlog-backend/internal/models"
	"github.com/pmarkota/dreamlog-backend/internal/services"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const basicReply = `1. Analysis:
A calm dream about flying over open water.
2. Sentiment:
SCORE: 0.7 - generally positive and hopeful
3. Themes:
The theme of freedom appears throughout.
4. Symbols:
Water: emotions, Sky: freedom`

const premiumReply = `1. Main themes and symbols:
The theme of transformation is central. Water: emotions, Bridge: transition
2. Psychological interpretation:
You are processing a major life change.
3. Personal growth insights:
Trust your ability to adapt.
4. Lucid dreaming potential:
Recurring water scenes make a good reality-check trigger.
5. Recommendations for future dreams:
Note bedside impressions immediately after waking.
6. Emotional tone/sentiment:
SCORE: 0.5 - cautiously optimistic`

func testDream(dreamID uuid.UUID) *services.DreamView {
	return &services.DreamView{
		Dream: models.Dream{ID: dreamID, Title: "Flying", Description: "Soaring over the sea", ClarityLevel: 4},
		Tags:  []string{"flying", "water"},
		Moods: []models.MoodEntry{{Name: "Happy", Intensity: 4}},
	}
}

func completion(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func newAnalysisFixture() (*MockChatCompleter, *MockDreamReader, *MockAnalysisStore, *MockPromptStore, *MockUsageLimiter, *services.AnalysisService) {
	ai := new(MockChatCompleter)
	dreams := new(MockDreamReader)
	store := new(MockAnalysisStore)
	prompts := new(MockPromptStore)
	usage := new(MockUsageLimiter)
	svc := services.NewAnalysisService(ai, "gpt-3.5-turbo", dreams, store, prompts, usage)
	return ai, dreams, store, prompts, usage, svc
}

func TestBasicAnalysis(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	dreamID := uuid.New()

	t.Run("First request generates and stores a basic analysis", func(t *testing.T) {
		ai, dreams, store, _, usage, svc := newAnalysisFixture()

		dreams.On("GetOwned", ctx, userID, dreamID).Return(testDream(dreamID), nil).Once()
		store.On("GetByDreamID", ctx, dreamID).Return(nil, services.ErrAnalysisNotFound).Once()
		usage.On("Reserve", ctx, userID, dreamID, models.AnalysisTypeBasic).Return(nil).Once()
		ai.On("CreateChatCompletion", ctx, mock.AnythingOfType("openai.ChatCompletionRequest")).
			Return(completion(basicReply), nil).Once()
		store.On("Create", ctx, mock.AnythingOfType("*models.DreamAnalysis")).Return(nil).Once()

		analysis, err := svc.BasicAnalysis(ctx, userID, dreamID)

		require.NoError(t, err)
		assert.Equal(t, models.AnalysisTypeBasic, analysis.AnalysisType)
		assert.Equal(t, "A calm dream about flying over open water.", analysis.Interpretation)
		assert.InDelta(t, 0.7, analysis.SentimentScore, 0.0001)
		assert.Nil(t, analysis.PsychologicalAnalysis)

		ai.AssertExpectations(t)
		store.AssertExpectations(t)
		usage.AssertExpectations(t)
	})

	t.Run("Existing analysis of any tier is returned without AI call", func(t *testing.T) {
		ai, dreams, store, _, usage, svc := newAnalysisFixture()

		existing := &models.DreamAnalysis{DreamID: dreamID, AnalysisType: models.AnalysisTypePremium, Interpretation: "stored"}
		dreams.On("GetOwned", ctx, userID, dreamID).Return(testDream(dreamID), nil).Once()
		store.On("GetByDreamID", ctx, dreamID).Return(existing, nil).Once()

		analysis, err := svc.BasicAnalysis(ctx, userID, dreamID)

		require.NoError(t, err)
		assert.Equal(t, existing, analysis)
		ai.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything)
		usage.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Quota exhaustion blocks the AI call", func(t *testing.T) {
		ai, dreams, store, _, usage, svc := newAnalysisFixture()

		dreams.On("GetOwned", ctx, userID, dreamID).Return(testDream(dreamID), nil).Once()
		store.On("GetByDreamID", ctx, dreamID).Return(nil, services.ErrAnalysisNotFound).Once()
		usage.On("Reserve", ctx, userID, dreamID, models.AnalysisTypeBasic).Return(services.ErrQuotaExceeded).Once()

		analysis, err := svc.BasicAnalysis(ctx, userID, dreamID)

		assert.ErrorIs(t, err, services.ErrQuotaExceeded)
		assert.Nil(t, analysis)
		ai.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Reply without required sections stores nothing", func(t *testing.T) {
		ai, dreams, store, _, usage, svc := newAnalysisFixture()

		dreams.On("GetOwned", ctx, userID, dreamID).Return(testDream(dreamID), nil).Once()
		store.On("GetByDreamID", ctx, dreamID).Return(nil, services.ErrAnalysisNotFound).Once()
		usage.On("Reserve", ctx, userID, dreamID, models.AnalysisTypeBasic).Return(nil).Once()
		ai.On("CreateChatCompletion", ctx, mock.AnythingOfType("openai.ChatCompletionRequest")).
			Return(completion("Some freeform text with no headers"), nil).Once()

		analysis, err := svc.BasicAnalysis(ctx, userID, dreamID)

		assert.ErrorIs(t, err, services.ErrMalformedReply)
		assert.Nil(t, analysis)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestPremiumAnalysis(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	dreamID := uuid.New()

	t.Run("Basic analysis is upgraded in place", func(t *testing.T) {
		ai, dreams, store, _, usage, svc := newAnalysisFixture()

		existingID := uuid.New()
		existing := &models.DreamAnalysis{ID: existingID, DreamID: dreamID, AnalysisType: models.AnalysisTypeBasic, Interpretation: "short"}
		dreams.On("GetOwned", ctx, userID, dreamID).Return(testDream(dreamID), nil).Once()
		store.On("GetByDreamID", ctx, dreamID).Return(existing, nil).Once()
		usage.On("Reserve", ctx, userID, dreamID, models.AnalysisTypePremium).Return(nil).Once()
		ai.On("CreateChatCompletion", ctx, mock.AnythingOfType("openai.ChatCompletionRequest")).
			Return(completion(premiumReply), nil).Once()
		store.On("Update", ctx, mock.AnythingOfType("*models.DreamAnalysis")).Return(nil).Once()

		analysis, err := svc.PremiumAnalysis(ctx, userID, dreamID)

		require.NoError(t, err)
		assert.Equal(t, existingID, analysis.ID)
		assert.Equal(t, models.AnalysisTypePremium, analysis.AnalysisType)
		assert.Equal(t, premiumReply, analysis.Interpretation)
		require.NotNil(t, analysis.PsychologicalAnalysis)
		assert.Equal(t, "You are processing a major life change.", *analysis.PsychologicalAnalysis)
		assert.InDelta(t, 0.5, analysis.SentimentScore, 0.0001)

		store.AssertExpectations(t)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Premium analysis is terminal", func(t *testing.T) {
		ai, dreams, store, _, usage, svc := newAnalysisFixture()

		existing := &models.DreamAnalysis{DreamID: dreamID, AnalysisType: models.AnalysisTypePremium, Interpretation: "stored"}
		dreams.On("GetOwned", ctx, userID, dreamID).Return(testDream(dreamID), nil).Once()
		store.On("GetByDreamID", ctx, dreamID).Return(existing, nil).Once()

		analysis, err := svc.PremiumAnalysis(ctx, userID, dreamID)

		require.NoError(t, err)
		assert.Equal(t, existing, analysis)
		ai.AssertNotCalled(t, "CreateChatCompletion", mock.Anything, mock.Anything)
		usage.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Fresh premium request creates a premium row", func(t *testing.T) {
		ai, dreams, store, _, usage, svc := newAnalysisFixture()

		var created *models.DreamAnalysis
		dreams.On("GetOwned", ctx, userID, dreamID).Return(testDream(dreamID), nil).Once()
		store.On("GetByDreamID", ctx, dreamID).Return(nil, services.ErrAnalysisNotFound).Once()
		usage.On("Reserve", ctx, userID, dreamID, models.AnalysisTypePremium).Return(nil).Once()
		ai.On("CreateChatCompletion", ctx, mock.AnythingOfType("openai.ChatCompletionRequest")).
			Return(completion(premiumReply), nil).Once()
		store.On("Create", ctx, mock.AnythingOfType("*models.DreamAnalysis")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*models.DreamAnalysis)
			}).Return(nil).Once()

		analysis, err := svc.PremiumAnalysis(ctx, userID, dreamID)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, created, analysis)
		assert.Equal(t, models.AnalysisTypePremium, analysis.AnalysisType)
		require.NotNil(t, analysis.LucidDreamingTips)
		assert.Equal(t, "Recurring water scenes make a good reality-check trigger.", *analysis.LucidDreamingTips)
	})

	t.Run("Free user premium request only depends on quota", func(t *testing.T) {
		// The route is not premium-gated; Reserve decides.
		ai, dreams, store, _, usage, svc := newAnalysisFixture()

		dreams.On("GetOwned", ctx, userID, dreamID).Return(testDream(dreamID), nil).Once()
		store.On("GetByDreamID", ctx, dreamID).Return(nil, services.ErrAnalysisNotFound).Once()
		usage.On("Reserve", ctx, userID, dreamID, models.AnalysisTypePremium).Return(nil).Once()
		ai.On("CreateChatCompletion", ctx, mock.AnythingOfType("openai.ChatCompletionRequest")).
			Return(completion(premiumReply), nil).Once()
		store.On("Create", ctx, mock.AnythingOfType("*models.DreamAnalysis")).Return(nil).Once()

		analysis, err := svc.PremiumAnalysis(ctx, userID, dreamID)

		require.NoError(t, err)
		assert.Equal(t, models.AnalysisTypePremium, analysis.AnalysisType)
		usage.AssertExpectations(t)
	})
}

func TestDailyPrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing premium prompt is masked for free users", func(t *testing.T) {
		_, _, _, prompts, _, svc := newAnalysisFixture()

		stored := &models.DreamPrompt{PromptText: "secret premium prompt", IsPremium: true, ActiveDate: "2026-08-29"}
		prompts.On("GetByDate", ctx, mock.AnythingOfType("string")).Return(stored, nil).Once()

		prompt, err := svc.DailyPrompt(ctx, false)

		require.NoError(t, err)
		assert.Equal(t, "Upgrade to premium to access today's special dream prompt!", prompt.PromptText)
		assert.Equal(t, "secret premium prompt", stored.PromptText)
	})

	t.Run("Missing prompt is generated and stored", func(t *testing.T) {
		_, _, _, prompts, _, svc := newAnalysisFixture()

		prompts.On("GetByDate", ctx, mock.AnythingOfType("string")).Return(nil, services.ErrPromptNotFound).Once()
		prompts.On("Create", ctx, mock.AnythingOfType("*models.DreamPrompt")).Return(nil).Once()

		prompt, err := svc.DailyPrompt(ctx, true)

		require.NoError(t, err)
		assert.True(t, prompt.IsPremium)
		assert.NotEmpty(t, prompt.PromptText)
		prompts.AssertExpectations(t)
	})
}

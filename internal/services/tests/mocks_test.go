package services_test

import (
	"context"
	"time"

	"github.com/pmarkota/dreamlog-backend/internal/models"
	"github.com/pmarkota/dreamlog-backend/internal/services"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/mock"
)

type MockUsageStore struct {
	mock.Mock
}

func (m *MockUsageStore) IsPremium(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsageStore) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int64, error) {
	args := m.Called(ctx, userID, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUsageStore) Insert(ctx context.Context, userID, dreamID uuid.UUID, analysisType string, usedAt time.Time) error {
	args := m.Called(ctx, userID, dreamID, analysisType, usedAt)
	return args.Error(0)
}

func (m *MockUsageStore) InsertIfUnder(ctx context.Context, userID, dreamID uuid.UUID, analysisType string, usedAt, since time.Time, limit int) (bool, error) {
	args := m.Called(ctx, userID, dreamID, analysisType, usedAt, since, limit)
	return args.Bool(0), args.Error(1)
}

type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

type MockDreamReader struct {
	mock.Mock
}

func (m *MockDreamReader) GetOwned(ctx context.Context, userID, dreamID uuid.UUID) (*services.DreamView, error) {
	args := m.Called(ctx, userID, dreamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.DreamView), args.Error(1)
}

type MockAnalysisStore struct {
	mock.Mock
}

func (m *MockAnalysisStore) GetByDreamID(ctx context.Context, dreamID uuid.UUID) (*models.DreamAnalysis, error) {
	args := m.Called(ctx, dreamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DreamAnalysis), args.Error(1)
}

func (m *MockAnalysisStore) Create(ctx context.Context, analysis *models.DreamAnalysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockAnalysisStore) Update(ctx context.Context, analysis *models.DreamAnalysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

type MockPromptStore struct {
	mock.Mock
}

func (m *MockPromptStore) GetByDate(ctx context.Context, date string) (*models.DreamPrompt, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DreamPrompt), args.Error(1)
}

func (m *MockPromptStore) Create(ctx context.Context, prompt *models.DreamPrompt) error {
	args := m.Called(ctx, prompt)
	return args.Error(0)
}

type MockUsageLimiter struct {
	mock.Mock
}

func (m *MockUsageLimiter) CanUse(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsageLimiter) Remaining(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockUsageLimiter) Reserve(ctx context.Context, userID, dreamID uuid.UUID, analysisType string) error {
	args := m.Called(ctx, userID, dreamID, analysisType)
	return args.Error(0)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/pmarkota/dreamlog-backend/internal/models"
	"github.com/pmarkota/dreamlog-backend/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testWindow = 7 * 24 * time.Hour

func TestCanUse(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Premium user always allowed", func(t *testing.T) {
		store := new(MockUsageStore)
		usage := services.NewAIUsageService(store, 1, testWindow)

		store.On("IsPremium", ctx, userID).Return(true, nil).Once()

		ok, err := usage.CanUse(ctx, userID)

		assert.NoError(t, err)
		assert.True(t, ok)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "CountSince", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Free user with no usage allowed", func(t *testing.T) {
		store := new(MockUsageStore)
		usage := services.NewAIUsageService(store, 1, testWindow)

		store.On("IsPremium", ctx, userID).Return(false, nil).Once()
		store.On("CountSince", ctx, userID, mock.AnythingOfType("time.Time")).Return(int64(0), nil).Once()

		ok, err := usage.CanUse(ctx, userID)

		assert.NoError(t, err)
		assert.True(t, ok)
		store.AssertExpectations(t)
	})

	t.Run("Free user at limit denied", func(t *testing.T) {
		store := new(MockUsageStore)
		usage := services.NewAIUsageService(store, 1, testWindow)

		store.On("IsPremium", ctx, userID).Return(false, nil).Once()
		store.On("CountSince", ctx, userID, mock.AnythingOfType("time.Time")).Return(int64(1), nil).Once()

		ok, err := usage.CanUse(ctx, userID)

		assert.NoError(t, err)
		assert.False(t, ok)
		store.AssertExpectations(t)
	})
}

func TestRemaining(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Premium user gets unlimited sentinel", func(t *testing.T) {
		store := new(MockUsageStore)
		usage := services.NewAIUsageService(store, 1, testWindow)

		store.On("IsPremium", ctx, userID).Return(true, nil).Once()

		remaining, err := usage.Remaining(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, services.UnlimitedUses, remaining)
		store.AssertExpectations(t)
	})

	t.Run("Fresh free user has full allowance", func(t *testing.T) {
		store := new(MockUsageStore)
		usage := services.NewAIUsageService(store, 1, testWindow)

		store.On("IsPremium", ctx, userID).Return(false, nil).Once()
		store.On("CountSince", ctx, userID, mock.AnythingOfType("time.Time")).Return(int64(0), nil).Once()

		remaining, err := usage.Remaining(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, 1, remaining)
		store.AssertExpectations(t)
	})

	t.Run("Remaining floors at zero", func(t *testing.T) {
		store := new(MockUsageStore)
		usage := services.NewAIUsageService(store, 1, testWindow)

		store.On("IsPremium", ctx, userID).Return(false, nil).Once()
		store.On("CountSince", ctx, userID, mock.AnythingOfType("time.Time")).Return(int64(3), nil).Once()

		remaining, err := usage.Remaining(ctx, userID)

		assert.NoError(t, err)
		assert.Equal(t, 0, remaining)
		store.AssertExpectations(t)
	})
}

func TestReserve(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	dreamID := uuid.New()

	t.Run("Premium user inserts unconditionally", func(t *testing.T) {
		store := new(MockUsageStore)
		usage := services.NewAIUsageService(store, 1, testWindow)

		store.On("IsPremium", ctx, userID).Return(true, nil).Once()
		store.On("Insert", ctx, userID, dreamID, models.AnalysisTypePremium, mock.AnythingOfType("time.Time")).Return(nil).Once()

		err := usage.Reserve(ctx, userID, dreamID, models.AnalysisTypePremium)

		assert.NoError(t, err)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "InsertIfUnder", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Free user under limit reserves", func(t *testing.T) {
		store := new(MockUsageStore)
		usage := services.NewAIUsageService(store, 1, testWindow)

		store.On("IsPremium", ctx, userID).Return(false, nil).Once()
		store.On("InsertIfUnder", ctx, userID, dreamID, models.AnalysisTypeBasic,
			mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), 1).Return(true, nil).Once()

		err := usage.Reserve(ctx, userID, dreamID, models.AnalysisTypeBasic)

		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("Free user over limit gets quota error", func(t *testing.T) {
		store := new(MockUsageStore)
		usage := services.NewAIUsageService(store, 1, testWindow)

		store.On("IsPremium", ctx, userID).Return(false, nil).Once()
		store.On("InsertIfUnder", ctx, userID, dreamID, models.AnalysisTypeBasic,
			mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time"), 1).Return(false, nil).Once()

		err := usage.Reserve(ctx, userID, dreamID, models.AnalysisTypeBasic)

		assert.ErrorIs(t, err, services.ErrQuotaExceeded)
		store.AssertExpectations(t)
	})
}

package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// UnlimitedUses is the Remaining sentinel for premium users.
const UnlimitedUses = -1

// ErrQuotaExceeded signals that the free-tier weekly allowance is used up.
var ErrQuotaExceeded = errors.New("weekly AI analysis limit reached")

// AIUsageService enforces the rolling free-tier quota on AI analyses.
// Premium users are unlimited; free users get weeklyLimit analyses per
// trailing window (7x24h computed from the call time, not calendar weeks).
type AIUsageService struct {
	store       UsageStore
	weeklyLimit int
	window      time.Duration
	now         func() time.Time
}

func NewAIUsageService(store UsageStore, weeklyLimit int, window time.Duration) *AIUsageService {
	return &AIUsageService{
		store:       store,
		weeklyLimit: weeklyLimit,
		window:      window,
		now:         time.Now,
	}
}

// CanUse reports whether the user may invoke the AI analysis path right now.
func (s *AIUsageService) CanUse(ctx context.Context, userID uuid.UUID) (bool, error) {
	premium, err := s.store.IsPremium(ctx, userID)
	if err != nil {
		return false, err
	}
	if premium {
		return true, nil
	}

	count, err := s.store.CountSince(ctx, userID, s.now().Add(-s.window))
	if err != nil {
		return false, err
	}
	return count < int64(s.weeklyLimit), nil
}

// Remaining returns the analyses left in the current window, floored at 0,
// or UnlimitedUses for premium users.
func (s *AIUsageService) Remaining(ctx context.Context, userID uuid.UUID) (int, error) {
	premium, err := s.store.IsPremium(ctx, userID)
	if err != nil {
		return 0, err
	}
	if premium {
		return UnlimitedUses, nil
	}

	count, err := s.store.CountSince(ctx, userID, s.now().Add(-s.window))
	if err != nil {
		return 0, err
	}
	remaining := s.weeklyLimit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Reserve consumes one unit of quota for an AI invocation. For free users
// the count check and the usage insert are a single conditional write, so
// concurrent requests cannot both slip under the limit. Returns
// ErrQuotaExceeded when the allowance is exhausted.
func (s *AIUsageService) Reserve(ctx context.Context, userID, dreamID uuid.UUID, analysisType string) error {
	premium, err := s.store.IsPremium(ctx, userID)
	if err != nil {
		return err
	}

	now := s.now()
	if premium {
		return s.store.Insert(ctx, userID, dreamID, analysisType, now)
	}

	inserted, err := s.store.InsertIfUnder(ctx, userID, dreamID, analysisType, now, now.Add(-s.window), s.weeklyLimit)
	if err != nil {
		return err
	}
	if !inserted {
		return ErrQuotaExceeded
	}
	return nil
}

package study

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/domain/leitner"
)

// ReviewCounter counts a user's reviews in a half-open time range.
type ReviewCounter interface {
	CountBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error)
}

// DailyStatus is the user's standing against the daily review limit.
type DailyStatus struct {
	Completed    int  `json:"today_reviews"`
	Limit        int  `json:"daily_limit"`
	Remaining    int  `json:"remaining_capacity"`
	LimitReached bool `json:"daily_limit_reached"`
}

// DailyLimitTracker derives today's review count from the review log. Nothing
// is persisted; a new calendar day in the policy timezone starts at zero.
type DailyLimitTracker struct {
	reviews ReviewCounter
	policy  *leitner.Policy
}

// NewDailyLimitTracker creates a tracker.
func NewDailyLimitTracker(reviews ReviewCounter, policy *leitner.Policy) *DailyLimitTracker {
	if reviews == nil {
		panic("reviews cannot be nil")
	}
	if policy == nil {
		panic("policy cannot be nil")
	}
	return &DailyLimitTracker{reviews: reviews, policy: policy}
}

// CompletedToday counts reviews in [start of today, start of tomorrow).
func (t *DailyLimitTracker) CompletedToday(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	today := t.policy.Today(now)
	n, err := t.reviews.CountBetween(ctx, userID, today.Start, today.End)
	if err != nil {
		return 0, fmt.Errorf("failed to count today's reviews: %w", err)
	}
	return n, nil
}

// Status returns the full daily-limit picture for userID.
func (t *DailyLimitTracker) Status(ctx context.Context, userID uuid.UUID, now time.Time) (DailyStatus, error) {
	completed, err := t.CompletedToday(ctx, userID, now)
	if err != nil {
		return DailyStatus{}, err
	}
	return t.status(completed), nil
}

func (t *DailyLimitTracker) status(completed int) DailyStatus {
	return DailyStatus{
		Completed:    completed,
		Limit:        t.policy.DailyLimit,
		Remaining:    t.policy.RemainingCapacity(completed),
		LimitReached: t.policy.IsLimitReached(completed),
	}
}

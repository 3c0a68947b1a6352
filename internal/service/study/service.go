package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/phrazzld/leitner-api/internal/domain/leitner"
	"github.com/phrazzld/leitner-api/internal/store"
)

// FlashcardSource lists the cards that can be scheduled for a user.
type FlashcardSource interface {
	ListSchedulable(ctx context.Context, userID uuid.UUID, deckID *uuid.UUID) ([]*domain.Flashcard, error)
}

// ReviewSource is the read side of the review log.
type ReviewSource interface {
	ReviewCounter
	Totals(ctx context.Context, userID uuid.UUID) (store.ReviewTotals, error)
	TimesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error)
}

// StreakLookback bounds how far back the review log is read for streaks.
const StreakLookback = 366 * 24 * time.Hour

// SessionOptions narrows a study session.
type SessionOptions struct {
	DeckID         *uuid.UUID
	IncludeCatchup bool
}

// SessionCard is the view of a flashcard handed to a studying user.
type SessionCard struct {
	ID       uuid.UUID  `json:"id"`
	Question string     `json:"question"`
	Answer   string     `json:"answer"`
	DeckName string     `json:"deck_name"`
	Box      domain.Box `json:"box"`
	DueDate  time.Time  `json:"due_date"`
}

// SessionMetadata describes how a session relates to the user's queue.
type SessionMetadata struct {
	TotalDue              int `json:"total_due"`
	SessionLimit          int `json:"session_limit"`
	CatchupAvailable      int `json:"catchup_available"`
	DailyReviewsCompleted int `json:"daily_reviews_completed"`
	DailyLimit            int `json:"daily_limit"`
}

// Session is one batch of cards to review. LimitReached is set, with no
// cards, once the daily limit has been hit.
type Session struct {
	SessionID    uuid.UUID       `json:"session_id"`
	Flashcards   []SessionCard   `json:"flashcards"`
	Metadata     SessionMetadata `json:"metadata"`
	LimitReached bool            `json:"limit_reached"`
}

// Progress summarises a user's study history.
type Progress struct {
	DailyStatus
	leitner.Streak
	TotalReviews int     `json:"total_reviews"`
	AccuracyRate float64 `json:"accuracy_rate"`
}

// StudyService builds queues, sessions and progress reports.
type StudyService interface {
	// QueueSummary returns the urgency aggregates for the user's queue,
	// optionally restricted to one deck. Results may come from the summary
	// cache.
	QueueSummary(ctx context.Context, userID uuid.UUID, deckID *uuid.UUID) (*leitner.QueueSummary, error)

	// BuildSession selects the next cards to study. Reaching the daily limit
	// is not an error: the session comes back empty with LimitReached set.
	BuildSession(ctx context.Context, userID uuid.UUID, opts SessionOptions) (*Session, error)

	// Progress reports today's count, streaks and accuracy.
	Progress(ctx context.Context, userID uuid.UUID) (*Progress, error)
}

// ErrLoadQueue indicates the queue inputs could not be read.
var ErrLoadQueue = errors.New("failed to load review queue")

// ServiceError wraps errors from the study service with the operation that
// produced them.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{Operation: operation, Message: message, Err: err}
}

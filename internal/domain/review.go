package domain

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// MaxResponseTimeMs is the largest response time the reviews table can hold.
const MaxResponseTimeMs = math.MaxInt32

// Review validation errors
var (
	ErrReviewIDEmpty          = errors.New("review ID cannot be empty")
	ErrReviewFlashcardIDEmpty = errors.New("review flashcard ID cannot be empty")
	ErrReviewUserIDEmpty      = errors.New("review user ID cannot be empty")
)

// Review is an immutable record of one answer to one flashcard.
type Review struct {
	ID             uuid.UUID `json:"id"`
	FlashcardID    uuid.UUID `json:"flashcard_id"`
	UserID         uuid.UUID `json:"user_id"`
	IsCorrect      bool      `json:"is_correct"`
	ResponseTimeMs int       `json:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewReview creates a review recorded at the given instant.
func NewReview(
	flashcardID, userID uuid.UUID,
	isCorrect bool,
	responseTimeMs int,
	reviewedAt time.Time,
) (*Review, error) {
	review := &Review{
		ID:             uuid.New(),
		FlashcardID:    flashcardID,
		UserID:         userID,
		IsCorrect:      isCorrect,
		ResponseTimeMs: responseTimeMs,
		CreatedAt:      reviewedAt,
	}

	if err := review.Validate(); err != nil {
		return nil, err
	}

	return review, nil
}

// Validate checks if the Review has valid data.
func (r *Review) Validate() error {
	if r.ID == uuid.Nil {
		return ErrReviewIDEmpty
	}
	if r.FlashcardID == uuid.Nil {
		return ErrReviewFlashcardIDEmpty
	}
	if r.UserID == uuid.Nil {
		return ErrReviewUserIDEmpty
	}
	if r.ResponseTimeMs < 0 || r.ResponseTimeMs > MaxResponseTimeMs {
		return ErrInvalidResponseTime
	}
	return nil
}

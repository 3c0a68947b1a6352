package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/phrazzld/leitner-api/internal/service/review"
)

// SubmitReviewRequest is the body of POST /api/reviews. IsCorrect is a
// pointer so an omitted answer is distinguishable from false.
type SubmitReviewRequest struct {
	FlashcardID    string `json:"flashcard_id"     validate:"required,uuid"`
	IsCorrect      *bool  `json:"is_correct"       validate:"required"`
	ResponseTimeMs int    `json:"response_time_ms" validate:"gte=0,lte=2147483647"`
}

// NextReviewResponse is the schedule a review left the card on.
// NextDueDate is null once the card has graduated.
type NextReviewResponse struct {
	Box         domain.Box `json:"box"`
	NextDueDate *time.Time `json:"next_due_date"`
}

// SubmitReviewResponse is the body returned for a recorded review.
type SubmitReviewResponse struct {
	ID             uuid.UUID          `json:"id"`
	FlashcardID    uuid.UUID          `json:"flashcard_id"`
	IsCorrect      bool               `json:"is_correct"`
	ResponseTimeMs int                `json:"response_time_ms"`
	CreatedAt      time.Time          `json:"created_at"`
	PreviousBox    domain.Box         `json:"previous_box"`
	NextReview     NextReviewResponse `json:"next_review"`
}

func submitReviewResponse(res *review.ReviewResult) SubmitReviewResponse {
	next := NextReviewResponse{Box: res.NextReview.Box}
	if res.NextReview.Box != domain.Graduated {
		due := res.NextReview.NextDueDate
		next.NextDueDate = &due
	}
	return SubmitReviewResponse{
		ID:             res.Review.ID,
		FlashcardID:    res.Review.FlashcardID,
		IsCorrect:      res.Review.IsCorrect,
		ResponseTimeMs: res.Review.ResponseTimeMs,
		CreatedAt:      res.Review.CreatedAt,
		PreviousBox:    res.PreviousBox,
		NextReview:     next,
	}
}

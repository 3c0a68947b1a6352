package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewReview(t *testing.T) {
	t.Parallel()

	flashcardID := uuid.New()
	userID := uuid.New()
	at := time.Date(2025, 5, 2, 8, 30, 0, 0, time.UTC)

	review, err := NewReview(flashcardID, userID, true, 1500, at)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if review.ID == uuid.Nil {
		t.Error("Expected non-nil review ID")
	}
	if !review.CreatedAt.Equal(at) {
		t.Errorf("Expected created_at %v, got %v", at, review.CreatedAt)
	}

	if _, err := NewReview(flashcardID, userID, false, -1, at); err != ErrInvalidResponseTime {
		t.Errorf("Expected ErrInvalidResponseTime, got %v", err)
	}
	if _, err := NewReview(flashcardID, userID, false, MaxResponseTimeMs+1, at); err != ErrInvalidResponseTime {
		t.Errorf("Expected ErrInvalidResponseTime for oversized response time, got %v", err)
	}
	if _, err := NewReview(flashcardID, userID, false, MaxResponseTimeMs, at); err != nil {
		t.Errorf("Expected largest storable response time to be accepted, got %v", err)
	}
	if _, err := NewReview(uuid.Nil, userID, false, 0, at); err != ErrReviewFlashcardIDEmpty {
		t.Errorf("Expected ErrReviewFlashcardIDEmpty, got %v", err)
	}
	if _, err := NewReview(flashcardID, uuid.Nil, false, 0, at); err != ErrReviewUserIDEmpty {
		t.Errorf("Expected ErrReviewUserIDEmpty, got %v", err)
	}
}

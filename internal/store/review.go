package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/domain"
)

// ReviewListOptions filters and paginates review history queries.
type ReviewListOptions struct {
	FlashcardID *uuid.UUID
	Limit       int
	Offset      int
}

// ReviewTotals aggregates a user's whole review log.
type ReviewTotals struct {
	Total   int
	Correct int
}

// ReviewStore defines persistence for the append-only review log. There is no
// update or delete: reviews are immutable once written.
type ReviewStore interface {
	// Create appends a review. Returns ErrInvalidEntity for reviews that fail
	// domain validation or database constraints.
	Create(ctx context.Context, review *domain.Review) error

	// CountBetween counts the user's reviews with created_at in [start, end).
	CountBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) (int, error)

	// List returns the user's reviews newest first.
	List(ctx context.Context, userID uuid.UUID, opts ReviewListOptions) ([]*domain.Review, error)

	// Count returns how many reviews List would return without pagination.
	Count(ctx context.Context, userID uuid.UUID, flashcardID *uuid.UUID) (int, error)

	// Totals returns the user's total and correct review counts.
	Totals(ctx context.Context, userID uuid.UUID) (ReviewTotals, error)

	// TimesSince returns the created_at of every review by the user at or
	// after since, newest first.
	TimesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error)

	// WithTx returns a ReviewStore bound to tx.
	WithTx(tx *sql.Tx) ReviewStore
}

package review

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/phrazzld/leitner-api/internal/store"
)

// FlashcardRepository is the flashcard access the review service needs.
type FlashcardRepository interface {
	GetForUser(ctx context.Context, userID, flashcardID uuid.UUID) (*domain.Flashcard, error)
	UpdateSchedule(ctx context.Context, flashcardID uuid.UUID, expected, next domain.Schedule, updatedAt time.Time) error

	// WithTx returns a repository bound to tx.
	WithTx(tx *sql.Tx) FlashcardRepository

	// DB returns the pool transactions are started on.
	DB() *sql.DB
}

// ReviewRepository is the review log access the review service needs.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	List(ctx context.Context, userID uuid.UUID, opts store.ReviewListOptions) ([]*domain.Review, error)
	Count(ctx context.Context, userID uuid.UUID, flashcardID *uuid.UUID) (int, error)

	// WithTx returns a repository bound to tx.
	WithTx(tx *sql.Tx) ReviewRepository
}

// NewFlashcardRepositoryAdapter lets a store.FlashcardStore serve as a
// FlashcardRepository.
func NewFlashcardRepositoryAdapter(flashcards store.FlashcardStore, db *sql.DB) FlashcardRepository {
	return &flashcardRepositoryAdapter{flashcards: flashcards, db: db}
}

type flashcardRepositoryAdapter struct {
	flashcards store.FlashcardStore
	db         *sql.DB
}

func (a *flashcardRepositoryAdapter) GetForUser(
	ctx context.Context,
	userID, flashcardID uuid.UUID,
) (*domain.Flashcard, error) {
	return a.flashcards.GetForUser(ctx, userID, flashcardID)
}

func (a *flashcardRepositoryAdapter) UpdateSchedule(
	ctx context.Context,
	flashcardID uuid.UUID,
	expected, next domain.Schedule,
	updatedAt time.Time,
) error {
	return a.flashcards.UpdateSchedule(ctx, flashcardID, expected, next, updatedAt)
}

func (a *flashcardRepositoryAdapter) WithTx(tx *sql.Tx) FlashcardRepository {
	return &flashcardRepositoryAdapter{flashcards: a.flashcards.WithTx(tx), db: a.db}
}

func (a *flashcardRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewReviewRepositoryAdapter lets a store.ReviewStore serve as a
// ReviewRepository.
func NewReviewRepositoryAdapter(reviews store.ReviewStore) ReviewRepository {
	return &reviewRepositoryAdapter{reviews: reviews}
}

type reviewRepositoryAdapter struct {
	reviews store.ReviewStore
}

func (a *reviewRepositoryAdapter) Create(ctx context.Context, review *domain.Review) error {
	return a.reviews.Create(ctx, review)
}

func (a *reviewRepositoryAdapter) List(
	ctx context.Context,
	userID uuid.UUID,
	opts store.ReviewListOptions,
) ([]*domain.Review, error) {
	return a.reviews.List(ctx, userID, opts)
}

func (a *reviewRepositoryAdapter) Count(ctx context.Context, userID uuid.UUID, flashcardID *uuid.UUID) (int, error) {
	return a.reviews.Count(ctx, userID, flashcardID)
}

func (a *reviewRepositoryAdapter) WithTx(tx *sql.Tx) ReviewRepository {
	return &reviewRepositoryAdapter{reviews: a.reviews.WithTx(tx)}
}

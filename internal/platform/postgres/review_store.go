package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/phrazzld/leitner-api/internal/store"
)

// PostgresReviewStore implements store.ReviewStore.
type PostgresReviewStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewStore creates a review store over db.
func NewPostgresReviewStore(db store.DBTX, logger *slog.Logger) *PostgresReviewStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresReviewStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_store")),
	}
}

var _ store.ReviewStore = (*PostgresReviewStore)(nil)

// WithTx implements store.ReviewStore.
func (s *PostgresReviewStore) WithTx(tx *sql.Tx) store.ReviewStore {
	return &PostgresReviewStore{db: tx, logger: s.logger}
}

// Create implements store.ReviewStore.
func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.Review) error {
	if err := review.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (id, flashcard_id, user_id, is_correct, response_time_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		review.ID, review.FlashcardID, review.UserID, review.IsCorrect,
		review.ResponseTimeMs, review.CreatedAt,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to insert review",
			slog.String("review_id", review.ID.String()),
			slog.String("flashcard_id", review.FlashcardID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// CountBetween implements store.ReviewStore.
func (s *PostgresReviewStore) CountBetween(
	ctx context.Context,
	userID uuid.UUID,
	start, end time.Time,
) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reviews
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`,
		userID, start, end,
	).Scan(&n)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count reviews",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	return n, nil
}

// List implements store.ReviewStore.
func (s *PostgresReviewStore) List(
	ctx context.Context,
	userID uuid.UUID,
	opts store.ReviewListOptions,
) ([]*domain.Review, error) {
	query := `
		SELECT id, flashcard_id, user_id, is_correct, response_time_ms, created_at
		FROM reviews
		WHERE user_id = $1`
	args := []any{userID}
	if opts.FlashcardID != nil {
		args = append(args, *opts.FlashcardID)
		query += fmt.Sprintf(" AND flashcard_id = $%d", len(args))
	}
	args = append(args, opts.Limit, opts.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list reviews",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	reviews := make([]*domain.Review, 0, opts.Limit)
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.FlashcardID, &r.UserID, &r.IsCorrect, &r.ResponseTimeMs, &r.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		reviews = append(reviews, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return reviews, nil
}

// Count implements store.ReviewStore.
func (s *PostgresReviewStore) Count(ctx context.Context, userID uuid.UUID, flashcardID *uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE user_id = $1`
	args := []any{userID}
	if flashcardID != nil {
		query += ` AND flashcard_id = $2`
		args = append(args, *flashcardID)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}

// Totals implements store.ReviewStore.
func (s *PostgresReviewStore) Totals(ctx context.Context, userID uuid.UUID) (store.ReviewTotals, error) {
	var t store.ReviewTotals
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_correct)
		FROM reviews WHERE user_id = $1`,
		userID,
	).Scan(&t.Total, &t.Correct)
	if err != nil {
		return store.ReviewTotals{}, MapError(err)
	}
	return t, nil
}

// TimesSince implements store.ReviewStore.
func (s *PostgresReviewStore) TimesSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT created_at FROM reviews
		WHERE user_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`,
		userID, since,
	)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var times []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, MapError(err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return times, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/phrazzld/leitner-api/internal/store"
)

const flashcardColumns = `f.id, f.deck_id, d.owner_id, d.name, f.question, f.answer,
	f.status, f.box, f.next_due_date, f.created_at, f.updated_at`

// PostgresFlashcardStore implements store.FlashcardStore.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresFlashcardStore creates a flashcard store over db, which may be a
// pool or a transaction. A nil logger falls back to slog.Default().
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
	}
}

var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// WithTx implements store.FlashcardStore.
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) store.FlashcardStore {
	return &PostgresFlashcardStore{db: tx, logger: s.logger}
}

// Create implements store.FlashcardStore.
func (s *PostgresFlashcardStore) Create(ctx context.Context, card *domain.Flashcard) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flashcards
			(id, deck_id, question, answer, status, box, next_due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		card.ID, card.DeckID, card.Question, card.Answer, string(card.Status),
		card.Box, card.NextDueDate, card.CreatedAt, card.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %v", store.ErrDeckNotFound, err)
		}
		s.logger.ErrorContext(ctx, "failed to insert flashcard",
			slog.String("flashcard_id", card.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// GetForUser implements store.FlashcardStore.
func (s *PostgresFlashcardStore) GetForUser(
	ctx context.Context,
	userID, flashcardID uuid.UUID,
) (*domain.Flashcard, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+flashcardColumns+`
		FROM flashcards f
		JOIN decks d ON d.id = f.deck_id
		WHERE f.id = $1 AND d.owner_id = $2 AND d.deleted_at IS NULL`,
		flashcardID, userID,
	)

	card, err := scanFlashcard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrFlashcardNotFound
		}
		s.logger.ErrorContext(ctx, "failed to get flashcard",
			slog.String("flashcard_id", flashcardID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return card, nil
}

// ListSchedulable implements store.FlashcardStore.
func (s *PostgresFlashcardStore) ListSchedulable(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
) ([]*domain.Flashcard, error) {
	query := `
		SELECT ` + flashcardColumns + `
		FROM flashcards f
		JOIN decks d ON d.id = f.deck_id
		WHERE d.owner_id = $1
		  AND d.deleted_at IS NULL
		  AND f.status = 'accepted'
		  AND f.box <> 'graduated'`
	args := []any{userID}
	if deckID != nil {
		query += ` AND f.deck_id = $2`
		args = append(args, *deckID)
	}
	query += ` ORDER BY f.next_due_date ASC, f.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list schedulable flashcards",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Flashcard, 0)
	for rows.Next() {
		card, err := scanFlashcard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// UpdateSchedule implements store.FlashcardStore. The WHERE clause carries the
// expected box and due date so a concurrent writer makes this a no-op.
func (s *PostgresFlashcardStore) UpdateSchedule(
	ctx context.Context,
	flashcardID uuid.UUID,
	expected, next domain.Schedule,
	updatedAt time.Time,
) error {
	if !next.Box.IsValid() {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidBox)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE flashcards
		SET box = $1, next_due_date = $2, updated_at = $3
		WHERE id = $4 AND box = $5 AND next_due_date = $6`,
		next.Box, next.NextDueDate, updatedAt,
		flashcardID, expected.Box, expected.NextDueDate,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update flashcard schedule",
			slog.String("flashcard_id", flashcardID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrConflict); err != nil {
		if errors.Is(err, store.ErrConflict) {
			s.logger.DebugContext(ctx, "flashcard schedule changed concurrently",
				slog.String("flashcard_id", flashcardID.String()))
		}
		return err
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlashcard(row rowScanner) (*domain.Flashcard, error) {
	var (
		card   domain.Flashcard
		status string
	)
	if err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.OwnerID,
		&card.DeckName,
		&card.Question,
		&card.Answer,
		&status,
		&card.Box,
		&card.NextDueDate,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		return nil, err
	}
	card.Status = domain.FlashcardStatus(status)
	return &card, nil
}

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/domain"
)

// FlashcardStore defines flashcard persistence. Ownership is established
// through the flashcard's deck: a card is visible to a user only when its deck
// is owned by that user and has not been deleted.
type FlashcardStore interface {
	// Create inserts a new flashcard. The deck must exist.
	// Returns ErrDeckNotFound when it does not.
	Create(ctx context.Context, card *domain.Flashcard) error

	// GetForUser returns the flashcard with the given id if userID owns it.
	// Returns ErrFlashcardNotFound when the card is missing or owned by
	// someone else; the two cases are indistinguishable to callers.
	GetForUser(ctx context.Context, userID, flashcardID uuid.UUID) (*domain.Flashcard, error)

	// ListSchedulable returns the user's accepted, non-graduated flashcards.
	// When deckID is non-nil only cards from that deck are returned.
	// Results are ordered by next_due_date ascending.
	ListSchedulable(ctx context.Context, userID uuid.UUID, deckID *uuid.UUID) ([]*domain.Flashcard, error)

	// UpdateSchedule moves the card from expected to next. The write only
	// happens if the stored box and next_due_date still equal expected;
	// otherwise ErrConflict is returned and nothing changes.
	//
	// Run it through WithTx together with the review insert so both writes
	// commit or roll back as one.
	UpdateSchedule(ctx context.Context, flashcardID uuid.UUID, expected, next domain.Schedule, updatedAt time.Time) error

	// WithTx returns a FlashcardStore bound to tx.
	WithTx(tx *sql.Tx) FlashcardStore
}

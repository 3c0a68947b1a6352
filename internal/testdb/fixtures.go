//go:build integration

package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/phrazzld/leitner-api/internal/store"
	"github.com/stretchr/testify/require"
)

// InsertDeck creates a live deck owned by ownerID and returns its id.
func InsertDeck(t *testing.T, db store.DBTX, ownerID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO decks (id, owner_id, name) VALUES ($1, $2, $3)`,
		id, ownerID, name)
	require.NoError(t, err, "failed to insert deck")
	return id
}

// SoftDeleteDeck marks a deck deleted.
func SoftDeleteDeck(t *testing.T, db store.DBTX, deckID uuid.UUID) {
	t.Helper()

	_, err := db.ExecContext(context.Background(),
		`UPDATE decks SET deleted_at = NOW() WHERE id = $1`, deckID)
	require.NoError(t, err, "failed to delete deck")
}

// InsertFlashcard creates an accepted flashcard in box, due at due.
func InsertFlashcard(
	t *testing.T,
	db store.DBTX,
	deckID uuid.UUID,
	box domain.Box,
	due time.Time,
) uuid.UUID {
	t.Helper()

	id := uuid.New()
	created := due.Add(-time.Hour)
	_, err := db.ExecContext(context.Background(), `
		INSERT INTO flashcards
			(id, deck_id, question, answer, status, box, next_due_date, created_at, updated_at)
		VALUES ($1, $2, 'question', 'answer', 'accepted', $3, $4, $5, $5)`,
		id, deckID, box, due, created)
	require.NoError(t, err, "failed to insert flashcard")
	return id
}

// CountReviews returns the number of reviews stored for flashcardID.
func CountReviews(t *testing.T, db store.DBTX, flashcardID uuid.UUID) int {
	t.Helper()

	var n int
	err := db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM reviews WHERE flashcard_id = $1`, flashcardID).Scan(&n)
	require.NoError(t, err, "failed to count reviews")
	return n
}

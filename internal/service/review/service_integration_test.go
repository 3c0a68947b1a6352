//go:build integration

package review_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/clock"
	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/phrazzld/leitner-api/internal/domain/leitner"
	"github.com/phrazzld/leitner-api/internal/platform/postgres"
	"github.com/phrazzld/leitner-api/internal/service/review"
	"github.com/phrazzld/leitner-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The service opens its own transactions, so fixtures here are committed and
// removed through the deck's cascading delete.
func TestReviewService_Integration(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	owner := uuid.New()
	deckID := testdb.InsertDeck(t, db, owner, "Integration")
	t.Cleanup(func() { _, _ = db.Exec(`DELETE FROM decks WHERE id = $1`, deckID) })

	svc := review.NewReviewService(
		review.NewFlashcardRepositoryAdapter(postgres.NewPostgresFlashcardStore(db, nil), db),
		review.NewReviewRepositoryAdapter(postgres.NewPostgresReviewStore(db, nil)),
		leitner.NewDefaultPolicy(),
		clock.Func(func() time.Time { return now }),
		nil, nil, 3, nil,
	)

	t.Run("box2 correct moves to box3", func(t *testing.T) {
		cardID := testdb.InsertFlashcard(t, db, deckID, domain.Box2, now.Add(-time.Hour))

		result, err := svc.SubmitReview(ctx, owner, review.SubmitReviewInput{
			FlashcardID: cardID,
			IsCorrect:   boolPtr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.Box3, result.NextReview.Box)
		assert.True(t, now.Add(7*24*time.Hour).Equal(result.NextReview.NextDueDate))
		assert.Equal(t, 1, testdb.CountReviews(t, db, cardID))
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		cardID := testdb.InsertFlashcard(t, db, deckID, domain.Box1, now)

		_, err := svc.SubmitReview(ctx, uuid.New(), review.SubmitReviewInput{
			FlashcardID: cardID,
			IsCorrect:   boolPtr(true),
		})
		assert.ErrorIs(t, err, review.ErrFlashcardNotFound)
		assert.Equal(t, 0, testdb.CountReviews(t, db, cardID))
	})

	t.Run("concurrent submits serialize", func(t *testing.T) {
		cardID := testdb.InsertFlashcard(t, db, deckID, domain.Box1, now.Add(-time.Hour))

		var wg sync.WaitGroup
		results := make([]*review.ReviewResult, 2)
		errs := make([]error, 2)
		for i := range 2 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = svc.SubmitReview(ctx, owner, review.SubmitReviewInput{
					FlashcardID: cardID,
					IsCorrect:   boolPtr(true),
				})
			}()
		}
		wg.Wait()

		succeeded := 0
		boxes := map[domain.Box]bool{}
		for i := range 2 {
			if errs[i] == nil {
				succeeded++
				boxes[results[i].NextReview.Box] = true
			}
		}
		// Every committed review corresponds to exactly one transition.
		assert.Equal(t, succeeded, testdb.CountReviews(t, db, cardID))
		if succeeded == 2 {
			assert.True(t, boxes[domain.Box2] && boxes[domain.Box3], "second submit must build on the first")
		}
	})
}

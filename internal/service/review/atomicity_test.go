package review_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/clock"
	"github.com/phrazzld/leitner-api/internal/domain/leitner"
	"github.com/phrazzld/leitner-api/internal/platform/postgres"
	"github.com/phrazzld/leitner-api/internal/service/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var flashcardRowColumns = []string{
	"id", "deck_id", "owner_id", "name", "question", "answer",
	"status", "box", "next_due_date", "created_at", "updated_at",
}

// newPostgresBackedService wires the service to the real postgres stores over
// a sqlmock connection so the exact statement sequence can be asserted.
func newPostgresBackedService(t *testing.T) (review.ReviewService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := review.NewReviewService(
		review.NewFlashcardRepositoryAdapter(postgres.NewPostgresFlashcardStore(db, nil), db),
		review.NewReviewRepositoryAdapter(postgres.NewPostgresReviewStore(db, nil)),
		leitner.NewDefaultPolicy(),
		clock.NewManual(reviewTime),
		nil, nil, 3, nil,
	)
	return svc, mock
}

func expectCardRow(mock sqlmock.Sqlmock, cardID, userID uuid.UUID, box string, due time.Time) {
	mock.ExpectQuery(`FROM flashcards f`).
		WithArgs(cardID, userID).
		WillReturnRows(sqlmock.NewRows(flashcardRowColumns).AddRow(
			cardID.String(), uuid.NewString(), userID.String(), "Geography", "q", "a",
			"accepted", box, due, due.Add(-time.Hour), due.Add(-time.Hour),
		))
}

func TestSubmitReview_FailureBetweenInsertAndUpdateRollsBack(t *testing.T) {
	svc, mock := newPostgresBackedService(t)
	userID, cardID := uuid.New(), uuid.New()
	due := reviewTime.Add(-time.Hour).Truncate(time.Microsecond)

	mock.ExpectBegin()
	expectCardRow(mock, cardID, userID, "box2", due)
	mock.ExpectExec(`INSERT INTO reviews`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE flashcards`).WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	_, err := svc.SubmitReview(context.Background(), userID, review.SubmitReviewInput{
		FlashcardID: cardID,
		IsCorrect:   boolPtr(true),
	})

	require.Error(t, err)
	assert.False(t, errors.Is(err, review.ErrConcurrentUpdate))
	// No ExpectCommit: the inserted review must not survive.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitReview_ConditionalUpdateCarriesExpectedState(t *testing.T) {
	svc, mock := newPostgresBackedService(t)
	userID, cardID := uuid.New(), uuid.New()
	now := reviewTime.Truncate(time.Microsecond)
	due := now.Add(-time.Hour)

	mock.ExpectBegin()
	expectCardRow(mock, cardID, userID, "box2", due)
	mock.ExpectExec(`INSERT INTO reviews`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE flashcards\s+SET box = \$1, next_due_date = \$2, updated_at = \$3\s+WHERE id = \$4 AND box = \$5 AND next_due_date = \$6`).
		WithArgs("box3", now.Add(7*24*time.Hour), now, cardID, "box2", due).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.SubmitReview(context.Background(), userID, review.SubmitReviewInput{
		FlashcardID:    cardID,
		IsCorrect:      boolPtr(true),
		ResponseTimeMs: 900,
	})

	require.NoError(t, err)
	assert.Equal(t, "box3", string(result.NextReview.Box))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitReview_LostUpdateIsRetriedFromFreshRead(t *testing.T) {
	svc, mock := newPostgresBackedService(t)
	userID, cardID := uuid.New(), uuid.New()
	now := reviewTime.Truncate(time.Microsecond)

	// A concurrent submit moved the card box1 -> box2 between our read and write.
	mock.ExpectBegin()
	expectCardRow(mock, cardID, userID, "box1", now.Add(-time.Hour))
	mock.ExpectExec(`INSERT INTO reviews`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE flashcards`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	mock.ExpectBegin()
	expectCardRow(mock, cardID, userID, "box2", now.Add(72*time.Hour))
	mock.ExpectExec(`INSERT INTO reviews`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE flashcards`).
		WithArgs("box3", now.Add(7*24*time.Hour), now, cardID, "box2", now.Add(72*time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := svc.SubmitReview(context.Background(), userID, review.SubmitReviewInput{
		FlashcardID: cardID,
		IsCorrect:   boolPtr(true),
	})

	require.NoError(t, err)
	assert.Equal(t, "box2", string(result.PreviousBox))
	assert.Equal(t, "box3", string(result.NextReview.Box))
	assert.NoError(t, mock.ExpectationsWereMet())
}

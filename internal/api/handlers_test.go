package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/api/shared"
	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/phrazzld/leitner-api/internal/domain/leitner"
	"github.com/phrazzld/leitner-api/internal/service/review"
	"github.com/phrazzld/leitner-api/internal/service/study"
	"github.com/phrazzld/leitner-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var reviewedAt = time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC)

type testServer struct {
	router  chi.Router
	study   *mockStudyService
	reviews *mockReviewService
	userID  uuid.UUID
}

// newTestServer mounts the handlers with a fake auth step that trusts
// X-Test-User when present.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		study:   &mockStudyService{},
		reviews: &mockReviewService{},
		userID:  uuid.New(),
	}
	r := chi.NewRouter()
	r.NotFound(NotFound)
	r.Route("/api", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := context.WithValue(req.Context(), shared.TraceIDKey, "trace-test")
				if req.Header.Get("X-No-User") == "" {
					ctx = shared.WithUserID(ctx, ts.userID)
				}
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		Mount(r, NewStudyHandler(ts.study, nil), NewReviewHandler(ts.reviews, nil))
	})
	ts.router = r
	t.Cleanup(func() {
		ts.study.AssertExpectations(t)
		ts.reviews.AssertExpectations(t)
	})
	return ts
}

func (ts *testServer) do(method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestGetSession(t *testing.T) {
	ts := newTestServer(t)
	deckID := uuid.New()
	cardID := uuid.New()

	session := &study.Session{
		SessionID: uuid.New(),
		Flashcards: []study.SessionCard{{
			ID: cardID, Question: "q", Answer: "a", DeckName: "Go", Box: domain.Box2, DueDate: reviewedAt,
		}},
		Metadata: study.SessionMetadata{TotalDue: 4, SessionLimit: 20, CatchupAvailable: 2, DailyLimit: 100},
	}
	ts.study.On("BuildSession", mock.Anything, ts.userID, study.SessionOptions{
		DeckID: &deckID, IncludeCatchup: true,
	}).Return(session, nil).Once()

	w := ts.do(http.MethodGet, "/api/study/session?deck_id="+deckID.String()+"&include_catchup=true", "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got study.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Flashcards, 1)
	assert.Equal(t, cardID, got.Flashcards[0].ID)
	assert.Equal(t, 2, got.Metadata.CatchupAvailable)
	assert.False(t, got.LimitReached)
}

func TestGetSession_LimitReachedIsOK(t *testing.T) {
	ts := newTestServer(t)
	ts.study.On("BuildSession", mock.Anything, ts.userID, study.SessionOptions{}).
		Return(&study.Session{
			SessionID:    uuid.New(),
			Flashcards:   []study.SessionCard{},
			Metadata:     study.SessionMetadata{DailyReviewsCompleted: 100, DailyLimit: 100},
			LimitReached: true,
		}, nil).Once()

	w := ts.do(http.MethodGet, "/api/study/session", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"limit_reached":true`)
	assert.Contains(t, w.Body.String(), `"flashcards":[]`)
}

func TestGetSession_BadQuery(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/study/session?deck_id=nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid ID format", decodeError(t, w).Error)

	w = ts.do(http.MethodGet, "/api/study/session?include_catchup=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSession_ServiceFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.study.On("BuildSession", mock.Anything, ts.userID, mock.Anything).
		Return(nil, fmt.Errorf("load: %w", study.ErrLoadQueue)).Once()

	w := ts.do(http.MethodGet, "/api/study/session", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "An unexpected error occurred", body.Error)
	assert.Equal(t, "trace-test", body.TraceID)
}

func TestGetQueue(t *testing.T) {
	ts := newTestServer(t)
	summary := &leitner.QueueSummary{
		DueNow: 2, DueToday: 3, DueTomorrow: 1, Overdue: 5,
		CatchupAvailable: true, CatchupCount: 5,
		TodayReviews: 10, DailyLimit: 100, RemainingCapacity: 90,
	}
	ts.study.On("QueueSummary", mock.Anything, ts.userID, (*uuid.UUID)(nil)).Return(summary, nil).Once()

	w := ts.do(http.MethodGet, "/api/study/queue", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got leitner.QueueSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, *summary, got)
}

func TestGetProgress(t *testing.T) {
	ts := newTestServer(t)
	progress := &study.Progress{TotalReviews: 40, AccuracyRate: 0.75}
	progress.Current = 3
	progress.Longest = 9
	ts.study.On("Progress", mock.Anything, ts.userID).Return(progress, nil).Once()

	w := ts.do(http.MethodGet, "/api/study/progress", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(3), got["streak_days"])
	assert.Equal(t, float64(9), got["longest_streak"])
	assert.Equal(t, float64(40), got["total_reviews"])
	assert.Equal(t, 0.75, got["accuracy_rate"])
}

func TestStudyRoutes_RequireUser(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/api/study/session", "/api/study/queue", "/api/study/progress", "/api/reviews"} {
		w := ts.do(http.MethodGet, path, "", "X-No-User", "1")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestSubmitReview(t *testing.T) {
	ts := newTestServer(t)
	cardID := uuid.New()
	correct := true
	due := reviewedAt.AddDate(0, 0, 3)

	ts.reviews.On("SubmitReview", mock.Anything, ts.userID, review.SubmitReviewInput{
		FlashcardID: cardID, IsCorrect: &correct, ResponseTimeMs: 1200,
	}).Return(&review.ReviewResult{
		Review:      &domain.Review{ID: uuid.New(), FlashcardID: cardID, UserID: ts.userID, IsCorrect: true, ResponseTimeMs: 1200, CreatedAt: reviewedAt},
		PreviousBox: domain.Box1,
		NextReview:  domain.Schedule{Box: domain.Box2, NextDueDate: due},
	}, nil).Once()

	body := fmt.Sprintf(`{"flashcard_id":%q,"is_correct":true,"response_time_ms":1200}`, cardID)
	w := ts.do(http.MethodPost, "/api/reviews", body)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var got SubmitReviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, cardID, got.FlashcardID)
	assert.Equal(t, domain.Box1, got.PreviousBox)
	assert.Equal(t, domain.Box2, got.NextReview.Box)
	require.NotNil(t, got.NextReview.NextDueDate)
	assert.True(t, due.Equal(*got.NextReview.NextDueDate))
}

func TestSubmitReview_GraduatedHasNoDueDate(t *testing.T) {
	ts := newTestServer(t)
	cardID := uuid.New()

	ts.reviews.On("SubmitReview", mock.Anything, ts.userID, mock.Anything).Return(&review.ReviewResult{
		Review:      &domain.Review{ID: uuid.New(), FlashcardID: cardID, IsCorrect: true, CreatedAt: reviewedAt},
		PreviousBox: domain.Box3,
		NextReview:  domain.Schedule{Box: domain.Graduated, NextDueDate: leitner.NeverDue},
	}, nil).Once()

	w := ts.do(http.MethodPost, "/api/reviews",
		fmt.Sprintf(`{"flashcard_id":%q,"is_correct":true}`, cardID))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"next_review":{"box":"graduated","next_due_date":null}`)
}

func TestSubmitReview_RejectsBadInput(t *testing.T) {
	cardID := uuid.NewString()
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty body", "", "Invalid request format"},
		{"malformed", `{"flashcard_id":`, "Invalid request format"},
		{"unknown field", fmt.Sprintf(`{"flashcard_id":%q,"is_correct":true,"box":"box3"}`, cardID), "Invalid request format"},
		{"missing answer", fmt.Sprintf(`{"flashcard_id":%q}`, cardID), "Invalid IsCorrect: required field"},
		{"bad id", `{"flashcard_id":"abc","is_correct":false}`, "Invalid FlashcardID: must be a UUID"},
		{"negative time", fmt.Sprintf(`{"flashcard_id":%q,"is_correct":false,"response_time_ms":-5}`, cardID), "Invalid ResponseTimeMs: too small"},
		{"response time beyond storable range", fmt.Sprintf(`{"flashcard_id":%q,"is_correct":true,"response_time_ms":3000000000}`, cardID), "Invalid ResponseTimeMs: too large"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			w := ts.do(http.MethodPost, "/api/reviews", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.wantMsg, decodeError(t, w).Error)
		})
	}
}

func TestSubmitReview_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		retryAfter bool
	}{
		{"not found", review.ErrFlashcardNotFound, http.StatusNotFound, "Flashcard not found", false},
		{"not accepted", review.ErrFlashcardNotAccepted, http.StatusBadRequest, "Flashcard is not accepted for review", false},
		{
			"conflict", review.NewSubmitReviewError("retries exhausted", review.ErrConcurrentUpdate),
			http.StatusConflict, "Flashcard was modified concurrently, please retry", true,
		},
		{"db down", errors.New("connection refused"), http.StatusInternalServerError, "An unexpected error occurred", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.reviews.On("SubmitReview", mock.Anything, ts.userID, mock.Anything).Return(nil, tc.err).Once()

			w := ts.do(http.MethodPost, "/api/reviews",
				fmt.Sprintf(`{"flashcard_id":%q,"is_correct":false}`, uuid.New()))

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Equal(t, tc.wantMsg, decodeError(t, w).Error)
			if tc.retryAfter {
				assert.Equal(t, "1", w.Header().Get("Retry-After"))
			}
		})
	}
}

func TestListReviews(t *testing.T) {
	ts := newTestServer(t)
	cardID := uuid.New()
	page := &review.ReviewPage{
		Reviews: []*domain.Review{{ID: uuid.New(), FlashcardID: cardID, CreatedAt: reviewedAt}},
		Limit:   5, Offset: 10, Total: 11,
	}
	ts.reviews.On("ListReviews", mock.Anything, ts.userID, store.ReviewListOptions{
		FlashcardID: &cardID, Limit: 5, Offset: 10,
	}).Return(page, nil).Once()

	w := ts.do(http.MethodGet, fmt.Sprintf("/api/reviews?limit=5&offset=10&flashcard_id=%s", cardID), "")

	require.Equal(t, http.StatusOK, w.Code)
	var got review.ReviewPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 11, got.Total)
	assert.Len(t, got.Reviews, 1)
}

func TestListReviews_Defaults(t *testing.T) {
	ts := newTestServer(t)
	ts.reviews.On("ListReviews", mock.Anything, ts.userID, store.ReviewListOptions{
		Limit: review.DefaultPageSize,
	}).Return(&review.ReviewPage{Reviews: []*domain.Review{}, Limit: review.DefaultPageSize}, nil).Once()

	w := ts.do(http.MethodGet, "/api/reviews", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListReviews_InvalidPaging(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/reviews?limit=ten", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	ts.reviews.On("ListReviews", mock.Anything, ts.userID, mock.Anything).
		Return(nil, review.NewListReviewsError("bad paging", review.ErrInvalidInput)).Once()
	w = ts.do(http.MethodGet, "/api/reviews?offset=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListFlashcardReviews(t *testing.T) {
	ts := newTestServer(t)
	cardID := uuid.New()
	ts.reviews.On("ListReviews", mock.Anything, ts.userID, store.ReviewListOptions{
		FlashcardID: &cardID, Limit: review.DefaultPageSize,
	}).Return(&review.ReviewPage{Reviews: []*domain.Review{}}, nil).Once()

	w := ts.do(http.MethodGet, "/api/flashcards/"+cardID.String()+"/reviews", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodGet, "/api/flashcards/not-a-uuid/reviews", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotFoundRoute(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Resource not found", decodeError(t, w).Error)
}

func TestNewHandlers_NilService(t *testing.T) {
	assert.Panics(t, func() { NewStudyHandler(nil, nil) })
	assert.Panics(t, func() { NewReviewHandler(nil, nil) })
}

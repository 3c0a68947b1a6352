package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/api/shared"
	"github.com/phrazzld/leitner-api/internal/platform/logger"
	"github.com/phrazzld/leitner-api/internal/service/review"
	"github.com/phrazzld/leitner-api/internal/store"
)

// ReviewHandler serves review submission and history.
type ReviewHandler struct {
	reviews review.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a ReviewHandler.
func NewReviewHandler(reviews review.ReviewService, log *slog.Logger) *ReviewHandler {
	if reviews == nil {
		panic("reviews cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &ReviewHandler{
		reviews: reviews,
		logger:  log.With(slog.String("component", "review_handler")),
	}
}

// SubmitReview handles POST /api/reviews.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	// validated as a uuid above
	flashcardID := uuid.MustParse(req.FlashcardID)

	result, err := h.reviews.SubmitReview(r.Context(), userID, review.SubmitReviewInput{
		FlashcardID:    flashcardID,
		IsCorrect:      req.IsCorrect,
		ResponseTimeMs: req.ResponseTimeMs,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("review submitted",
		slog.String("flashcard_id", flashcardID.String()),
		slog.String("box", string(result.NextReview.Box)))

	shared.RespondWithJSON(w, r, http.StatusCreated, submitReviewResponse(result))
}

// ListReviews handles GET /api/reviews?limit&offset&flashcard_id.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	flashcardID, err := shared.QueryUUID(r, "flashcard_id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	h.listReviews(w, r, userID, flashcardID)
}

// ListFlashcardReviews handles GET /api/flashcards/{id}/reviews.
func (h *ReviewHandler) ListFlashcardReviews(w http.ResponseWriter, r *http.Request) {
	userID, flashcardID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}
	h.listReviews(w, r, userID, &flashcardID)
}

func (h *ReviewHandler) listReviews(
	w http.ResponseWriter,
	r *http.Request,
	userID uuid.UUID,
	flashcardID *uuid.UUID,
) {
	limit, err := shared.QueryInt(r, "limit", review.DefaultPageSize)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	offset, err := shared.QueryInt(r, "offset", 0)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	page, err := h.reviews.ListReviews(r.Context(), userID, store.ReviewListOptions{
		FlashcardID: flashcardID,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, page)
}

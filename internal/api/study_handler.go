package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/leitner-api/internal/api/shared"
	"github.com/phrazzld/leitner-api/internal/platform/logger"
	"github.com/phrazzld/leitner-api/internal/service/study"
)

// StudyHandler serves sessions, queue summaries and progress.
type StudyHandler struct {
	study  study.StudyService
	logger *slog.Logger
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(svc study.StudyService, log *slog.Logger) *StudyHandler {
	if svc == nil {
		panic("study service cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &StudyHandler{
		study:  svc,
		logger: log.With(slog.String("component", "study_handler")),
	}
}

// GetSession handles GET /api/study/session?deck_id&include_catchup.
// Hitting the daily limit is a 200 with limit_reached set.
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deckID, err := shared.QueryUUID(r, "deck_id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	includeCatchup, err := shared.QueryBool(r, "include_catchup", false)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	session, err := h.study.BuildSession(r.Context(), userID, study.SessionOptions{
		DeckID:         deckID,
		IncludeCatchup: includeCatchup,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if session.LimitReached {
		logger.FromContextOrDefault(r.Context(), h.logger).Info("daily limit reached",
			slog.Int("daily_limit", session.Metadata.DailyLimit))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// GetQueue handles GET /api/study/queue?deck_id.
func (h *StudyHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	deckID, err := shared.QueryUUID(r, "deck_id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	summary, err := h.study.QueueSummary(r.Context(), userID, deckID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

// GetProgress handles GET /api/study/progress.
func (h *StudyHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	progress, err := h.study.Progress(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, progress)
}

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mount registers the study and review routes on r. Authentication is the
// caller's concern.
func Mount(r chi.Router, studies *StudyHandler, reviews *ReviewHandler) {
	r.Route("/study", func(r chi.Router) {
		r.Get("/session", studies.GetSession)
		r.Get("/queue", studies.GetQueue)
		r.Get("/progress", studies.GetProgress)
	})
	r.Route("/reviews", func(r chi.Router) {
		r.Post("/", reviews.SubmitReview)
		r.Get("/", reviews.ListReviews)
	})
	r.Get("/flashcards/{id}/reviews", reviews.ListFlashcardReviews)
}

// NotFound replies with the JSON error envelope instead of chi's plain text.
func NotFound(w http.ResponseWriter, r *http.Request) {
	HandleAPIError(w, r, errRouteNotFound)
}

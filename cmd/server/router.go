package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/leitner-api/internal/api"
	apiMiddleware "github.com/phrazzld/leitner-api/internal/api/middleware"
	"github.com/phrazzld/leitner-api/internal/api/shared"
	"github.com/phrazzld/leitner-api/internal/redact"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthTimeout = 2 * time.Second

// setupRouter builds the chi router: public /health and /metrics, and the
// authenticated /api routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	r.NotFound(api.NotFound)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	studyHandler := api.NewStudyHandler(app.studyService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)
		api.Mount(r, studyHandler, reviewHandler)
	})

	r.Get("/health", app.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		app.logger.Warn("health check failed", redact.ErrorAttr(err))
		shared.RespondWithJSON(w, r, http.StatusServiceUnavailable,
			healthResponse{Status: "unavailable", Database: "unreachable"})
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
}

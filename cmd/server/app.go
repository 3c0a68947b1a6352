package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/phrazzld/leitner-api/internal/cache"
	"github.com/phrazzld/leitner-api/internal/clock"
	"github.com/phrazzld/leitner-api/internal/config"
	"github.com/phrazzld/leitner-api/internal/domain/leitner"
	"github.com/phrazzld/leitner-api/internal/events"
	"github.com/phrazzld/leitner-api/internal/metrics"
	"github.com/phrazzld/leitner-api/internal/platform/postgres"
	"github.com/phrazzld/leitner-api/internal/redact"
	"github.com/phrazzld/leitner-api/internal/service/auth"
	"github.com/phrazzld/leitner-api/internal/service/review"
	"github.com/phrazzld/leitner-api/internal/service/study"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds the process-wide dependencies and owns their cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	clock  clock.Clock

	registry  *prometheus.Registry
	metrics   *metrics.SchedulerMetrics
	summaries cache.SummaryCache
	emitter   *events.InMemoryEventEmitter

	jwtService    auth.JWTService
	reviewService review.ReviewService
	studyService  study.StudyService
}

// newApplication wires stores, services, cache, events and metrics around
// an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		clock:    clock.System(),
		registry: prometheus.NewRegistry(),
	}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	var err error
	app.metrics, err = metrics.NewSchedulerMetrics(app.registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register scheduler metrics: %w", err)
	}

	policy, err := buildPolicy(cfg.Scheduler)
	if err != nil {
		return nil, err
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth, app.clock)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.summaries, err = cache.New(cfg.Cache, app.clock, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize summary cache: %w", err)
	}

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.emitter.Subscribe(events.TypeReviewRecorded,
		cache.NewInvalidationHandler(app.summaries, app.metrics, logger))

	flashcardStore := postgres.NewPostgresFlashcardStore(db, logger)
	reviewStore := postgres.NewPostgresReviewStore(db, logger)

	app.reviewService = review.NewReviewService(
		review.NewFlashcardRepositoryAdapter(flashcardStore, db),
		review.NewReviewRepositoryAdapter(reviewStore),
		policy,
		app.clock,
		app.emitter,
		app.metrics,
		cfg.Scheduler.MaxReviewAttempts,
		logger,
	)
	app.studyService = study.NewStudyService(
		flashcardStore,
		reviewStore,
		policy,
		app.summaries,
		app.clock,
		app.metrics,
		logger,
	)

	logger.Info("application initialized",
		slog.Int("daily_limit", policy.DailyLimit),
		slog.Int("session_size", policy.SessionSize),
		slog.Int("catchup_cap", policy.CatchupCap))
	return app, nil
}

// buildPolicy turns scheduler settings into a Leitner policy.
func buildPolicy(cfg config.SchedulerConfig) (*leitner.Policy, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	policy, err := leitner.NewPolicy(leitner.PolicyConfig{
		Box1Interval: time.Duration(cfg.Box1IntervalHours) * time.Hour,
		Box2Interval: time.Duration(cfg.Box2IntervalHours) * time.Hour,
		Box3Interval: time.Duration(cfg.Box3IntervalHours) * time.Hour,
		DailyLimit:   cfg.DailyLimit,
		CatchupCap:   cfg.CatchupCap,
		SessionSize:  cfg.SessionSize,
		Location:     loc,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler configuration: %w", err)
	}
	return policy, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down and cleans up.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) cleanup() {
	if closer, ok := app.summaries.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			app.logger.Error("error closing summary cache", redact.ErrorAttr(err))
		}
	}
	if app.db != nil {
		closeDB(app.db, app.logger)
	}
	app.logger.Info("application shutdown completed")
}

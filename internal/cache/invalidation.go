package cache

import (
	"context"
	"log/slog"

	"github.com/phrazzld/leitner-api/internal/events"
	"github.com/phrazzld/leitner-api/internal/metrics"
)

// InvalidationHandler drops a user's cached summaries when one of their
// reviews is recorded.
type InvalidationHandler struct {
	cache   SummaryCache
	metrics *metrics.SchedulerMetrics
	logger  *slog.Logger
}

var _ events.EventHandler = (*InvalidationHandler)(nil)

// NewInvalidationHandler creates the handler. metrics may be nil.
func NewInvalidationHandler(
	cache SummaryCache,
	m *metrics.SchedulerMetrics,
	logger *slog.Logger,
) *InvalidationHandler {
	if cache == nil {
		panic("summary cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InvalidationHandler{
		cache:   cache,
		metrics: m,
		logger:  logger.With(slog.String("component", "cache_invalidation")),
	}
}

// HandleEvent implements events.EventHandler.
func (h *InvalidationHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeReviewRecorded {
		return nil
	}
	if err := h.cache.Invalidate(ctx, event.UserID); err != nil {
		h.logger.Error("failed to invalidate cached summaries",
			slog.String("user_id", event.UserID.String()),
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
		return err
	}
	h.metrics.RecordCacheInvalidation()
	return nil
}

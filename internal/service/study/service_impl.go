package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/cache"
	"github.com/phrazzld/leitner-api/internal/clock"
	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/phrazzld/leitner-api/internal/domain/leitner"
	"github.com/phrazzld/leitner-api/internal/metrics"
	"github.com/phrazzld/leitner-api/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

var _ StudyService = (*studyServiceImpl)(nil)

type studyServiceImpl struct {
	flashcards FlashcardSource
	reviews    ReviewSource
	tracker    *DailyLimitTracker
	policy     *leitner.Policy
	summaries  cache.SummaryCache
	clock      clock.Clock
	metrics    *metrics.SchedulerMetrics
	logger     *slog.Logger
}

// NewStudyService creates a StudyService. A nil summaries cache disables
// caching; m may be nil.
func NewStudyService(
	flashcards FlashcardSource,
	reviews ReviewSource,
	policy *leitner.Policy,
	summaries cache.SummaryCache,
	clk clock.Clock,
	m *metrics.SchedulerMetrics,
	logger *slog.Logger,
) StudyService {
	if flashcards == nil {
		panic("flashcards cannot be nil")
	}
	if reviews == nil {
		panic("reviews cannot be nil")
	}
	if policy == nil {
		panic("policy cannot be nil")
	}
	if summaries == nil {
		summaries = cache.NoopCache{}
	}
	if clk == nil {
		clk = clock.System()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		flashcards: flashcards,
		reviews:    reviews,
		tracker:    NewDailyLimitTracker(reviews, policy),
		policy:     policy,
		summaries:  summaries,
		clock:      clk,
		metrics:    m,
		logger:     logger.With(slog.String("component", "study_service")),
	}
}

// loadQueue reads the user's schedulable cards and today's review count
// concurrently and partitions the cards.
func (s *studyServiceImpl) loadQueue(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
	now time.Time,
) (*leitner.Queue, error) {
	var (
		cards     []*domain.Flashcard
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cards, err = s.flashcards.ListSchedulable(gctx, userID, deckID)
		if err != nil {
			return fmt.Errorf("failed to list flashcards: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		completed, err = s.tracker.CompletedToday(gctx, userID, now)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadQueue, err)
	}

	return s.policy.BuildQueue(cards, completed, now), nil
}

// QueueSummary implements StudyService.
func (s *studyServiceImpl) QueueSummary(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
) (*leitner.QueueSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))
	now := s.clock.Now()
	key := cache.SummaryKey(deckID, now, s.policy.Location)

	cached, gen, ok, err := s.summaries.Get(ctx, userID, key)
	if err != nil {
		log.Warn("summary cache lookup failed", slog.String("error", err.Error()))
	}
	s.metrics.RecordCacheLookup(ok)
	if ok {
		return &cached, nil
	}

	q, err := s.loadQueue(ctx, userID, deckID, now)
	if err != nil {
		log.Error("failed to build queue summary", slog.String("error", err.Error()))
		return nil, newServiceError("queue_summary", "failed to build queue summary", err)
	}

	if err := s.summaries.Set(ctx, userID, key, gen, q.Summary); err != nil {
		log.Warn("failed to cache queue summary", slog.String("error", err.Error()))
	}

	log.Debug("built queue summary",
		slog.Int("due_now", q.Summary.DueNow),
		slog.Int("overdue", q.Summary.Overdue),
		slog.Int("today_reviews", q.Summary.TodayReviews))
	return &q.Summary, nil
}

// BuildSession implements StudyService. Sessions always read fresh state;
// the summary cache is not consulted.
func (s *studyServiceImpl) BuildSession(
	ctx context.Context,
	userID uuid.UUID,
	opts SessionOptions,
) (*Session, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))
	now := s.clock.Now()

	q, err := s.loadQueue(ctx, userID, opts.DeckID, now)
	if err != nil {
		log.Error("failed to build study session", slog.String("error", err.Error()))
		return nil, newServiceError("build_session", "failed to build study session", err)
	}

	selected := s.policy.SelectSession(q, opts.IncludeCatchup)
	cards := make([]SessionCard, 0, len(selected))
	for _, card := range selected {
		cards = append(cards, SessionCard{
			ID:       card.ID,
			Question: card.Question,
			Answer:   card.Answer,
			DeckName: card.DeckName,
			Box:      card.Box,
			DueDate:  card.NextDueDate,
		})
	}

	sum := q.Summary
	session := &Session{
		SessionID:    uuid.New(),
		Flashcards:   cards,
		LimitReached: sum.DailyLimitReached,
		Metadata: SessionMetadata{
			TotalDue:              sum.DueNow + sum.Overdue,
			SessionLimit:          s.policy.SessionSize,
			CatchupAvailable:      sum.CatchupCount,
			DailyReviewsCompleted: sum.TodayReviews,
			DailyLimit:            sum.DailyLimit,
		},
	}

	result := metrics.ResultServed
	switch {
	case session.LimitReached:
		result = metrics.ResultLimitReached
		log.Info("daily review limit reached",
			slog.Int("today_reviews", sum.TodayReviews),
			slog.Int("daily_limit", sum.DailyLimit))
	case len(cards) == 0:
		result = metrics.ResultEmpty
	}
	s.metrics.RecordSession(result, len(cards))

	log.Debug("built study session",
		slog.String("session_id", session.SessionID.String()),
		slog.Int("cards", len(cards)),
		slog.Bool("include_catchup", opts.IncludeCatchup))
	return session, nil
}

// Progress implements StudyService. Streaks only consider the last
// StreakLookback of history.
func (s *studyServiceImpl) Progress(ctx context.Context, userID uuid.UUID) (*Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))
	now := s.clock.Now()

	var (
		status DailyStatus
		totals struct{ total, correct int }
		times  []time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		status, err = s.tracker.Status(gctx, userID, now)
		return err
	})
	g.Go(func() error {
		t, err := s.reviews.Totals(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to total reviews: %w", err)
		}
		totals.total, totals.correct = t.Total, t.Correct
		return nil
	})
	g.Go(func() error {
		var err error
		times, err = s.reviews.TimesSince(gctx, userID, now.Add(-StreakLookback))
		if err != nil {
			return fmt.Errorf("failed to load review history: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to compute progress", slog.String("error", err.Error()))
		return nil, newServiceError("progress", "failed to compute progress", err)
	}

	return &Progress{
		DailyStatus:  status,
		Streak:       s.policy.ComputeStreak(times, now),
		TotalReviews: totals.total,
		AccuracyRate: leitner.AccuracyRate(totals.correct, totals.total),
	}, nil
}

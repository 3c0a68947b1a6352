package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/clock"
	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/phrazzld/leitner-api/internal/domain/leitner"
	"github.com/phrazzld/leitner-api/internal/events"
	"github.com/phrazzld/leitner-api/internal/metrics"
	"github.com/phrazzld/leitner-api/internal/platform/logger"
	"github.com/phrazzld/leitner-api/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

type reviewServiceImpl struct {
	flashcards  FlashcardRepository
	reviews     ReviewRepository
	policy      *leitner.Policy
	clock       clock.Clock
	emitter     events.EventEmitter
	metrics     *metrics.SchedulerMetrics
	maxAttempts int
	logger      *slog.Logger
}

// NewReviewService creates a ReviewService. emitter and m may be nil;
// maxAttempts below 1 falls back to DefaultMaxAttempts.
func NewReviewService(
	flashcards FlashcardRepository,
	reviews ReviewRepository,
	policy *leitner.Policy,
	clk clock.Clock,
	emitter events.EventEmitter,
	m *metrics.SchedulerMetrics,
	maxAttempts int,
	logger *slog.Logger,
) ReviewService {
	if flashcards == nil {
		panic("flashcards cannot be nil")
	}
	if reviews == nil {
		panic("reviews cannot be nil")
	}
	if policy == nil {
		panic("policy cannot be nil")
	}
	if clk == nil {
		clk = clock.System()
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		flashcards:  flashcards,
		reviews:     reviews,
		policy:      policy,
		clock:       clk,
		emitter:     emitter,
		metrics:     m,
		maxAttempts: maxAttempts,
		logger:      logger.With(slog.String("component", "review_service")),
	}
}

// SubmitReview implements ReviewService.
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	userID uuid.UUID,
	input SubmitReviewInput,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("flashcard_id", input.FlashcardID.String()))

	if err := validateInput(input); err != nil {
		log.Debug("rejected review submission", slog.String("reason", err.Error()))
		return nil, err
	}

	started := time.Now()

	var (
		result *ReviewResult
		err    error
	)
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		// timestamptz keeps microseconds; the CAS compares against what was stored.
		now := s.clock.Now().UTC().Truncate(time.Microsecond)

		result, err = s.submitOnce(ctx, userID, input, now)
		if err == nil {
			break
		}
		if !store.IsConflictError(err) {
			return nil, s.mapSubmitError(log, err)
		}

		s.metrics.RecordConflict()
		log.Warn("flashcard changed during review, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", s.maxAttempts))

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}
	if err != nil {
		s.metrics.RecordRetriesExhausted()
		log.Error("review retries exhausted", slog.Int("attempts", s.maxAttempts))
		return nil, NewSubmitReviewError("retries exhausted", ErrConcurrentUpdate)
	}

	s.metrics.RecordReview(string(result.PreviousBox), string(result.NextReview.Box),
		result.Review.IsCorrect, time.Since(started))
	s.emitRecorded(ctx, log, result)

	log.Debug("review recorded",
		slog.String("review_id", result.Review.ID.String()),
		slog.Bool("is_correct", result.Review.IsCorrect),
		slog.String("previous_box", string(result.PreviousBox)),
		slog.String("new_box", string(result.NextReview.Box)),
		slog.Time("next_due_date", result.NextReview.NextDueDate))

	return result, nil
}

// submitOnce runs one read-compute-write cycle in its own transaction.
func (s *reviewServiceImpl) submitOnce(
	ctx context.Context,
	userID uuid.UUID,
	input SubmitReviewInput,
	now time.Time,
) (*ReviewResult, error) {
	var result *ReviewResult

	err := store.RunInTransaction(ctx, s.flashcards.DB(), func(ctx context.Context, tx *sql.Tx) error {
		flashcards := s.flashcards.WithTx(tx)
		reviews := s.reviews.WithTx(tx)

		card, err := flashcards.GetForUser(ctx, userID, input.FlashcardID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrFlashcardNotFound
			}
			return fmt.Errorf("failed to get flashcard: %w", err)
		}
		if card.Status != domain.FlashcardStatusAccepted {
			return ErrFlashcardNotAccepted
		}

		current := card.Schedule()
		next := current
		if !card.Box.IsTerminal() {
			next, err = s.policy.Apply(card.Box, *input.IsCorrect, now)
			if err != nil {
				return fmt.Errorf("failed to compute schedule: %w", err)
			}
		}

		review, err := domain.NewReview(input.FlashcardID, userID, *input.IsCorrect, input.ResponseTimeMs, now)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		if err := reviews.Create(ctx, review); err != nil {
			return fmt.Errorf("failed to insert review: %w", err)
		}

		// Graduated cards keep their schedule; the review is still logged.
		if !card.Box.IsTerminal() {
			if err := flashcards.UpdateSchedule(ctx, card.ID, current, next, now); err != nil {
				if store.IsConflictError(err) {
					return err
				}
				return fmt.Errorf("failed to update flashcard schedule: %w", err)
			}
		}

		result = &ReviewResult{Review: review, PreviousBox: current.Box, NextReview: next}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *reviewServiceImpl) mapSubmitError(log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, ErrFlashcardNotFound), errors.Is(err, ErrInvalidInput):
		log.Debug("review rejected", slog.String("reason", err.Error()))
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Debug("review abandoned by caller", slog.String("error", err.Error()))
		return err
	default:
		log.Error("failed to submit review", slog.String("error", err.Error()))
		return NewSubmitReviewError("failed to record review", err)
	}
}

// emitRecorded publishes review.recorded. The review is already committed, so
// a failing handler is logged and otherwise ignored.
func (s *reviewServiceImpl) emitRecorded(ctx context.Context, log *slog.Logger, result *ReviewResult) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewEvent(events.TypeReviewRecorded, result.Review.UserID, events.ReviewRecordedPayload{
		ReviewID:    result.Review.ID,
		FlashcardID: result.Review.FlashcardID,
		IsCorrect:   result.Review.IsCorrect,
		PreviousBox: string(result.PreviousBox),
		NewBox:      string(result.NextReview.Box),
		NextDueDate: result.NextReview.NextDueDate,
	}, result.Review.CreatedAt)
	if err != nil {
		log.Error("failed to build review event", slog.String("error", err.Error()))
		return
	}

	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Warn("review event handler failed",
			slog.String("event_id", event.ID.String()),
			slog.String("error", err.Error()))
	}
}

// ListReviews implements ReviewService.
func (s *reviewServiceImpl) ListReviews(
	ctx context.Context,
	userID uuid.UUID,
	opts store.ReviewListOptions,
) (*ReviewPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if opts.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must be >= 0", ErrInvalidInput)
	}
	switch {
	case opts.Limit == 0:
		opts.Limit = DefaultPageSize
	case opts.Limit < 0:
		return nil, fmt.Errorf("%w: limit must be >= 0", ErrInvalidInput)
	case opts.Limit > MaxPageSize:
		opts.Limit = MaxPageSize
	}

	reviews, err := s.reviews.List(ctx, userID, opts)
	if err != nil {
		log.Error("failed to list reviews",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewListReviewsError("failed to list reviews", err)
	}

	total, err := s.reviews.Count(ctx, userID, opts.FlashcardID)
	if err != nil {
		log.Error("failed to count reviews",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewListReviewsError("failed to count reviews", err)
	}

	return &ReviewPage{
		Reviews: reviews,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		Total:   total,
		HasMore: opts.Offset+len(reviews) < total,
	}, nil
}

func validateInput(input SubmitReviewInput) error {
	if input.FlashcardID == uuid.Nil {
		return fmt.Errorf("%w: flashcard_id is required", ErrInvalidInput)
	}
	if input.IsCorrect == nil {
		return ErrMissingAnswer
	}
	if input.ResponseTimeMs < 0 {
		return ErrNegativeResponseTime
	}
	if input.ResponseTimeMs > domain.MaxResponseTimeMs {
		return ErrResponseTimeTooLarge
	}
	return nil
}

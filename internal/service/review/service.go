package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/domain"
	"github.com/phrazzld/leitner-api/internal/store"
)

// Pagination bounds for ListReviews.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultMaxAttempts bounds the read-compute-write cycle when no explicit
// limit is configured.
const DefaultMaxAttempts = 3

// SubmitReviewInput is one answer to one flashcard. IsCorrect is a pointer so
// a missing answer can be told apart from false.
type SubmitReviewInput struct {
	FlashcardID    uuid.UUID
	IsCorrect      *bool
	ResponseTimeMs int
}

// ReviewResult is the outcome of a recorded review.
type ReviewResult struct {
	Review      *domain.Review  `json:"review"`
	PreviousBox domain.Box      `json:"previous_box"`
	NextReview  domain.Schedule `json:"next_review"`
}

// ReviewPage is one page of a user's review history, newest first.
type ReviewPage struct {
	Reviews []*domain.Review `json:"reviews"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Total   int              `json:"total"`
	HasMore bool             `json:"has_more"`
}

// ReviewService records reviews and exposes review history.
type ReviewService interface {
	// SubmitReview records the answer and advances or resets the card.
	//
	// Errors:
	//   - ErrFlashcardNotFound when the card is missing or not owned by userID
	//   - ErrInvalidInput (or an error wrapping it) for a missing answer, a
	//     negative response time or a card that is not accepted
	//   - ErrConcurrentUpdate when every attempt lost to a concurrent writer
	SubmitReview(ctx context.Context, userID uuid.UUID, input SubmitReviewInput) (*ReviewResult, error)

	// ListReviews returns a page of the user's reviews. Limit is clamped to
	// [1, MaxPageSize] with DefaultPageSize used for zero.
	ListReviews(ctx context.Context, userID uuid.UUID, opts store.ReviewListOptions) (*ReviewPage, error)
}

// Common error types for ReviewService
var (
	// ErrFlashcardNotFound indicates the card does not exist or belongs to
	// another user.
	ErrFlashcardNotFound = errors.New("flashcard not found")

	// ErrInvalidInput indicates the submission itself is unacceptable.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingAnswer indicates is_correct was not supplied.
	ErrMissingAnswer = fmt.Errorf("%w: is_correct is required", ErrInvalidInput)

	// ErrNegativeResponseTime indicates response_time_ms < 0.
	ErrNegativeResponseTime = fmt.Errorf("%w: response_time_ms must be >= 0", ErrInvalidInput)

	// ErrResponseTimeTooLarge indicates response_time_ms exceeds what a
	// review can store.
	ErrResponseTimeTooLarge = fmt.Errorf("%w: response_time_ms must be <= %d", ErrInvalidInput, domain.MaxResponseTimeMs)

	// ErrFlashcardNotAccepted indicates the card is pending or rejected.
	ErrFlashcardNotAccepted = fmt.Errorf("%w: flashcard is not accepted", ErrInvalidInput)

	// ErrConcurrentUpdate is transient: the card kept changing underneath
	// every attempt. Callers may retry the request.
	ErrConcurrentUpdate = errors.New("flashcard was modified concurrently")
)

// IsTransient reports whether err is worth retrying at the caller.
func IsTransient(err error) bool {
	return errors.Is(err, ErrConcurrentUpdate) || errors.Is(err, store.ErrTransactionFailed)
}

// ServiceError wraps errors from the review service with the operation that
// produced them.
type ServiceError struct {
	// Operation is the operation that failed (e.g. "submit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitReviewError returns a ServiceError for the submit_review operation.
func NewSubmitReviewError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "submit_review", Message: message, Err: err}
}

// NewListReviewsError returns a ServiceError for the list_reviews operation.
func NewListReviewsError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "list_reviews", Message: message, Err: err}
}

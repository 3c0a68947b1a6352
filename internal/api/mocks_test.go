package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/leitner-api/internal/domain/leitner"
	"github.com/phrazzld/leitner-api/internal/service/review"
	"github.com/phrazzld/leitner-api/internal/service/study"
	"github.com/phrazzld/leitner-api/internal/store"
	"github.com/stretchr/testify/mock"
)

type mockStudyService struct {
	mock.Mock
}

func (m *mockStudyService) QueueSummary(
	ctx context.Context,
	userID uuid.UUID,
	deckID *uuid.UUID,
) (*leitner.QueueSummary, error) {
	args := m.Called(ctx, userID, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leitner.QueueSummary), args.Error(1)
}

func (m *mockStudyService) BuildSession(
	ctx context.Context,
	userID uuid.UUID,
	opts study.SessionOptions,
) (*study.Session, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*study.Session), args.Error(1)
}

func (m *mockStudyService) Progress(ctx context.Context, userID uuid.UUID) (*study.Progress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*study.Progress), args.Error(1)
}

type mockReviewService struct {
	mock.Mock
}

func (m *mockReviewService) SubmitReview(
	ctx context.Context,
	userID uuid.UUID,
	input review.SubmitReviewInput,
) (*review.ReviewResult, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.ReviewResult), args.Error(1)
}

func (m *mockReviewService) ListReviews(
	ctx context.Context,
	userID uuid.UUID,
	opts store.ReviewListOptions,
) (*review.ReviewPage, error) {
	args := m.Called(ctx, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.ReviewPage), args.Error(1)
}

var (
	_ study.StudyService   = (*mockStudyService)(nil)
	_ review.ReviewService = (*mockReviewService)(nil)
)

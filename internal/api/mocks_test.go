package api

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/service/card_review"
	"github.com/stretchr/testify/mock"
)

// MockCardReviewService is a testify mock of card_review.CardReviewService.
type MockCardReviewService struct {
	mock.Mock
}

var _ card_review.CardReviewService = (*MockCardReviewService)(nil)

func summaryResult(args mock.Arguments) (*card_review.SessionSummary, error) {
	var summary *card_review.SessionSummary
	if v := args.Get(0); v != nil {
		summary = v.(*card_review.SessionSummary)
	}
	return summary, args.Error(1)
}

func cardResult(args mock.Arguments) (*domain.ReviewableCard, error) {
	var card *domain.ReviewableCard
	if v := args.Get(0); v != nil {
		card = v.(*domain.ReviewableCard)
	}
	return card, args.Error(1)
}

func (m *MockCardReviewService) StartSession(
	ctx context.Context,
	mode card_review.SessionMode,
) (*card_review.SessionSummary, error) {
	return summaryResult(m.Called(ctx, mode))
}

func (m *MockCardReviewService) Session(
	ctx context.Context,
	sessionID uuid.UUID,
) (*card_review.SessionSummary, error) {
	return summaryResult(m.Called(ctx, sessionID))
}

func (m *MockCardReviewService) NextCard(ctx context.Context, sessionID uuid.UUID) (*domain.ReviewableCard, error) {
	return cardResult(m.Called(ctx, sessionID))
}

func (m *MockCardReviewService) SubmitAnswer(
	ctx context.Context,
	sessionID uuid.UUID,
	cardID uuid.UUID,
	answer card_review.ReviewAnswer,
) (*domain.ReviewableCard, error) {
	return cardResult(m.Called(ctx, sessionID, cardID, answer))
}

func (m *MockCardReviewService) ResetSession(
	ctx context.Context,
	sessionID uuid.UUID,
) (*card_review.SessionSummary, error) {
	return summaryResult(m.Called(ctx, sessionID))
}

func (m *MockCardReviewService) EndSession(ctx context.Context, sessionID uuid.UUID) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockCardReviewService) PostponeCard(
	ctx context.Context,
	cardID uuid.UUID,
	days int,
) (*domain.ReviewableCard, error) {
	return cardResult(m.Called(ctx, cardID, days))
}

func (m *MockCardReviewService) AddCards(
	ctx context.Context,
	contents []json.RawMessage,
) ([]*domain.ReviewableCard, error) {
	args := m.Called(ctx, contents)
	var cards []*domain.ReviewableCard
	if v := args.Get(0); v != nil {
		cards = v.([]*domain.ReviewableCard)
	}
	return cards, args.Error(1)
}

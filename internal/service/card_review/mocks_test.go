package card_review_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/events"
	"github.com/phrazzld/scry-review/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockCardStore is a mock implementation of the store.CardStore interface
type MockCardStore struct {
	mock.Mock
}

var _ store.CardStore = (*MockCardStore)(nil)

func (m *MockCardStore) GetAll(ctx context.Context) ([]*domain.ReviewableCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewableCard), args.Error(1)
}

func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewableCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewableCard), args.Error(1)
}

func (m *MockCardStore) Persist(ctx context.Context, card *domain.ReviewableCard) (*domain.ReviewableCard, error) {
	args := m.Called(ctx, card)
	if fn, ok := args.Get(0).(func(context.Context, *domain.ReviewableCard) *domain.ReviewableCard); ok {
		return fn(ctx, card), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewableCard), args.Error(1)
}

func (m *MockCardStore) CreateMultiple(ctx context.Context, cards []*domain.ReviewableCard) error {
	args := m.Called(ctx, cards)
	return args.Error(0)
}

// MockEventEmitter is a mock implementation of the events.EventEmitter interface
type MockEventEmitter struct {
	mock.Mock
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.ReviewEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

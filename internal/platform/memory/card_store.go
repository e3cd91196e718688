// Package memory provides an in-process implementation of the store
// interfaces, used when no database is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/store"
)

// CardStore implements store.CardStore on a map guarded by a RWMutex.
type CardStore struct {
	mu     sync.RWMutex
	cards  map[uuid.UUID]*domain.ReviewableCard
	logger *slog.Logger
}

// NewCardStore creates an empty in-memory card store.
// If logger is nil, a default logger will be used.
func NewCardStore(logger *slog.Logger) *CardStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		cards:  make(map[uuid.UUID]*domain.ReviewableCard),
		logger: logger.With(slog.String("component", "memory_card_store")),
	}
}

// Ensure CardStore implements store.CardStore interface
var _ store.CardStore = (*CardStore)(nil)

// GetAll implements store.CardStore.GetAll
func (s *CardStore) GetAll(ctx context.Context) ([]*domain.ReviewableCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cards := make([]*domain.ReviewableCard, 0, len(s.cards))
	for _, card := range s.cards {
		cards = append(cards, card.Clone())
	}
	return cards, nil
}

// GetByID implements store.CardStore.GetByID
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewableCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	return card.Clone(), nil
}

// Persist implements store.CardStore.Persist
func (s *CardStore) Persist(ctx context.Context, card *domain.ReviewableCard) (*domain.ReviewableCard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if card == nil {
		return nil, fmt.Errorf("%w: card cannot be nil", store.ErrInvalidEntity)
	}
	if err := card.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.cards[card.ID]; ok && existing.UpdatedAt.After(card.UpdatedAt) {
		s.logger.DebugContext(ctx, "ignoring stale card write",
			slog.String("card_id", card.ID.String()),
			slog.Time("stored_updated_at", existing.UpdatedAt),
			slog.Time("incoming_updated_at", card.UpdatedAt))
		return existing.Clone(), nil
	}

	stored := card.Clone()
	s.cards[card.ID] = stored
	return stored.Clone(), nil
}

// CreateMultiple implements store.CardStore.CreateMultiple
func (s *CardStore) CreateMultiple(ctx context.Context, cards []*domain.ReviewableCard) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	seen := make(map[uuid.UUID]bool, len(cards))
	for _, card := range cards {
		if card == nil {
			return fmt.Errorf("%w: card cannot be nil", store.ErrInvalidEntity)
		}
		if err := card.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
		if seen[card.ID] {
			return fmt.Errorf("%w: %s", store.ErrCardExists, card.ID)
		}
		seen[card.ID] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, card := range cards {
		if _, ok := s.cards[card.ID]; ok {
			return fmt.Errorf("%w: %s", store.ErrCardExists, card.ID)
		}
	}
	for _, card := range cards {
		s.cards[card.ID] = card.Clone()
	}

	s.logger.DebugContext(ctx, "cards created", slog.Int("count", len(cards)))
	return nil
}

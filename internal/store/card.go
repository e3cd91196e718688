package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
)

// CardStore defines the interface for reviewable card persistence.
//
// Implementations hand out copies: mutating a returned card never changes
// the stored one.
type CardStore interface {
	// GetAll returns every card in the store. The order is unspecified.
	GetAll(ctx context.Context) ([]*domain.ReviewableCard, error)

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewableCard, error)

	// Persist creates or replaces a card and returns the stored representation.
	//
	// Conflicting writes resolve by last-write-wins on UpdatedAt: if the stored
	// card is newer than the given one, nothing is written and the stored card
	// is returned. Fields the caller did not change, such as Content, are kept
	// as given. Returns ErrInvalidEntity if the card fails domain validation.
	Persist(ctx context.Context, card *domain.ReviewableCard) (*domain.ReviewableCard, error)

	// CreateMultiple inserts new cards atomically: either all are created or
	// none. Returns ErrDuplicate if any ID already exists and ErrInvalidEntity
	// if any card fails domain validation.
	CreateMultiple(ctx context.Context, cards []*domain.ReviewableCard) error
}

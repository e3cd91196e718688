package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardContentEmpty is returned when a card's content is empty.
	ErrCardContentEmpty = errors.New("card content cannot be empty")
)

// ReviewableCard is a flashcard together with its scheduling state.
// Content is opaque to the scheduler and is carried through untouched so
// that the repository can persist it as-is.
type ReviewableCard struct {
	ID          uuid.UUID       `json:"id"`
	Content     json.RawMessage `json:"content"`
	State       ReviewState     `json:"state"`
	MasteryTier MasteryTier     `json:"mastery_tier"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CardContent represents the usual structure of the content field.
// Cards can carry any JSON content.
type CardContent struct {
	Front string   `json:"front"`
	Back  string   `json:"back"`
	Hint  string   `json:"hint,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// NewReviewableCard creates a never-reviewed card with a fresh ID, the
// default scheduling state and the SomewhatFamiliar tier.
func NewReviewableCard(content json.RawMessage, now time.Time) (*ReviewableCard, error) {
	card := &ReviewableCard{
		ID:          uuid.New(),
		Content:     content,
		State:       NewReviewState(),
		MasteryTier: TierSomewhatFamiliar,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the card has valid data.
func (c *ReviewableCard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if len(c.Content) == 0 {
		return ErrCardContentEmpty
	}

	if !json.Valid(c.Content) {
		return ErrInvalidCardContent
	}

	if err := c.State.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if c.MasteryTier != TierUntracked && !c.MasteryTier.IsValid() {
		return fmt.Errorf("%w: %w", ErrValidation, ErrInvalidMasteryTier)
	}

	return nil
}

// Tier returns the card's tier, treating an untracked tier as SomewhatFamiliar.
func (c *ReviewableCard) Tier() MasteryTier {
	return c.MasteryTier.Normalize()
}

// Clone returns a deep copy of the card.
func (c *ReviewableCard) Clone() *ReviewableCard {
	clone := *c
	if c.Content != nil {
		clone.Content = append(json.RawMessage(nil), c.Content...)
	}
	if c.State.DueAt != nil {
		dueAt := *c.State.DueAt
		clone.State.DueAt = &dueAt
	}
	if c.State.LastReviewedAt != nil {
		reviewedAt := *c.State.LastReviewedAt
		clone.State.LastReviewedAt = &reviewedAt
	}
	return &clone
}

// ApplySchedule returns a copy of the card with the whole result applied.
// An untracked result tier leaves the card's tier as it was. The receiver is
// not modified.
func (c *ReviewableCard) ApplySchedule(result ScheduleResult) *ReviewableCard {
	next := c.Clone()
	next.State = result.State()
	if result.MasteryTier != TierUntracked {
		next.MasteryTier = result.MasteryTier
	}
	next.UpdatedAt = result.ReviewedAt
	return next
}

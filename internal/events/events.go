package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
)

// ErrInvalidEvent is returned when a review event is missing required data.
var ErrInvalidEvent = errors.New("invalid review event")

// ReviewEvent records a single rated recall attempt.
type ReviewEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID

	// CardID identifies the reviewed card
	CardID uuid.UUID

	// Rating is the learner's assessment of the attempt
	Rating domain.Rating

	// ReviewedAt is when the rating was submitted
	ReviewedAt time.Time

	// Duration is how long the learner spent on the card. Zero when unknown.
	Duration time.Duration
}

// reviewEventJSON is the wire form of ReviewEvent. Durations travel as
// whole milliseconds.
type reviewEventJSON struct {
	ID         uuid.UUID     `json:"id"`
	CardID     uuid.UUID     `json:"card_id"`
	Rating     domain.Rating `json:"rating"`
	ReviewedAt time.Time     `json:"reviewed_at"`
	DurationMs int64         `json:"duration_ms"`
}

// NewReviewEvent creates a ReviewEvent with a fresh ID.
func NewReviewEvent(
	cardID uuid.UUID,
	rating domain.Rating,
	reviewedAt time.Time,
	duration time.Duration,
) (*ReviewEvent, error) {
	event := &ReviewEvent{
		ID:         uuid.New(),
		CardID:     cardID,
		Rating:     rating,
		ReviewedAt: reviewedAt,
		Duration:   duration,
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return event, nil
}

// Validate checks that the event names a card, carries a valid rating and
// has a non-negative duration.
func (e *ReviewEvent) Validate() error {
	switch {
	case e.CardID == uuid.Nil:
		return fmt.Errorf("%w: card ID cannot be empty", ErrInvalidEvent)
	case !e.Rating.IsValid():
		return fmt.Errorf("%w: %w", ErrInvalidEvent, domain.ErrInvalidRating)
	case e.ReviewedAt.IsZero():
		return fmt.Errorf("%w: reviewed at cannot be zero", ErrInvalidEvent)
	case e.Duration < 0:
		return fmt.Errorf("%w: duration cannot be negative", ErrInvalidEvent)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (e ReviewEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(reviewEventJSON{
		ID:         e.ID,
		CardID:     e.CardID,
		Rating:     e.Rating,
		ReviewedAt: e.ReviewedAt,
		DurationMs: e.Duration.Milliseconds(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *ReviewEvent) UnmarshalJSON(data []byte) error {
	var wire reviewEventJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*e = ReviewEvent{
		ID:         wire.ID,
		CardID:     wire.CardID,
		Rating:     wire.Rating,
		ReviewedAt: wire.ReviewedAt,
		Duration:   time.Duration(wire.DurationMs) * time.Millisecond,
	}
	return nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ReviewEvent) error
}

// EventHandlerFunc adapts an ordinary function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *ReviewEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *ReviewEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *ReviewEvent) error
}

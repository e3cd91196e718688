package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewedAt = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func TestNewReviewEvent(t *testing.T) {
	t.Parallel()
	cardID := uuid.New()

	event, err := NewReviewEvent(cardID, domain.RatingGood, reviewedAt, 4200*time.Millisecond)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, cardID, event.CardID)
	assert.Equal(t, domain.RatingGood, event.Rating)
	assert.Equal(t, reviewedAt, event.ReviewedAt)
}

func TestNewReviewEvent_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cardID     uuid.UUID
		rating     domain.Rating
		reviewedAt time.Time
		duration   time.Duration
	}{
		{name: "nil card", cardID: uuid.Nil, rating: domain.RatingGood, reviewedAt: reviewedAt},
		{name: "invalid rating", cardID: uuid.New(), rating: domain.Rating(9), reviewedAt: reviewedAt},
		{name: "zero time", cardID: uuid.New(), rating: domain.RatingEasy},
		{name: "negative duration", cardID: uuid.New(), rating: domain.RatingHard, reviewedAt: reviewedAt, duration: -time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewReviewEvent(tc.cardID, tc.rating, tc.reviewedAt, tc.duration)
			assert.ErrorIs(t, err, ErrInvalidEvent)
		})
	}
}

func TestReviewEvent_JSON(t *testing.T) {
	t.Parallel()
	event, err := NewReviewEvent(uuid.New(), domain.RatingAgain, reviewedAt, 1500*time.Millisecond)
	require.NoError(t, err)

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "again", wire["rating"])
	assert.Equal(t, float64(1500), wire["duration_ms"])
	assert.Equal(t, event.CardID.String(), wire["card_id"])

	var decoded ReviewEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.Duration, decoded.Duration)
	assert.True(t, event.ReviewedAt.Equal(decoded.ReviewedAt))
}

package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/service/card_review"
)

// StartSessionRequest opens a session. An empty mode means auto.
type StartSessionRequest struct {
	Mode string `json:"mode" validate:"omitempty,oneof=auto due round"`
}

// SubmitAnswerRequest rates the session's active card.
type SubmitAnswerRequest struct {
	Rating     string `json:"rating"      validate:"required,oneof=again hard good easy"`
	DurationMs int64  `json:"duration_ms" validate:"gte=0"`
}

// PostponeCardRequest pushes a card's due time forward.
type PostponeCardRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// CreateCardsRequest adds new cards. Each element is the card's content.
type CreateCardsRequest struct {
	Cards []json.RawMessage `json:"cards" validate:"required,min=1"`
}

// SessionResponse describes an open session.
type SessionResponse struct {
	ID        uuid.UUID `json:"session_id"`
	Mode      string    `json:"mode"`
	Size      int       `json:"size"`
	Remaining int       `json:"remaining"`
}

// CardResponse is a card with its scheduling state.
type CardResponse struct {
	ID              uuid.UUID       `json:"id"`
	Content         json.RawMessage `json:"content"`
	MasteryTier     string          `json:"mastery_tier"`
	RepetitionCount int             `json:"repetition_count"`
	IntervalDays    float64         `json:"interval_days"`
	EaseFactor      float64         `json:"ease_factor"`
	DueAt           *time.Time      `json:"due_at,omitempty"`
	LastReviewedAt  *time.Time      `json:"last_reviewed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateCardsResponse lists the cards that were created.
type CreateCardsResponse struct {
	Cards []CardResponse `json:"cards"`
}

func sessionToResponse(summary *card_review.SessionSummary) SessionResponse {
	return SessionResponse{
		ID:        summary.ID,
		Mode:      string(summary.Mode),
		Size:      summary.Size,
		Remaining: summary.Remaining,
	}
}

func cardToResponse(card *domain.ReviewableCard) CardResponse {
	return CardResponse{
		ID:              card.ID,
		Content:         card.Content,
		MasteryTier:     card.Tier().String(),
		RepetitionCount: card.State.RepetitionCount,
		IntervalDays:    card.State.IntervalDays(),
		EaseFactor:      card.State.EaseFactor,
		DueAt:           card.State.DueAt,
		LastReviewedAt:  card.State.LastReviewedAt,
		CreatedAt:       card.CreatedAt,
		UpdatedAt:       card.UpdatedAt,
	}
}

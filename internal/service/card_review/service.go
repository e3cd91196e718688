// Package card_review runs study sessions: it builds a batch from the card
// repository, walks it one card at a time and applies each rating through
// the scheduler.
package card_review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/domain/session"
)

// SessionMode selects how a session's batch is built.
type SessionMode string

// Session modes
const (
	// ModeAuto uses the due queue once any card has been scheduled and the
	// weighted round before that.
	ModeAuto  SessionMode = "auto"
	ModeDue   SessionMode = "due"
	ModeRound SessionMode = "round"
)

// ParseSessionMode converts a mode name (case-insensitive) into a
// SessionMode. An empty name means ModeAuto.
func ParseSessionMode(s string) (SessionMode, error) {
	switch mode := SessionMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeDue, ModeRound:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// ReviewAnswer represents a learner's answer to a flashcard review.
type ReviewAnswer struct {
	Rating   domain.Rating // The rating selected by the learner
	Duration time.Duration // Time spent on the card; zero when unknown
}

// SessionSummary describes a session and its progress.
type SessionSummary struct {
	ID        uuid.UUID     `json:"session_id"`
	Mode      SessionMode   `json:"mode"`
	Size      int           `json:"size"`
	Remaining int           `json:"remaining"`
	State     session.State `json:"-"`
}

// CardReviewService provides study sessions over the card repository.
type CardReviewService interface {
	// StartSession builds a batch for mode and opens a session over it.
	// ModeAuto resolves to ModeDue or ModeRound; the summary reports which.
	// An empty batch still opens a session, whose first NextCard returns
	// ErrNoCardsDue.
	StartSession(ctx context.Context, mode SessionMode) (*SessionSummary, error)

	// Session returns the current summary of an open session.
	Session(ctx context.Context, sessionID uuid.UUID) (*SessionSummary, error)

	// NextCard returns the session's active card, popping the next card of
	// the batch when none is active.
	//
	// Returns:
	//   - ErrSessionNotFound when the session does not exist
	//   - ErrNoCardsDue when every card of the batch has been handed out
	NextCard(ctx context.Context, sessionID uuid.UUID) (*domain.ReviewableCard, error)

	// SubmitAnswer applies a rating to the session's active card.
	//
	// The rating is validated before anything else. The card is re-read
	// from the repository, scheduled, persisted and a review event emitted.
	// The active card is then cleared so NextCard moves on.
	//
	// Returns:
	//   - ErrInvalidAnswer (wrapping domain.ErrInvalidRating) for a bad rating
	//   - ErrSessionNotFound when the session does not exist
	//   - ErrCardNotFound when the card is not in the repository
	//   - ErrCardNotActive when the card is not the session's active card
	SubmitAnswer(
		ctx context.Context,
		sessionID uuid.UUID,
		cardID uuid.UUID,
		answer ReviewAnswer,
	) (*domain.ReviewableCard, error)

	// ResetSession restores the session's original batch.
	ResetSession(ctx context.Context, sessionID uuid.UUID) (*SessionSummary, error)

	// EndSession discards the session.
	EndSession(ctx context.Context, sessionID uuid.UUID) error

	// PostponeCard pushes a card's due time forward by days.
	PostponeCard(ctx context.Context, cardID uuid.UUID, days int) (*domain.ReviewableCard, error)

	// AddCards creates never-reviewed cards for the given contents. Either
	// every card is created or none is.
	AddCards(ctx context.Context, contents []json.RawMessage) ([]*domain.ReviewableCard, error)
}

// Common error types for CardReviewService
var (
	// ErrNoCardsDue indicates that the session has no cards left to review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrSessionNotFound indicates that the session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotActive indicates that the card is not the session's active card.
	ErrCardNotActive = errors.New("card is not the active card of the session")

	// ErrInvalidAnswer indicates an invalid answer was provided.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrInvalidMode indicates an unknown session mode.
	ErrInvalidMode = errors.New("invalid session mode")

	// ErrInvalidCards indicates that a batch of new cards is empty or
	// contains invalid content.
	ErrInvalidCards = errors.New("invalid cards")
)

// ServiceError wraps errors from the card review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start_session", "submit_answer")
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

// NewServiceError returns a new ServiceError for operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-review/internal/api/shared"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/platform/logger"
	"github.com/phrazzld/scry-review/internal/service/card_review"
)

// SessionHandler handles study session requests.
type SessionHandler struct {
	reviewService card_review.CardReviewService
	logger        *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(reviewService card_review.CardReviewService, logger *slog.Logger) *SessionHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "session_handler")),
	}
}

// StartSession handles POST /api/sessions.
// An empty body starts an auto session.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	summary, err := h.reviewService.StartSession(r.Context(), card_review.SessionMode(req.Mode))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start session")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("session started",
		slog.String("session_id", summary.ID.String()),
		slog.String("mode", string(summary.Mode)),
		slog.Int("size", summary.Size))

	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(summary))
}

// GetSession handles GET /api/sessions/{id}.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := handlePathUUID(w, r, "id", "session")
	if !ok {
		return
	}

	summary, err := h.reviewService.Session(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(summary))
}

// NextCard handles GET /api/sessions/{id}/next.
// Responds 204 once the session has handed out every card.
func (h *SessionHandler) NextCard(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := handlePathUUID(w, r, "id", "session")
	if !ok {
		return
	}

	card, err := h.reviewService.NextCard(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get next card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// SubmitAnswer handles POST /api/sessions/{id}/cards/{cardID}/answer.
func (h *SessionHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := handlePathUUID(w, r, "id", "session")
	if !ok {
		return
	}
	cardID, ok := handlePathUUID(w, r, "cardID", "card")
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rating, err := domain.ParseRating(req.Rating)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid answer", err)
		return
	}

	card, err := h.reviewService.SubmitAnswer(r.Context(), sessionID, cardID, card_review.ReviewAnswer{
		Rating:   rating,
		Duration: time.Duration(req.DurationMs) * time.Millisecond,
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit answer")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("answer submitted",
		slog.String("session_id", sessionID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("rating", rating.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ResetSession handles POST /api/sessions/{id}/reset.
func (h *SessionHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := handlePathUUID(w, r, "id", "session")
	if !ok {
		return
	}

	summary, err := h.reviewService.ResetSession(r.Context(), sessionID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(summary))
}

// EndSession handles DELETE /api/sessions/{id}.
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := handlePathUUID(w, r, "id", "session")
	if !ok {
		return
	}

	if err := h.reviewService.EndSession(r.Context(), sessionID); err != nil {
		HandleAPIError(w, r, err, "Failed to end session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-review/internal/api/shared"
	"github.com/phrazzld/scry-review/internal/platform/logger"
	"github.com/phrazzld/scry-review/internal/service/card_review"
)

// CardHandler handles card requests that live outside a session.
type CardHandler struct {
	reviewService card_review.CardReviewService
	logger        *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(reviewService card_review.CardReviewService, logger *slog.Logger) *CardHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCards handles POST /api/cards.
func (h *CardHandler) CreateCards(w http.ResponseWriter, r *http.Request) {
	var req CreateCardsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cards, err := h.reviewService.AddCards(r.Context(), req.Cards)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create cards")
		return
	}

	resp := CreateCardsResponse{Cards: make([]CardResponse, 0, len(cards))}
	for _, card := range cards {
		resp.Cards = append(resp.Cards, cardToResponse(card))
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("cards created",
		slog.Int("count", len(cards)))

	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// PostponeCard handles POST /api/cards/{id}/postpone.
func (h *CardHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	cardID, ok := handlePathUUID(w, r, "id", "card")
	if !ok {
		return
	}

	var req PostponeCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.reviewService.PostponeCard(r.Context(), cardID, req.Days)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to postpone card")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("card postponed",
		slog.String("card_id", cardID.String()),
		slog.Int("days", req.Days))

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

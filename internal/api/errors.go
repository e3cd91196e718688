package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-review/internal/api/shared"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/domain/srs"
	"github.com/phrazzld/scry-review/internal/service/card_review"
	"github.com/phrazzld/scry-review/internal/store"
)

// MapErrorToStatusCode maps domain and service errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, card_review.ErrNoCardsDue):
		return http.StatusNoContent
	case errors.Is(err, card_review.ErrSessionNotFound),
		errors.Is(err, card_review.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, card_review.ErrInvalidAnswer),
		errors.Is(err, card_review.ErrInvalidMode),
		errors.Is(err, card_review.ErrInvalidCards),
		errors.Is(err, srs.ErrInvalidDays),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest
	case errors.Is(err, card_review.ErrCardNotActive),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a message that can be shown to clients.
// Internal errors never leak their details.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, card_review.ErrNoCardsDue):
		return "No cards left in this session"
	case errors.Is(err, card_review.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, card_review.ErrCardNotFound),
		errors.Is(err, store.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, card_review.ErrCardNotActive):
		return "Card is not the active card of this session"
	case errors.Is(err, card_review.ErrInvalidAnswer),
		errors.Is(err, domain.ErrInvalidRating):
		return "Invalid answer"
	case errors.Is(err, card_review.ErrInvalidMode):
		return "Invalid session mode"
	case errors.Is(err, card_review.ErrInvalidCards),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid card data"
	case errors.Is(err, srs.ErrInvalidDays):
		return "Days must be at least 1"
	case errors.Is(err, store.ErrDuplicate):
		return "Card already exists"
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a client-safe message
// naming the offending field and the rule it broke.
func SanitizeValidationError(err error) string {
	if errors.Is(err, shared.ErrEmptyBody) {
		return "Request body is required"
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "Invalid request format"
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fieldErr.Field()+" "+getValidationTagMessage(fieldErr.Tag(), fieldErr.Param()))
	}
	return "Validation failed: " + strings.Join(messages, "; ")
}

func getValidationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + param
	case "min":
		return "must be at least " + param
	case "gte":
		return "must be greater than or equal to " + param
	default:
		return "is invalid"
	}
}

// HandleAPIError writes the status and safe message for err.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	if msg == "" || status != http.StatusInternalServerError {
		msg = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/api/shared"
)

// ErrInvalidID is returned when a path parameter is not a UUID.
var ErrInvalidID = errors.New("invalid ID")

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return uuid.Nil, ErrInvalidID
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

// handlePathUUID writes a 400 response and returns false when the
// parameter is not a UUID.
func handlePathUUID(w http.ResponseWriter, r *http.Request, paramName, label string) (uuid.UUID, bool) {
	id, err := getPathUUID(r, paramName)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid "+label+" ID", err)
		return uuid.Nil, false
	}
	return id, true
}

// decodeAndValidate decodes the JSON body into req and validates it,
// writing a 400 response and returning false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		msg := "Invalid request format"
		if errors.Is(err, shared.ErrEmptyBody) {
			msg = "Request body is required"
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, msg, err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

// Package api exposes the HTTP surface of the marketplace.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/reachly/leadmatch/internal/common"
)

// jsonError is the error payload returned on every failed request.
type jsonError struct {
	Error string `json:"error"`
}

// writeJSONError writes a JSON error payload with the given status code.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message})
}

// writeError maps application errors to HTTP responses. Sentinel failures
// carry their user-facing message; anything else is an internal error with a
// generic message and the detail kept in the server log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, common.UserMessage(err))
	case errors.Is(err, common.ErrDuplicateEmail),
		errors.Is(err, common.ErrValidation),
		errors.Is(err, common.ErrInsufficientLeads),
		errors.Is(err, common.ErrAlreadyAccepted):
		writeJSONError(w, http.StatusBadRequest, common.UserMessage(err))
	default:
		slog.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestIDFromContext(r.Context()),
			"error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

// writeJSON writes a successful JSON response.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Package handler contains the HTTP layer: request decoding, calling
// into the service layer, and encoding responses.
//
// Every success response wraps its payload in a resource-named envelope
// ({"task": {...}}, {"tasks": [...]}) and every error response has the
// shape {"error": "...", "message": "..."} so clients can parse either
// without inspecting the status code first.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cashflowcoders/devplanner/internal/apperror"
	"github.com/cashflowcoders/devplanner/internal/auth"
)

// ErrorResponse is the standard error format returned by all API
// endpoints. Error is a machine-readable kind; Message is for humans;
// Field names the offending input field for validation errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// envelope wraps a payload under its resource name.
type envelope map[string]any

// writeJSON sends a JSON response. Headers and status must go out before
// the body — Encode writes immediately.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it. The
// service layer knows nothing about HTTP; this is the single place where
// apperror sentinels become status codes.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	// Unknown error — never expose internals to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "an internal error occurred",
	})
}

// decodeJSON reads the request body into dst. A malformed body is the
// client's fault, reported as a 400 validation error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON request body")
	}
	return nil
}

// requireIdentity pulls the authenticated identity out of the request
// context. On RequireAuth-protected routes it always succeeds; the
// fallback 401 guards against a route wired up without the middleware.
func requireIdentity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return nil, false
	}
	return ident, true
}

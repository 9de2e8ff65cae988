// Package handler implements the HTTP layer: request decoding and schema
// validation, orchestration of the auth gate and the services, and the
// response envelope.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/pastebin/internal/apperror"
)

// ErrorResponse is the envelope every error response uses. Detail is either
// a plain string (single-cause failures) or a list of apperror.FieldError
// (validation failures).
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// writeJSON sends a JSON response with the given status code. Headers must
// be set before the first byte of the body; callers adding headers (link
// headers, WWW-Authenticate) do so before calling this.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and envelope.
//
// The service layer deals in apperror sentinels; this is the only place they
// meet status codes. Anything that is not a classified AppError is a store
// or programming failure and becomes an opaque 500 — internal details never
// reach the client.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			w.Header().Set("WWW-Authenticate", "Bearer")
		}

		var detail any = appErr.Message
		if len(appErr.Fields) > 0 {
			detail = appErr.Fields
		}

		writeJSON(w, status, ErrorResponse{Detail: detail})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Detail: "An internal error occurred",
	})
}

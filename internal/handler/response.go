package handler

// RESPONSE HELPERS:
// Every JSON body this API sends goes through the helpers below so that the
// client always sees the same envelope:
//
//	success:          {"success": true,  "data": ...}
//	success, no data: {"success": true,  "message": "..."}
//	failure:          {"success": false, "message": "..."}
//
// The status endpoint is the one exception and writes its body directly.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
	"github.com/sakif/wellbeing-tracker/internal/auth"
)

const serverErrorMessage = "Server error"

// Envelope is the standard response shape.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status must be written BEFORE the body. Once Encode calls
// w.Write the headers are on the wire and later changes are ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: true, Message: message})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Message: message})
}

// writeError maps a domain error to an HTTP status and writes the failure
// envelope.
//
// errors.Is walks the whole chain, so a service returning
// fmt.Errorf("updating workout: %w", apperror.NotFound(...)) still maps to 404.
// Anything that is not an *AppError is an unexpected failure: it is logged
// with the operation name and the client only sees "Server error".
func writeError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		}
		if status != http.StatusInternalServerError {
			writeFailure(w, status, appErr.Message)
			return
		}
	}

	logger.Error(op+" failed", slog.String("error", err.Error()))
	writeFailure(w, http.StatusInternalServerError, serverErrorMessage)
}

// decodeJSON reads the request body into dst. A malformed body is reported
// to the client as a validation failure.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", "Invalid JSON body")
	}
	return nil
}

// callerID returns the user id RequireAuth stored in the context.
func callerID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

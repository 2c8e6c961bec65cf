package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/wellbeing-tracker/internal/service"
)

// MoodHandler serves mood logs. Every route sits behind auth.RequireAuth, so
// the caller id is always present in the request context.
type MoodHandler struct {
	moods  *service.MoodService
	logger *slog.Logger
}

func NewMoodHandler(moods *service.MoodService, logger *slog.Logger) *MoodHandler {
	return &MoodHandler{moods: moods, logger: logger}
}

// HandleCreate records a mood log for the caller. The owner and timestamp
// are set by the server; any "user" or "timestamp" in the body is ignored.
//
// HTTP: POST /api/v1/moods
func (h *MoodHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.MoodInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, "create mood log", err)
		return
	}

	mood, err := h.moods.Create(r.Context(), callerID(r), in)
	if err != nil {
		writeError(w, h.logger, "create mood log", err)
		return
	}
	writeData(w, http.StatusCreated, mood)
}

// HandleListForUser returns a user's mood logs, newest first. Callers may
// only list their own.
//
// HTTP: GET /api/v1/moods/user/{userId}
func (h *MoodHandler) HandleListForUser(w http.ResponseWriter, r *http.Request) {
	moods, err := h.moods.ListForUser(r.Context(), callerID(r), r.PathValue("userId"))
	if err != nil {
		writeError(w, h.logger, "list mood logs", err)
		return
	}
	writeData(w, http.StatusOK, moods)
}

// HTTP: GET /api/v1/moods/{id}
func (h *MoodHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	mood, err := h.moods.Get(r.Context(), callerID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "get mood log", err)
		return
	}
	writeData(w, http.StatusOK, mood)
}

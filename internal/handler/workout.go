package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
	"github.com/sakif/wellbeing-tracker/internal/service"
)

type WorkoutHandler struct {
	workouts *service.WorkoutService
	logger   *slog.Logger
}

func NewWorkoutHandler(workouts *service.WorkoutService, logger *slog.Logger) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts, logger: logger}
}

// HTTP: POST /api/v1/workouts
func (h *WorkoutHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.WorkoutInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, "create workout", err)
		return
	}

	workout, err := h.workouts.Create(r.Context(), callerID(r), in)
	if err != nil {
		writeError(w, h.logger, "create workout", err)
		return
	}
	writeData(w, http.StatusCreated, workout)
}

// HandleList returns the caller's workouts, most recent first.
//
// HTTP: GET /api/v1/workouts?limit=20&offset=0
//
// QUERY PARAMETERS:
// Both are optional. Missing values fall back to the service defaults;
// values that are not integers are rejected with 400.
func (h *WorkoutHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, h.logger, "list workouts", err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, h.logger, "list workouts", err)
		return
	}

	workouts, err := h.workouts.List(r.Context(), callerID(r), limit, offset)
	if err != nil {
		writeError(w, h.logger, "list workouts", err)
		return
	}
	writeData(w, http.StatusOK, workouts)
}

// HTTP: GET /api/v1/workouts/{id}
func (h *WorkoutHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	workout, err := h.workouts.Get(r.Context(), callerID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, "get workout", err)
		return
	}
	writeData(w, http.StatusOK, workout)
}

// HandleUpdate is mounted on both PATCH and PUT. Either way the body is a
// partial update.
//
// HTTP: PATCH /api/v1/workouts/{id}
func (h *WorkoutHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.WorkoutInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, "update workout", err)
		return
	}

	workout, err := h.workouts.Update(r.Context(), callerID(r), r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.logger, "update workout", err)
		return
	}
	writeData(w, http.StatusOK, workout)
}

// HTTP: DELETE /api/v1/workouts/{id}
func (h *WorkoutHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.workouts.Delete(r.Context(), callerID(r), r.PathValue("id")); err != nil {
		writeError(w, h.logger, "delete workout", err)
		return
	}
	writeMessage(w, http.StatusOK, "Workout deleted")
}

// queryInt parses an optional integer query parameter. Zero means "not set".
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.ValidationFailed(name, name+" must be an integer")
	}
	return n, nil
}

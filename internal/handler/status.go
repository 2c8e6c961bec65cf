package handler

import "net/http"

const statusMessage = "API is up and running!"

// HandleStatus is the liveness probe.
//
// HTTP: GET /api/v1/status
//
// It ignores the request entirely and is not wrapped in the envelope.
func HandleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": statusMessage})
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/wellbeing-tracker/internal/service"
)

// ContactHandler serves the emergency contact directory. These routes are
// public and the directory is shared, not per user.
type ContactHandler struct {
	contacts *service.ContactService
	logger   *slog.Logger
}

func NewContactHandler(contacts *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger}
}

// HandleCreate adds a contact.
//
// HTTP: POST /api/v1/emergencycontacts
// REQUEST BODY: {"firstName":"Sam","lastName":"Jones","mobileNumber":"07700 900123","gender":"male"}
func (h *ContactHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, "create contact", err)
		return
	}

	contact, err := h.contacts.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, "create contact", err)
		return
	}
	writeData(w, http.StatusCreated, contact)
}

// HandleList returns every contact, ordered by name.
//
// HTTP: GET /api/v1/emergencycontacts
func (h *ContactHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.List(r.Context())
	if err != nil {
		writeError(w, h.logger, "list contacts", err)
		return
	}
	writeData(w, http.StatusOK, contacts)
}

// HandleUpdate applies a partial update. Only the fields present in the body
// change; the merged record is validated again before it is stored.
//
// HTTP: PUT /api/v1/emergencycontacts/{id}
func (h *ContactHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, "update contact", err)
		return
	}

	contact, err := h.contacts.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.logger, "update contact", err)
		return
	}
	writeData(w, http.StatusOK, contact)
}

// HTTP: DELETE /api/v1/emergencycontacts/{id}
func (h *ContactHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.contacts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.logger, "delete contact", err)
		return
	}
	writeMessage(w, http.StatusOK, "Emergency contact deleted")
}

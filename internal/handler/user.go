package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/wellbeing-tracker/internal/service"
)

// UserHandler covers registration, password login and the caller's own
// account (/users/me).
type UserHandler struct {
	users  *service.UserService
	logger *slog.Logger
}

func NewUserHandler(users *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// loginRequest accepts the identifier under any of three names so that
// forms posting "username" or "email" work without a client change.
type loginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (l loginRequest) identifier() string {
	switch {
	case l.Login != "":
		return l.Login
	case l.Username != "":
		return l.Username
	default:
		return l.Email
	}
}

// HandleRegister creates an account and returns it together with a token,
// so the client is signed in straight away.
//
// HTTP: POST /api/v1/users
// REQUEST BODY: {"forenames":"Ada","surname":"Lovelace","username":"ada","email":"ada@example.com","password":"..."}
// RESPONSE: 201 {"success":true,"data":{"user":{...},"token":"eyJ..."}}
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, "register", err)
		return
	}

	res, err := h.users.Register(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, "register", err)
		return
	}
	writeData(w, http.StatusCreated, res)
}

// HandleLogin exchanges a username or email plus password for a token.
//
// HTTP: POST /api/v1/auth/login
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, "login", err)
		return
	}

	res, err := h.users.Login(r.Context(), req.identifier(), req.Password)
	if err != nil {
		writeError(w, h.logger, "login", err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// HandleMe returns the authenticated user's profile.
//
// HTTP: GET /api/v1/users/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), callerID(r))
	if err != nil {
		writeError(w, h.logger, "get profile", err)
		return
	}
	writeData(w, http.StatusOK, user)
}

// HTTP: PUT /api/v1/users/me
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateUserInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, "update profile", err)
		return
	}

	user, err := h.users.Update(r.Context(), callerID(r), in)
	if err != nil {
		writeError(w, h.logger, "update profile", err)
		return
	}
	writeData(w, http.StatusOK, user)
}

// HandleDeleteMe removes the account. Mood logs and workouts the user
// recorded are left in place.
//
// HTTP: DELETE /api/v1/users/me
func (h *UserHandler) HandleDeleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.users.Delete(r.Context(), callerID(r)); err != nil {
		writeError(w, h.logger, "delete account", err)
		return
	}
	writeMessage(w, http.StatusOK, "Account deleted")
}

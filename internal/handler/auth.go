package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/sakif/wellbeing-tracker/internal/auth"
	"github.com/sakif/wellbeing-tracker/internal/service"
)

const stateCookieName = "oauth_state"

// AuthHandler manages the GitHub OAuth sign-in flow.
//
// HANDLER RESPONSIBILITIES:
//   - HandleGitHubLogin    → redirect the browser to GitHub's authorization page
//   - HandleGitHubCallback → receive the code, exchange it for a profile, issue a token
//
// Password login lives on UserHandler; both end in the same {user, token}
// response so the client handles them alike.
type AuthHandler struct {
	github *auth.GitHubProvider
	users  *service.UserService
	logger *slog.Logger
}

func NewAuthHandler(github *auth.GitHubProvider, users *service.UserService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		github: github,
		users:  users,
		logger: logger,
	}
}

// HandleGitHubLogin redirects the user to GitHub's authorization page.
//
// HTTP: GET /api/v1/auth/github/login
//
// CSRF PROTECTION VIA STATE:
// A random state value goes both into a short-lived HttpOnly cookie and into
// the redirect URL. The callback only proceeds when the two match.
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow.
//
// HTTP: GET /api/v1/auth/github/callback?code=xxx&state=yyy
//
// FLOW:
//  1. Validate the state parameter against the cookie
//  2. Exchange the code for a GitHub profile
//  3. Create or refresh the linked account and issue a token
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("github callback: state missing or mismatched")
		writeFailure(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	// single use
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("github callback: authorization denied", slog.String("error", errParam))
		writeFailure(w, http.StatusUnauthorized, "GitHub authorization was denied")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeFailure(w, http.StatusBadRequest, "Missing OAuth code")
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("github callback: exchange failed", slog.String("error", err.Error()))
		writeFailure(w, http.StatusBadGateway, "GitHub authentication failed")
		return
	}

	res, err := h.users.LoginWithGitHub(r.Context(), ghUser)
	if err != nil {
		writeError(w, h.logger, "github login", err)
		return
	}
	writeData(w, http.StatusOK, res)
}

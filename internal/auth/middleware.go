package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type so no other package can read or overwrite
// the caller identity stored in a request context.
type contextKey string

const userIDKey contextKey = "userID"

// unauthorizedBody is written by hand rather than through the handler package's
// helpers, which would create an import cycle (handler already imports auth).
const unauthorizedBody = `{"success":false,"message":"Not authorized, token missing or invalid"}` + "\n"

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads "Authorization: Bearer <token>", validates the token and stores the
// subject in the request context. Missing or invalid tokens stop the chain
// with 401 and the standard error envelope.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(unauthorizedBody))
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}

// ContextWithUserID returns a copy of ctx carrying userID as the caller identity.
// RequireAuth uses it; tests use it to fake an authenticated request.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext retrieves the authenticated user's ID from the request context.
// Returns ("", false) if the request did not pass through RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	token, ok := BearerToken(r)
	if !ok {
		return "", errMissingToken
	}
	return tokens.Validate(token)
}

type authError string

func (e authError) Error() string { return string(e) }

const errMissingToken = authError("auth: missing bearer token")

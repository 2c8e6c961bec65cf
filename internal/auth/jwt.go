// Package auth provides JWT token generation and validation, bearer-token
// middleware, password hashing and GitHub sign-in for the tracker API.
//
// AUTHENTICATION FLOW OVERVIEW:
//  1. The client registers (POST /api/v1/users) or logs in (POST /api/v1/auth/login)
//     and receives a signed access token in the response body.
//  2. The client sends it back on every protected call as
//     "Authorization: Bearer <token>".
//  3. RequireAuth validates the token and puts the user ID ("sub" claim) into
//     the request context, where handlers read it as the caller identity.
//
// Tokens are stateless: there is no revocation list and no refresh token.
// A token stays valid until it expires, 24 hours after issue.
//
// JWT STRUCTURE (three base64-encoded parts separated by dots):
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"sub":"userID","iat":...,"exp":...,"iss":"wellbeing-tracker"}
//	- Signature: HMAC-SHA256(header+"."+payload, secretKey)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is how long an issued access token stays valid.
const TokenLifetime = 24 * time.Hour

const issuer = "wellbeing-tracker"

// MinSecretLength is the shortest JWT secret NewTokenService accepts.
const MinSecretLength = 16

// TokenService handles JWT creation and validation.
// The same secret is used for both operations.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// Example: JWT_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("auth: JWT secret must be at least %d characters", MinSecretLength)
	}
	return &TokenService{secret: []byte(secret)}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Generate signs a token for userID that expires after TokenLifetime.
func (s *TokenService) Generate(userID string) (string, error) {
	return s.GenerateWithDuration(userID, TokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry duration.
// Used in tests and by the mock-token CLI.
func (s *TokenService) GenerateWithDuration(userID string, d time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("auth: cannot sign a token without a subject")
	}

	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a JWT string and returns the userID stored in
// the "sub" claim.
//
// Failures from the jwt library are wrapped with %w, never replaced, so callers
// can still test for the underlying cause:
//
//	errors.Is(err, jwt.ErrTokenExpired)
//	errors.Is(err, jwt.ErrTokenMalformed)
//	errors.Is(err, jwt.ErrTokenSignatureInvalid)
//
// jwt.WithValidMethods rejects anything but HS256, which blocks "alg: none"
// and algorithm-confusion tokens.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", errors.New("auth: invalid token claims")
	}
	if c.Subject == "" {
		return "", errors.New("auth: token has no subject")
	}

	return c.Subject, nil
}

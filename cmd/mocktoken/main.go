// Command mocktoken prints a bearer token for a user id, signed with the same
// JWT_SECRET the server uses. It is meant for poking at protected routes
// with curl during development:
//
//	curl -H "Authorization: Bearer $(go run ./cmd/mocktoken -user <id>)" localhost:8080/api/v1/users/me
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/sakif/wellbeing-tracker/internal/auth"
	"github.com/sakif/wellbeing-tracker/internal/config"
)

func main() {
	userID := flag.String("user", "", "user id to put in the token subject (required)")
	ttl := flag.Duration("ttl", auth.TokenLifetime, "token lifetime")
	flag.Parse()

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		slog.Error("failed to create token service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	token, err := tokens.GenerateWithDuration(*userID, *ttl)
	if err != nil {
		slog.Error("failed to sign token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}

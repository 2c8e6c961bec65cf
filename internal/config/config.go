// Package config loads the server configuration from the environment.
//
// An optional .env file in the working directory is loaded first with
// godotenv (real environment variables win over it), then every key is read
// through viper with the defaults below.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sakif/wellbeing-tracker/internal/auth"
)

const memoryDB = ":memory:"

type Config struct {
	Port          int
	DBPath        string
	SupportDBPath string
	JWTSecret     string

	CORSAllowedOrigins []string
	LogLevel           slog.Level
	LoginRatePerMinute int

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// GitHubEnabled reports whether GitHub sign-in should be mounted.
func (c Config) GitHubEnabled() bool {
	return c.GitHubClientID != "" && c.GitHubClientSecret != ""
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: reading .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", 8080)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOGIN_RATE_PER_MINUTE", 10)
	return v
}

// FromViper builds a Config from an already populated viper instance.
// Tests use it with v.Set instead of touching the process environment.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:               v.GetInt("PORT"),
		DBPath:             strings.TrimSpace(v.GetString("DB_PATH")),
		SupportDBPath:      strings.TrimSpace(v.GetString("SUPPORT_DB_PATH")),
		JWTSecret:          v.GetString("JWT_SECRET"),
		LoginRatePerMinute: v.GetInt("LOGIN_RATE_PER_MINUTE"),
		GitHubClientID:     v.GetString("GITHUB_CLIENT_ID"),
		GitHubClientSecret: v.GetString("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  v.GetString("GITHUB_CALLBACK_URL"),
	}

	if cfg.DBPath == "" {
		return Config{}, errors.New("config: DB_PATH is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("config: JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < auth.MinSecretLength {
		return Config{}, fmt.Errorf("config: JWT_SECRET must be at least %d characters", auth.MinSecretLength)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("config: PORT %d out of range", cfg.Port)
	}
	if cfg.LoginRatePerMinute < 1 {
		return Config{}, errors.New("config: LOGIN_RATE_PER_MINUTE must be positive")
	}

	if cfg.SupportDBPath == "" {
		cfg.SupportDBPath = defaultSupportPath(cfg.DBPath)
	}

	level, err := parseLevel(v.GetString("LOG_LEVEL"))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/api/v1/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}

// defaultSupportPath puts support.db beside the main database file.
func defaultSupportPath(dbPath string) string {
	if dbPath == memoryDB {
		return memoryDB
	}
	return filepath.Join(filepath.Dir(dbPath), "support.db")
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("config: LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

package config

import (
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseViper(overrides map[string]any) *viper.Viper {
	v := newViper()
	v.Set("DB_PATH", "/var/lib/wellbeing/main.db")
	v.Set("JWT_SECRET", "0123456789abcdef0123")
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(baseViper(nil))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/var/lib/wellbeing/support.db", cfg.SupportDBPath)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 10, cfg.LoginRatePerMinute)
	assert.Equal(t, "http://localhost:8080/api/v1/auth/github/callback", cfg.GitHubCallbackURL)
	assert.False(t, cfg.GitHubEnabled())
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := FromViper(baseViper(map[string]any{
		"PORT":                  "9090",
		"SUPPORT_DB_PATH":       "/data/contacts.db",
		"CORS_ALLOWED_ORIGINS":  "https://app.example.com, https://admin.example.com ,",
		"LOG_LEVEL":             "debug",
		"LOGIN_RATE_PER_MINUTE": "3",
		"GITHUB_CLIENT_ID":      "id",
		"GITHUB_CLIENT_SECRET":  "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/data/contacts.db", cfg.SupportDBPath)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 3, cfg.LoginRatePerMinute)
	assert.True(t, cfg.GitHubEnabled())
}

func TestFromViper_InMemory(t *testing.T) {
	cfg, err := FromViper(baseViper(map[string]any{"DB_PATH": ":memory:"}))
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.SupportDBPath)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		wantErr   string
	}{
		{"missing DB_PATH", map[string]any{"DB_PATH": ""}, "DB_PATH is required"},
		{"missing JWT_SECRET", map[string]any{"JWT_SECRET": ""}, "JWT_SECRET is required"},
		{"short JWT_SECRET", map[string]any{"JWT_SECRET": "short"}, "at least 16"},
		{"bad port", map[string]any{"PORT": "70000"}, "PORT"},
		{"bad log level", map[string]any{"LOG_LEVEL": "chatty"}, "LOG_LEVEL"},
		{"zero rate", map[string]any{"LOGIN_RATE_PER_MINUTE": "0"}, "LOGIN_RATE_PER_MINUTE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromViper(baseViper(tt.overrides))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("JWT_SECRET", "environment-secret-value")
	t.Setenv("PORT", "8181")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
}

// Package main is the entry point for the wellbeing tracker API.
//
// main stays minimal: load configuration, build the logger, hand both to the
// server and block until it stops. All behaviour lives under internal/.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/wellbeing-tracker/internal/config"
	"github.com/sakif/wellbeing-tracker/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Log levels (least to most severe): Debug → Info → Warn → Error.
	// LOG_LEVEL picks the threshold; the default is info.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

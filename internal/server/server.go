// Package server wires configuration, storage, services and handlers into an
// HTTP server.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config → Server.New opens both SQLite databases
//	sqlite.DB (default) → UserService, MoodService, WorkoutService
//	sqlite.DB (support) → ContactService
//	services → handlers → routes
//
// This is the "composition root": every dependency is built here and passed
// down, nothing below this package constructs its own collaborators.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/sakif/wellbeing-tracker/internal/auth"
	"github.com/sakif/wellbeing-tracker/internal/config"
	"github.com/sakif/wellbeing-tracker/internal/handler"
	"github.com/sakif/wellbeing-tracker/internal/middleware"
	sqliteRepo "github.com/sakif/wellbeing-tracker/internal/repository/sqlite"
	"github.com/sakif/wellbeing-tracker/internal/service"
)

const (
	requestTimeout  = 10 * time.Second
	shutdownTimeout = 30 * time.Second
)

// Server owns both database connections; Start closes them on shutdown.
type Server struct {
	router    *chi.Mux
	handler   http.Handler
	config    config.Config
	logger    *slog.Logger
	db        *sqliteRepo.DB
	supportDB *sqliteRepo.DB
}

// New opens the databases, builds every service and handler and mounts the
// routes. If anything fails the databases opened so far are closed again.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	for _, path := range []string{cfg.DBPath, cfg.SupportDBPath} {
		if err := ensureDir(path); err != nil {
			return nil, err
		}
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	supportDB, err := sqliteRepo.NewSupport(cfg.SupportDBPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening support database: %w", err)
	}

	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		logger:    logger,
		db:        db,
		supportDB: supportDB,
	}
	s.setupRoutes(tokens)

	s.handler = cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler(s.router)

	return s, nil
}

// Handler returns the fully wrapped HTTP handler (CORS + router).
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures middleware and routes.
//
// ROUTE STRUCTURE (all under /api/v1):
//
//	GET    /status                       → liveness
//	POST   /emergencycontacts            → create contact
//	GET    /emergencycontacts            → list contacts
//	PUT    /emergencycontacts/{id}       → update contact
//	DELETE /emergencycontacts/{id}       → delete contact
//	POST   /users                        → register
//	POST   /auth/login                   → password login (rate limited)
//	GET    /auth/github/login            → GitHub redirect   (when configured)
//	GET    /auth/github/callback         → GitHub callback   (when configured)
//	GET    /users/me, PUT, DELETE        → own account       [auth]
//	POST   /moods                        → record mood log   [auth]
//	GET    /moods/user/{userId}          → list mood logs    [auth]
//	GET    /moods/{id}                   → get mood log      [auth]
//	POST   /workouts, GET                → create, list      [auth]
//	GET    /workouts/{id}, PATCH, PUT, DELETE                [auth]
//
// MIDDLEWARE ORDER MATTERS: RequestID and RealIP must run before the logger
// and the rate limiter, which read what they set.
func (s *Server) setupRoutes(tokens *auth.TokenService) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(requestTimeout))

	passwords := auth.NewPasswordService()

	userService := service.NewUserService(s.db, tokens, passwords, s.logger)
	moodService := service.NewMoodService(s.db, s.db, s.logger)
	workoutService := service.NewWorkoutService(s.db, s.logger)
	contactService := service.NewContactService(s.supportDB, s.logger)

	users := handler.NewUserHandler(userService, s.logger)
	moods := handler.NewMoodHandler(moodService, s.logger)
	workouts := handler.NewWorkoutHandler(workoutService, s.logger)
	contacts := handler.NewContactHandler(contactService, s.logger)

	loginLimiter := middleware.NewRateLimiter(s.config.LoginRatePerMinute)
	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", handler.HandleStatus)

		r.Route("/emergencycontacts", func(r chi.Router) {
			r.Post("/", contacts.HandleCreate)
			r.Get("/", contacts.HandleList)
			r.Put("/{id}", contacts.HandleUpdate)
			r.Delete("/{id}", contacts.HandleDelete)
		})

		r.Post("/users", users.HandleRegister)
		r.With(loginLimiter.Middleware).Post("/auth/login", users.HandleLogin)

		if s.config.GitHubEnabled() {
			github := auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)
			oauth := handler.NewAuthHandler(github, userService, s.logger)
			r.Get("/auth/github/login", oauth.HandleGitHubLogin)
			r.Get("/auth/github/callback", oauth.HandleGitHubCallback)
		} else {
			s.logger.Info("GitHub sign-in disabled: GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET not set")
		}

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/users/me", users.HandleMe)
			r.Put("/users/me", users.HandleUpdateMe)
			r.Delete("/users/me", users.HandleDeleteMe)

			r.Post("/moods", moods.HandleCreate)
			r.Get("/moods/user/{userId}", moods.HandleListForUser)
			r.Get("/moods/{id}", moods.HandleGetByID)

			r.Route("/workouts", func(r chi.Router) {
				r.Post("/", workouts.HandleCreate)
				r.Get("/", workouts.HandleList)
				r.Get("/{id}", workouts.HandleGetByID)
				r.Patch("/{id}", workouts.HandleUpdate)
				r.Put("/{id}", workouts.HandleUpdate)
				r.Delete("/{id}", workouts.HandleDelete)
			})
		})
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30s and closes both databases.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("supportDatabase", s.config.SupportDBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Close releases both database connections.
func (s *Server) Close() error {
	return errors.Join(s.db.Close(), s.supportDB.Close())
}

// ensureDir creates the parent directory of a database file, like mkdir -p.
func ensureDir(dbPath string) error {
	if dbPath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating database directory %s: %w", dir, err)
	}
	return nil
}

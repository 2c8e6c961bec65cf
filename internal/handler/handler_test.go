package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/wellbeing-tracker/internal/auth"
	"github.com/sakif/wellbeing-tracker/internal/handler"
	sqliteRepo "github.com/sakif/wellbeing-tracker/internal/repository/sqlite"
	"github.com/sakif/wellbeing-tracker/internal/service"
)

const testSecret = "handler-test-secret-0123456789"

// testAPI is the real stack (services over in-memory SQLite) behind a chi
// router laid out like the production one.
type testAPI struct {
	router    http.Handler
	tokens    *auth.TokenService
	users     *service.UserService
	db        *sqliteRepo.DB
	supportDB *sqliteRepo.DB
}

// envelope mirrors handler.Envelope with Data kept raw so each test can
// decode it into whatever shape it expects.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	supportDB, err := sqliteRepo.NewSupport(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { supportDB.Close() })

	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)

	users := service.NewUserService(db, tokens, passwords, logger)
	contacts := handler.NewContactHandler(service.NewContactService(supportDB, logger), logger)
	moods := handler.NewMoodHandler(service.NewMoodService(db, db, logger), logger)
	workouts := handler.NewWorkoutHandler(service.NewWorkoutService(db, logger), logger)
	accounts := handler.NewUserHandler(users, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", handler.HandleStatus)

		r.Post("/emergencycontacts", contacts.HandleCreate)
		r.Get("/emergencycontacts", contacts.HandleList)
		r.Put("/emergencycontacts/{id}", contacts.HandleUpdate)
		r.Delete("/emergencycontacts/{id}", contacts.HandleDelete)

		r.Post("/users", accounts.HandleRegister)
		r.Post("/auth/login", accounts.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/users/me", accounts.HandleMe)
			r.Put("/users/me", accounts.HandleUpdateMe)
			r.Delete("/users/me", accounts.HandleDeleteMe)

			r.Post("/moods", moods.HandleCreate)
			r.Get("/moods/user/{userId}", moods.HandleListForUser)
			r.Get("/moods/{id}", moods.HandleGetByID)

			r.Post("/workouts", workouts.HandleCreate)
			r.Get("/workouts", workouts.HandleList)
			r.Get("/workouts/{id}", workouts.HandleGetByID)
			r.Patch("/workouts/{id}", workouts.HandleUpdate)
			r.Delete("/workouts/{id}", workouts.HandleDelete)
		})
	})

	return &testAPI{router: r, tokens: tokens, users: users, db: db, supportDB: supportDB}
}

// do sends a request through the router. body may be a string (sent as-is)
// or any value (JSON encoded). token may be empty.
func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

// register creates an account through the service and returns its id and a
// valid token.
func (a *testAPI) register(t *testing.T, username string) (string, string) {
	t.Helper()
	res, err := a.users.Register(t.Context(), service.RegisterInput{
		Forenames: "Test",
		Surname:   "User",
		Username:  username,
		Email:     username + "@example.com",
		Password:  "correct-horse-battery",
	})
	require.NoError(t, err)
	return res.User.ID, res.Token
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env), "body: %s", rr.Body.String())
	return env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

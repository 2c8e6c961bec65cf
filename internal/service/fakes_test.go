package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
	"github.com/sakif/wellbeing-tracker/internal/auth"
	"github.com/sakif/wellbeing-tracker/internal/model"
	"github.com/sakif/wellbeing-tracker/internal/repository"
)

// In-memory fakes for the repository interfaces. They copy records on the way
// in and out so tests catch code that relies on aliasing.

type fakeStore struct {
	nextID   int
	users    map[string]*model.User
	moods    map[string]*model.MoodLog
	workouts map[string]*model.Workout
	contacts map[string]*model.EmergencyContact

	failWith error // when set, every call returns it
}

var (
	_ repository.UserRepository    = (*fakeStore)(nil)
	_ repository.MoodRepository    = (*fakeStore)(nil)
	_ repository.WorkoutRepository = (*fakeStore)(nil)
	_ repository.ContactRepository = (*fakeStore)(nil)
)

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    make(map[string]*model.User),
		moods:    make(map[string]*model.MoodLog),
		workouts: make(map[string]*model.Workout),
		contacts: make(map[string]*model.EmergencyContact),
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return apperror.Conflict("User", "username")
		}
		if existing.Email == u.Email {
			return apperror.Conflict("User", "email")
		}
	}
	u.ID = f.id("user")
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("User", id)
	}
	out := *u
	return &out, nil
}

func (f *fakeStore) GetUserByLogin(_ context.Context, login string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Username == login || u.Email == login {
			out := *u
			return &out, nil
		}
	}
	return nil, apperror.NotFound("User", login)
}

func (f *fakeStore) UpsertGitHubUser(ctx context.Context, u *model.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, existing := range f.users {
		if existing.GitHubID != u.GitHubID {
			continue
		}
		for _, other := range f.users {
			if other.ID == existing.ID {
				continue
			}
			if other.Username == u.Username {
				return apperror.Conflict("User", "username")
			}
			if other.Email == u.Email {
				return apperror.Conflict("User", "email")
			}
		}
		existing.Username = u.Username
		existing.Email = u.Email
		*u = *existing
		return nil
	}
	return f.CreateUser(ctx, u)
}

func (f *fakeStore) UpdateUser(_ context.Context, id string, apply func(*model.User) error) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	existing, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("User", id)
	}
	u := *existing
	if err := apply(&u); err != nil {
		return nil, err
	}
	stored := u
	f.users[id] = &stored
	return &u, nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return apperror.NotFound("User", id)
	}
	delete(f.users, id)
	return nil
}

func (f *fakeStore) CreateMood(_ context.Context, m *model.MoodLog) error {
	if f.failWith != nil {
		return f.failWith
	}
	m.ID = f.id("mood")
	stored := *m
	f.moods[m.ID] = &stored
	return nil
}

func (f *fakeStore) GetMoodByID(_ context.Context, id string) (*model.MoodLog, error) {
	m, ok := f.moods[id]
	if !ok {
		return nil, apperror.NotFound("Mood log", id)
	}
	out := *m
	return &out, nil
}

func (f *fakeStore) ListMoodsByUser(_ context.Context, userID string) ([]model.MoodLog, error) {
	out := []model.MoodLog{}
	for _, m := range f.moods {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (f *fakeStore) CreateWorkout(_ context.Context, w *model.Workout) error {
	if f.failWith != nil {
		return f.failWith
	}
	w.ID = f.id("workout")
	stored := *w
	f.workouts[w.ID] = &stored
	return nil
}

func (f *fakeStore) GetWorkoutByID(_ context.Context, id string) (*model.Workout, error) {
	w, ok := f.workouts[id]
	if !ok {
		return nil, apperror.NotFound("Workout", id)
	}
	out := *w
	return &out, nil
}

func (f *fakeStore) ListWorkoutsByUser(_ context.Context, userID string, opts repository.ListOptions) ([]model.Workout, error) {
	out := []model.Workout{}
	for _, w := range f.workouts {
		if w.UserID == userID {
			out = append(out, *w)
		}
	}
	if opts.Offset >= len(out) {
		return []model.Workout{}, nil
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateWorkout(_ context.Context, id string, apply func(*model.Workout) error) (*model.Workout, error) {
	existing, ok := f.workouts[id]
	if !ok {
		return nil, apperror.NotFound("Workout", id)
	}
	w := *existing
	if err := apply(&w); err != nil {
		return nil, err
	}
	w.UserID = existing.UserID
	stored := w
	f.workouts[id] = &stored
	return &w, nil
}

func (f *fakeStore) DeleteWorkout(_ context.Context, id string) error {
	if _, ok := f.workouts[id]; !ok {
		return apperror.NotFound("Workout", id)
	}
	delete(f.workouts, id)
	return nil
}

func (f *fakeStore) CreateContact(_ context.Context, c *model.EmergencyContact) error {
	if f.failWith != nil {
		return f.failWith
	}
	c.ID = f.id("contact")
	stored := *c
	f.contacts[c.ID] = &stored
	return nil
}

func (f *fakeStore) GetContactByID(_ context.Context, id string) (*model.EmergencyContact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, apperror.NotFound("Emergency contact", id)
	}
	out := *c
	return &out, nil
}

func (f *fakeStore) ListContacts(_ context.Context) ([]model.EmergencyContact, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := []model.EmergencyContact{}
	for _, c := range f.contacts {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeStore) UpdateContact(_ context.Context, id string, apply func(*model.EmergencyContact) error) (*model.EmergencyContact, error) {
	existing, ok := f.contacts[id]
	if !ok {
		return nil, apperror.NotFound("Emergency contact", id)
	}
	c := *existing
	if err := apply(&c); err != nil {
		return nil, err
	}
	stored := c
	f.contacts[id] = &stored
	return &c, nil
}

func (f *fakeStore) DeleteContact(_ context.Context, id string) error {
	if _, ok := f.contacts[id]; !ok {
		return apperror.NotFound("Emergency contact", id)
	}
	delete(f.contacts, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	ts, err := auth.NewTokenService("service-test-secret-0123456789")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func testPasswords() *auth.PasswordService {
	return auth.NewPasswordServiceWithCost(bcrypt.MinCost)
}

func ptr[T any](v T) *T { return &v }

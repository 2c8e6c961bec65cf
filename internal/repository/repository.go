// Package repository declares the storage interfaces the service layer depends on.
//
// Services only see these interfaces, never *sqlite.DB, so tests can swap in
// in-memory fakes. Every method takes a context so request cancellation reaches
// the database driver.
//
// Update methods take an apply callback instead of a finished record. The
// implementation loads the current row, hands it to apply and writes the
// result back as one atomic operation, so two partial updates of the same
// record cannot overwrite each other. apply returning an error aborts the
// update and the error is returned unchanged.
package repository

import (
	"context"

	"github.com/sakif/wellbeing-tracker/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	UpsertGitHubUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, id string, apply func(*model.User) error) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// MoodRepository has no update or delete: mood logs are immutable.
type MoodRepository interface {
	CreateMood(ctx context.Context, mood *model.MoodLog) error
	GetMoodByID(ctx context.Context, id string) (*model.MoodLog, error)
	ListMoodsByUser(ctx context.Context, userID string) ([]model.MoodLog, error)
}

type WorkoutRepository interface {
	CreateWorkout(ctx context.Context, workout *model.Workout) error
	GetWorkoutByID(ctx context.Context, id string) (*model.Workout, error)
	ListWorkoutsByUser(ctx context.Context, userID string, opts ListOptions) ([]model.Workout, error)
	UpdateWorkout(ctx context.Context, id string, apply func(*model.Workout) error) (*model.Workout, error)
	DeleteWorkout(ctx context.Context, id string) error
}

type ContactRepository interface {
	CreateContact(ctx context.Context, contact *model.EmergencyContact) error
	GetContactByID(ctx context.Context, id string) (*model.EmergencyContact, error)
	ListContacts(ctx context.Context) ([]model.EmergencyContact, error)
	UpdateContact(ctx context.Context, id string, apply func(*model.EmergencyContact) error) (*model.EmergencyContact, error)
	DeleteContact(ctx context.Context, id string) error
}

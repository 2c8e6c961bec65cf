package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
	"github.com/sakif/wellbeing-tracker/internal/model"
	"github.com/sakif/wellbeing-tracker/internal/repository"
)

const (
	MaxWorkoutTitleLength = 100
	MaxWorkoutNotesLength = 1000
	MaxWorkoutMinutes     = 24 * 60
	DefaultListLimit      = 20
	MaxListLimit          = 100
)

type WorkoutService struct {
	repo   repository.WorkoutRepository
	logger *slog.Logger
}

func NewWorkoutService(repo repository.WorkoutRepository, logger *slog.Logger) *WorkoutService {
	return &WorkoutService{repo: repo, logger: logger}
}

// WorkoutInput is used for both create and partial update; nil fields are
// left as they are.
type WorkoutInput struct {
	Title           *string            `json:"title"`
	Type            *model.WorkoutType `json:"type"`
	DurationMinutes *int               `json:"durationMinutes"`
	Intensity       *model.Intensity   `json:"intensity"`
	CaloriesBurned  *int               `json:"caloriesBurned"`
	Notes           *string            `json:"notes"`
	PerformedAt     *time.Time         `json:"performedAt"`
}

func (s *WorkoutService) Create(ctx context.Context, callerID string, in WorkoutInput) (*model.Workout, error) {
	workout := &model.Workout{UserID: callerID}
	applyWorkoutInput(workout, in)

	if in.DurationMinutes == nil {
		return nil, apperror.ValidationFailed("durationMinutes", "durationMinutes is required")
	}
	if err := validateWorkout(workout); err != nil {
		return nil, err
	}

	if err := s.repo.CreateWorkout(ctx, workout); err != nil {
		return nil, fmt.Errorf("creating workout: %w", err)
	}

	s.logger.Info("workout created",
		slog.String("id", workout.ID),
		slog.String("userID", callerID),
	)
	return workout, nil
}

// List returns a page of the caller's workouts. limit and offset are clamped
// to sane values rather than rejected.
func (s *WorkoutService) List(ctx context.Context, callerID string, limit, offset int) ([]model.Workout, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	workouts, err := s.repo.ListWorkoutsByUser(ctx, callerID, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listing workouts: %w", err)
	}
	return workouts, nil
}

func (s *WorkoutService) Get(ctx context.Context, callerID, id string) (*model.Workout, error) {
	return s.owned(ctx, callerID, id)
}

// Update checks ownership, applies `in` and re-validates inside one
// repository transaction.
func (s *WorkoutService) Update(ctx context.Context, callerID, id string, in WorkoutInput) (*model.Workout, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("Workout", id)
	}

	workout, err := s.repo.UpdateWorkout(ctx, id, func(w *model.Workout) error {
		if err := checkOwner(w, callerID); err != nil {
			return err
		}
		applyWorkoutInput(w, in)
		return validateWorkout(w)
	})
	if err != nil {
		return nil, fmt.Errorf("updating workout: %w", err)
	}

	s.logger.Info("workout updated", slog.String("id", workout.ID))
	return workout, nil
}

func (s *WorkoutService) Delete(ctx context.Context, callerID, id string) error {
	workout, err := s.owned(ctx, callerID, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteWorkout(ctx, workout.ID); err != nil {
		return err
	}

	s.logger.Info("workout deleted", slog.String("id", workout.ID))
	return nil
}

// owned loads a workout and checks that callerID owns it.
func (s *WorkoutService) owned(ctx context.Context, callerID, id string) (*model.Workout, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("Workout", id)
	}

	workout, err := s.repo.GetWorkoutByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(workout, callerID); err != nil {
		return nil, err
	}
	return workout, nil
}

func checkOwner(w *model.Workout, callerID string) error {
	if w.UserID != callerID {
		return apperror.Forbidden("Not authorized to access this workout")
	}
	return nil
}

func applyWorkoutInput(w *model.Workout, in WorkoutInput) {
	if in.Title != nil {
		w.Title = strings.TrimSpace(*in.Title)
	}
	if in.Type != nil {
		w.Type = normalise(*in.Type)
	}
	if in.DurationMinutes != nil {
		w.DurationMinutes = *in.DurationMinutes
	}
	if in.Intensity != nil {
		w.Intensity = normalise(*in.Intensity)
	}
	if in.CaloriesBurned != nil {
		w.CaloriesBurned = *in.CaloriesBurned
	}
	if in.Notes != nil {
		w.Notes = strings.TrimSpace(*in.Notes)
	}
	if in.PerformedAt != nil {
		w.PerformedAt = *in.PerformedAt
	}
}

func validateWorkout(w *model.Workout) error {
	var calories error
	if w.CaloriesBurned < 0 {
		calories = apperror.ValidationFailed("caloriesBurned", "caloriesBurned cannot be negative")
	}

	return firstError(
		required("title", w.Title),
		maxLength("title", w.Title, MaxWorkoutTitleLength),
		required("type", string(w.Type)),
		oneOf("type", w.Type, model.WorkoutTypes),
		intRange("durationMinutes", w.DurationMinutes, 1, MaxWorkoutMinutes),
		required("intensity", string(w.Intensity)),
		oneOf("intensity", w.Intensity, model.Intensities),
		calories,
		maxLength("notes", w.Notes, MaxWorkoutNotesLength),
	)
}

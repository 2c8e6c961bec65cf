package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/xid"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
	"github.com/sakif/wellbeing-tracker/internal/model"
	"github.com/sakif/wellbeing-tracker/internal/repository"
)

var _ repository.WorkoutRepository = (*DB)(nil)

const workoutColumns = `id, user_id, title, type, duration_minutes, intensity,
	calories_burned, notes, performed_at, created_at, updated_at`

func (db *DB) CreateWorkout(ctx context.Context, workout *model.Workout) error {
	t := now()
	workout.ID = xid.New().String()
	if workout.PerformedAt.IsZero() {
		workout.PerformedAt = t
	} else {
		workout.PerformedAt = workout.PerformedAt.UTC()
	}
	workout.CreatedAt = t
	workout.UpdatedAt = t

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO workouts (`+workoutColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		workout.ID,
		workout.UserID,
		workout.Title,
		workout.Type,
		workout.DurationMinutes,
		workout.Intensity,
		workout.CaloriesBurned,
		workout.Notes,
		workout.PerformedAt,
		workout.CreatedAt,
		workout.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating workout: %w", err)
	}
	return nil
}

func (db *DB) GetWorkoutByID(ctx context.Context, id string) (*model.Workout, error) {
	return getWorkout(ctx, db.conn, id)
}

func getWorkout(ctx context.Context, q querier, id string) (*model.Workout, error) {
	var w model.Workout
	err := q.QueryRowContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id,
	).Scan(workoutFields(&w)...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Workout", id)
		}
		return nil, fmt.Errorf("sqlite: getting workout %s: %w", id, err)
	}
	return &w, nil
}

// ListWorkoutsByUser pages through a user's workouts, most recent session first.
// Page size policy belongs to the caller; a non-positive Limit means no limit
// (SQLite treats LIMIT -1 as unbounded).
func (db *DB) ListWorkoutsByUser(ctx context.Context, userID string, opts repository.ListOptions) ([]model.Workout, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := max(opts.Offset, 0)

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+workoutColumns+`
		 FROM workouts
		 WHERE user_id = ?
		 ORDER BY performed_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing workouts: %w", err)
	}
	defer rows.Close()

	workouts := make([]model.Workout, 0, max(limit, 0))
	for rows.Next() {
		var w model.Workout
		if err := rows.Scan(workoutFields(&w)...); err != nil {
			return nil, fmt.Errorf("sqlite: scanning workout row: %w", err)
		}
		workouts = append(workouts, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating workouts: %w", err)
	}
	return workouts, nil
}

// UpdateWorkout reads, modifies and writes the workout inside one write
// transaction. The owner column is never changed.
func (db *DB) UpdateWorkout(ctx context.Context, id string, apply func(*model.Workout) error) (*model.Workout, error) {
	var workout *model.Workout
	err := db.writeTx(ctx, func(q querier) error {
		var err error
		workout, err = getWorkout(ctx, q, id)
		if err != nil {
			return err
		}
		owner := workout.UserID
		if err := apply(workout); err != nil {
			return err
		}
		workout.ID = id
		workout.UserID = owner
		workout.UpdatedAt = now()
		workout.PerformedAt = workout.PerformedAt.UTC()

		_, err = q.ExecContext(ctx,
			`UPDATE workouts
			 SET title = ?, type = ?, duration_minutes = ?, intensity = ?,
			     calories_burned = ?, notes = ?, performed_at = ?, updated_at = ?
			 WHERE id = ?`,
			workout.Title,
			workout.Type,
			workout.DurationMinutes,
			workout.Intensity,
			workout.CaloriesBurned,
			workout.Notes,
			workout.PerformedAt,
			workout.UpdatedAt,
			id,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating workout %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return workout, nil
}

func (db *DB) DeleteWorkout(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting workout %s: %w", id, err)
	}
	return notFoundIfNoRows(result, "Workout", id)
}

func workoutFields(w *model.Workout) []any {
	return []any{
		&w.ID,
		&w.UserID,
		&w.Title,
		&w.Type,
		&w.DurationMinutes,
		&w.Intensity,
		&w.CaloriesBurned,
		&w.Notes,
		&w.PerformedAt,
		&w.CreatedAt,
		&w.UpdatedAt,
	}
}

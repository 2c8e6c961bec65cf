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

var _ repository.MoodRepository = (*DB)(nil)

const moodColumns = `id, user_id, timestamp, before_mood, after_mood, before_energy,
	before_motivation, improvement, repeat_intent, created_at, updated_at`

// CreateMood inserts a mood log. Timestamp is stamped here unless the caller
// already set it.
func (db *DB) CreateMood(ctx context.Context, mood *model.MoodLog) error {
	t := now()
	mood.ID = xid.New().String()
	if mood.Timestamp.IsZero() {
		mood.Timestamp = t
	}
	mood.CreatedAt = t
	mood.UpdatedAt = t

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO moods (`+moodColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		mood.ID,
		mood.UserID,
		mood.Timestamp,
		mood.BeforeMood,
		mood.AfterMood,
		mood.BeforeEnergy,
		mood.BeforeMotivation,
		mood.Improvement,
		mood.RepeatIntent,
		mood.CreatedAt,
		mood.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating mood log: %w", err)
	}
	return nil
}

func (db *DB) GetMoodByID(ctx context.Context, id string) (*model.MoodLog, error) {
	var m model.MoodLog
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+moodColumns+` FROM moods WHERE id = ?`, id,
	).Scan(moodFields(&m)...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("Mood log", id)
		}
		return nil, fmt.Errorf("sqlite: getting mood log %s: %w", id, err)
	}
	return &m, nil
}

// ListMoodsByUser returns every mood log owned by userID, newest first.
func (db *DB) ListMoodsByUser(ctx context.Context, userID string) ([]model.MoodLog, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+moodColumns+`
		 FROM moods
		 WHERE user_id = ?
		 ORDER BY timestamp DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing mood logs: %w", err)
	}
	defer rows.Close()

	moods := []model.MoodLog{}
	for rows.Next() {
		var m model.MoodLog
		if err := rows.Scan(moodFields(&m)...); err != nil {
			return nil, fmt.Errorf("sqlite: scanning mood log row: %w", err)
		}
		moods = append(moods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating mood logs: %w", err)
	}
	return moods, nil
}

func moodFields(m *model.MoodLog) []any {
	return []any{
		&m.ID,
		&m.UserID,
		&m.Timestamp,
		&m.BeforeMood,
		&m.AfterMood,
		&m.BeforeEnergy,
		&m.BeforeMotivation,
		&m.Improvement,
		&m.RepeatIntent,
		&m.CreatedAt,
		&m.UpdatedAt,
	}
}

package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
	"github.com/sakif/wellbeing-tracker/internal/model"
)

func createTestMood(t *testing.T, db *DB, userID string, before, after int) *model.MoodLog {
	t.Helper()
	mood := &model.MoodLog{
		UserID:           userID,
		BeforeMood:       before,
		AfterMood:        after,
		BeforeEnergy:     model.LevelLow,
		BeforeMotivation: model.LevelMedium,
		Improvement:      model.ImprovementYes,
		RepeatIntent:     model.RepeatMaybe,
	}
	if err := db.CreateMood(context.Background(), mood); err != nil {
		t.Fatalf("failed to create test mood log: %v", err)
	}
	return mood
}

func TestCreateMood_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	created := createTestMood(t, db, "user-1", 2, 4)

	if created.ID == "" {
		t.Fatal("CreateMood() did not set ID")
	}
	if created.Timestamp.IsZero() {
		t.Fatal("CreateMood() did not stamp Timestamp")
	}

	found, err := db.GetMoodByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetMoodByID() error = %v", err)
	}

	if found.UserID != created.UserID ||
		found.BeforeMood != created.BeforeMood ||
		found.AfterMood != created.AfterMood ||
		found.BeforeEnergy != created.BeforeEnergy ||
		found.BeforeMotivation != created.BeforeMotivation ||
		found.Improvement != created.Improvement ||
		found.RepeatIntent != created.RepeatIntent {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", found, created)
	}
	if !found.Timestamp.Equal(created.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", found.Timestamp, created.Timestamp)
	}
}

func TestCreateMood_RejectsOutOfRangeScores(t *testing.T) {
	db := newTestDB(t)

	// The CHECK constraint is the last line of defence behind service validation.
	mood := &model.MoodLog{
		UserID:           "user-1",
		BeforeMood:       0,
		AfterMood:        6,
		BeforeEnergy:     model.LevelLow,
		BeforeMotivation: model.LevelLow,
		Improvement:      model.ImprovementNo,
		RepeatIntent:     model.RepeatNo,
	}
	if err := db.CreateMood(context.Background(), mood); err == nil {
		t.Fatal("CreateMood() should reject scores outside [1,5]")
	}
}

func TestGetMoodByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetMoodByID(context.Background(), "nonexistent-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetMoodByID() error = %v, want ErrNotFound", err)
	}
}

func TestListMoodsByUser_NewestFirstAndScoped(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, ts := range []time.Time{base, base.Add(2 * time.Hour), base.Add(time.Hour)} {
		m := &model.MoodLog{
			UserID:           "owner",
			Timestamp:        ts,
			BeforeMood:       i + 1,
			AfterMood:        5,
			BeforeEnergy:     model.LevelHigh,
			BeforeMotivation: model.LevelHigh,
			Improvement:      model.ImprovementUnsure,
			RepeatIntent:     model.RepeatYes,
		}
		if err := db.CreateMood(ctx, m); err != nil {
			t.Fatalf("CreateMood() error = %v", err)
		}
	}
	createTestMood(t, db, "someone-else", 3, 3)

	moods, err := db.ListMoodsByUser(ctx, "owner")
	if err != nil {
		t.Fatalf("ListMoodsByUser() error = %v", err)
	}
	if len(moods) != 3 {
		t.Fatalf("ListMoodsByUser() returned %d, want 3", len(moods))
	}

	for i := 1; i < len(moods); i++ {
		if moods[i].Timestamp.After(moods[i-1].Timestamp) {
			t.Errorf("moods not sorted newest first: %v before %v", moods[i-1].Timestamp, moods[i].Timestamp)
		}
	}
	if !moods[0].Timestamp.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("newest Timestamp = %v, want %v", moods[0].Timestamp, base.Add(2*time.Hour))
	}
}

func TestListMoodsByUser_EmptyIsNotNil(t *testing.T) {
	db := newTestDB(t)

	moods, err := db.ListMoodsByUser(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListMoodsByUser() error = %v", err)
	}
	// nil would encode as JSON null; clients expect [].
	if moods == nil || len(moods) != 0 {
		t.Errorf("ListMoodsByUser() = %#v, want empty non-nil slice", moods)
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
	"github.com/sakif/wellbeing-tracker/internal/model"
)

func newTestMoodService(t *testing.T) (*MoodService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	store.users["alice"] = &model.User{ID: "alice", Username: "alice"}
	store.users["bob"] = &model.User{ID: "bob", Username: "bob"}
	return NewMoodService(store, store, testLogger()), store
}

func validMoodInput() MoodInput {
	return MoodInput{
		BeforeMood:       ptr(2),
		AfterMood:        ptr(4),
		BeforeEnergy:     model.LevelLow,
		BeforeMotivation: model.LevelMedium,
		Improvement:      model.ImprovementYes,
		RepeatIntent:     model.RepeatYes,
	}
}

func TestMoodCreate_BindsCallerAndStampsTime(t *testing.T) {
	svc, _ := newTestMoodService(t)
	fixed := time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	mood, err := svc.Create(context.Background(), "alice", validMoodInput())
	require.NoError(t, err)

	assert.NotEmpty(t, mood.ID)
	assert.Equal(t, "alice", mood.UserID)
	assert.Equal(t, fixed, mood.Timestamp)
	assert.Equal(t, 2, mood.BeforeMood)
	assert.Equal(t, 4, mood.AfterMood)
}

func TestMoodCreate_NormalisesLabels(t *testing.T) {
	svc, _ := newTestMoodService(t)
	in := validMoodInput()
	in.BeforeEnergy = " HIGH "
	in.RepeatIntent = "Maybe"

	mood, err := svc.Create(context.Background(), "alice", in)
	require.NoError(t, err)
	assert.Equal(t, model.LevelHigh, mood.BeforeEnergy)
	assert.Equal(t, model.RepeatMaybe, mood.RepeatIntent)
}

func TestMoodCreate_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*MoodInput)
		wantField string
	}{
		{"beforeMood missing", func(in *MoodInput) { in.BeforeMood = nil }, "beforeMood"},
		{"beforeMood below range", func(in *MoodInput) { in.BeforeMood = ptr(0) }, "beforeMood"},
		{"beforeMood above range", func(in *MoodInput) { in.BeforeMood = ptr(6) }, "beforeMood"},
		{"afterMood missing", func(in *MoodInput) { in.AfterMood = nil }, "afterMood"},
		{"afterMood above range", func(in *MoodInput) { in.AfterMood = ptr(10) }, "afterMood"},
		{"afterMood negative", func(in *MoodInput) { in.AfterMood = ptr(-1) }, "afterMood"},
		{"beforeEnergy missing", func(in *MoodInput) { in.BeforeEnergy = "" }, "beforeEnergy"},
		{"beforeEnergy unknown", func(in *MoodInput) { in.BeforeEnergy = "extreme" }, "beforeEnergy"},
		{"beforeMotivation unknown", func(in *MoodInput) { in.BeforeMotivation = "none" }, "beforeMotivation"},
		{"improvement missing", func(in *MoodInput) { in.Improvement = "" }, "improvement"},
		{"improvement unknown", func(in *MoodInput) { in.Improvement = "maybe" }, "improvement"},
		{"repeatIntent unknown", func(in *MoodInput) { in.RepeatIntent = "unsure" }, "repeatIntent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestMoodService(t)
			in := validMoodInput()
			tt.mutate(&in)

			_, err := svc.Create(context.Background(), "alice", in)

			require.ErrorIs(t, err, apperror.ErrValidation)
			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantField, appErr.Field)
			assert.Empty(t, store.moods, "nothing may be stored on validation failure")
		})
	}
}

func TestMoodCreate_BoundaryScoresAccepted(t *testing.T) {
	svc, _ := newTestMoodService(t)
	in := validMoodInput()
	in.BeforeMood = ptr(model.MinMoodScore)
	in.AfterMood = ptr(model.MaxMoodScore)

	_, err := svc.Create(context.Background(), "alice", in)
	assert.NoError(t, err)
}

func TestMoodCreate_UnknownOwner(t *testing.T) {
	svc, _ := newTestMoodService(t)

	_, err := svc.Create(context.Background(), "ghost", validMoodInput())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestMoodCreate_StoreFailure(t *testing.T) {
	svc, store := newTestMoodService(t)
	store.failWith = errors.New("disk full")

	_, err := svc.Create(context.Background(), "alice", validMoodInput())
	require.Error(t, err)
	var appErr *apperror.AppError
	assert.False(t, errors.As(err, &appErr), "store failures must not look like client errors")
}

func TestMoodListForUser(t *testing.T) {
	svc, _ := newTestMoodService(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		_, err := svc.Create(ctx, "alice", validMoodInput())
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "bob", validMoodInput())
	require.NoError(t, err)

	moods, err := svc.ListForUser(ctx, "alice", "alice")
	require.NoError(t, err)
	require.Len(t, moods, 3)
	assert.True(t, moods[0].Timestamp.After(moods[1].Timestamp))
	assert.True(t, moods[1].Timestamp.After(moods[2].Timestamp))
}

func TestMoodListForUser_OtherUserForbidden(t *testing.T) {
	svc, _ := newTestMoodService(t)
	_, err := svc.Create(context.Background(), "bob", validMoodInput())
	require.NoError(t, err)

	moods, err := svc.ListForUser(context.Background(), "alice", "bob")

	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Nil(t, moods)
}

func TestMoodGet(t *testing.T) {
	svc, _ := newTestMoodService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, "alice", validMoodInput())
	require.NoError(t, err)

	t.Run("owner gets identical record", func(t *testing.T) {
		got, err := svc.Get(ctx, "alice", created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		_, err := svc.Get(ctx, "bob", created.ID)
		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.Get(ctx, "alice", "does-not-exist")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})

	t.Run("blank id is not found", func(t *testing.T) {
		_, err := svc.Get(ctx, "alice", "  ")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

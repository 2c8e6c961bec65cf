package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
	"github.com/sakif/wellbeing-tracker/internal/model"
	"github.com/sakif/wellbeing-tracker/internal/repository"
)

// MoodService records and reads mood logs. Every operation is scoped to the
// caller: the owner of a new log is always the authenticated user, and reads
// of someone else's logs are refused.
type MoodService struct {
	moods  repository.MoodRepository
	users  repository.UserRepository
	logger *slog.Logger
	now    func() time.Time
}

func NewMoodService(moods repository.MoodRepository, users repository.UserRepository, logger *slog.Logger) *MoodService {
	return &MoodService{
		moods:  moods,
		users:  users,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// MoodInput is the create body. Scores are pointers so that a missing field
// is reported as "required" rather than "out of range".
type MoodInput struct {
	BeforeMood       *int               `json:"beforeMood"`
	AfterMood        *int               `json:"afterMood"`
	BeforeEnergy     model.Level        `json:"beforeEnergy"`
	BeforeMotivation model.Level        `json:"beforeMotivation"`
	Improvement      model.Improvement  `json:"improvement"`
	RepeatIntent     model.RepeatIntent `json:"repeatIntent"`
}

// Create stores a new mood log owned by callerID and stamped with the
// current time.
func (s *MoodService) Create(ctx context.Context, callerID string, in MoodInput) (*model.MoodLog, error) {
	mood := &model.MoodLog{
		UserID:           callerID,
		BeforeEnergy:     normalise(in.BeforeEnergy),
		BeforeMotivation: normalise(in.BeforeMotivation),
		Improvement:      normalise(in.Improvement),
		RepeatIntent:     normalise(in.RepeatIntent),
	}

	if err := firstError(
		requiredScore("beforeMood", in.BeforeMood),
		requiredScore("afterMood", in.AfterMood),
		required("beforeEnergy", string(mood.BeforeEnergy)),
		oneOf("beforeEnergy", mood.BeforeEnergy, model.Levels),
		required("beforeMotivation", string(mood.BeforeMotivation)),
		oneOf("beforeMotivation", mood.BeforeMotivation, model.Levels),
		required("improvement", string(mood.Improvement)),
		oneOf("improvement", mood.Improvement, model.Improvements),
		required("repeatIntent", string(mood.RepeatIntent)),
		oneOf("repeatIntent", mood.RepeatIntent, model.RepeatIntents),
	); err != nil {
		return nil, err
	}
	mood.BeforeMood = *in.BeforeMood
	mood.AfterMood = *in.AfterMood

	// The owner reference must point at a real account.
	if _, err := s.users.GetUserByID(ctx, callerID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFound("User", callerID)
		}
		return nil, fmt.Errorf("checking mood log owner: %w", err)
	}

	mood.Timestamp = s.now()
	if err := s.moods.CreateMood(ctx, mood); err != nil {
		return nil, fmt.Errorf("creating mood log: %w", err)
	}

	s.logger.Info("mood log created",
		slog.String("id", mood.ID),
		slog.String("userID", callerID),
	)
	return mood, nil
}

// ListForUser returns userID's logs, newest first. Only the user themself
// may list them.
func (s *MoodService) ListForUser(ctx context.Context, callerID, userID string) ([]model.MoodLog, error) {
	if strings.TrimSpace(userID) != callerID {
		s.logger.Warn("mood log list refused",
			slog.String("caller", callerID),
			slog.String("requested", userID),
		)
		return nil, apperror.Forbidden("Not authorized to view these mood logs")
	}

	moods, err := s.moods.ListMoodsByUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("listing mood logs: %w", err)
	}
	return moods, nil
}

// Get fetches one log. Absent → ErrNotFound; owned by someone else →
// ErrForbidden.
func (s *MoodService) Get(ctx context.Context, callerID, id string) (*model.MoodLog, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.NotFound("Mood log", id)
	}

	mood, err := s.moods.GetMoodByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mood.UserID != callerID {
		return nil, apperror.Forbidden("Not authorized to view this mood log")
	}
	return mood, nil
}

func requiredScore(field string, v *int) error {
	if v == nil {
		return apperror.ValidationFailed(field, field+" is required")
	}
	return intRange(field, *v, model.MinMoodScore, model.MaxMoodScore)
}

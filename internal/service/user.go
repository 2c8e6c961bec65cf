package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
	"github.com/sakif/wellbeing-tracker/internal/auth"
	"github.com/sakif/wellbeing-tracker/internal/model"
	"github.com/sakif/wellbeing-tracker/internal/repository"
)

const (
	MaxNameLength     = 50
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MaxEmailLength    = 254
)

// UserService owns account registration, login and profile management.
type UserService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewUserService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

type RegisterInput struct {
	Forenames string `json:"forenames"`
	Surname   string `json:"surname"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UpdateUserInput is a partial profile update; nil fields are unchanged.
type UpdateUserInput struct {
	Forenames *string `json:"forenames"`
	Surname   *string `json:"surname"`
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	user := &model.User{
		Forenames: strings.TrimSpace(in.Forenames),
		Surname:   strings.TrimSpace(in.Surname),
		Username:  strings.TrimSpace(in.Username),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
	}
	if err := firstError(validateProfile(user), required("password", in.Password)); err != nil {
		return nil, err
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return s.issue(user)
}

// Login accepts a username or an email. Unknown accounts and wrong passwords
// produce the same error so the response does not reveal which accounts exist.
func (s *UserService) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	invalid := apperror.Unauthorized("Invalid credentials")

	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, invalid
	}
	if strings.Contains(login, "@") {
		login = strings.ToLower(login)
	}

	user, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("failed login", slog.String("userID", user.ID))
			return nil, invalid
		}
		return nil, fmt.Errorf("verifying password: %w", err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))
	return s.issue(user)
}

// LoginWithGitHub creates or refreshes the account linked to a GitHub profile
// and issues a token for it.
func (s *UserService) LoginWithGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, errors.New("service/user: GitHub user must not be nil")
	}

	forenames, surname := ghUser.SplitName()
	user := &model.User{
		Forenames: forenames,
		Surname:   surname,
		Username:  ghUser.Login,
		Email:     strings.ToLower(ghUser.NoReplyEmail()),
		GitHubID:  ghUser.ID,
	}

	// A GitHub login or email can already belong to a password account. Fall
	// back to "<login>-<githubID>" and the noreply address, which only this
	// GitHub account can own.
	for attempt := 0; ; attempt++ {
		err := s.users.UpsertGitHubUser(ctx, user)
		if err == nil {
			break
		}
		var appErr *apperror.AppError
		if attempt >= maxGitHubUpsertAttempts || !errors.Is(err, apperror.ErrConflict) || !errors.As(err, &appErr) {
			return nil, fmt.Errorf("service/user: upserting user (githubID=%d): %w", ghUser.ID, err)
		}

		switch fallback := gitHubFallback(ghUser); {
		case appErr.Field == "username" && user.Username != fallback.Username:
			user.Username = fallback.Username
		case appErr.Field == "email" && user.Email != fallback.Email:
			user.Email = fallback.Email
		default:
			return nil, fmt.Errorf("service/user: upserting user (githubID=%d): %w", ghUser.ID, err)
		}
		s.logger.Warn("GitHub identity collides with an existing account",
			slog.Int64("githubID", ghUser.ID),
			slog.String("field", appErr.Field),
		)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)
	return s.issue(user)
}

const maxGitHubUpsertAttempts = 2

func gitHubFallback(gh *auth.GitHubUser) model.User {
	return model.User{
		Username: fmt.Sprintf("%s-%d", gh.Login, gh.ID),
		Email:    strings.ToLower(fmt.Sprintf("%d+%s@users.noreply.github.com", gh.ID, gh.Login)),
	}
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.NotFound("User", id)
	}
	return s.users.GetUserByID(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*model.User, error) {
	// bcrypt is slow; hash before the write transaction takes the lock.
	var hash string
	if in.Password != nil {
		var err error
		if hash, err = s.hashPassword(*in.Password); err != nil {
			return nil, err
		}
	}

	user, err := s.users.UpdateUser(ctx, id, func(u *model.User) error {
		if in.Forenames != nil {
			u.Forenames = strings.TrimSpace(*in.Forenames)
		}
		if in.Surname != nil {
			u.Surname = strings.TrimSpace(*in.Surname)
		}
		if in.Username != nil {
			u.Username = strings.TrimSpace(*in.Username)
		}
		if in.Email != nil {
			u.Email = strings.ToLower(strings.TrimSpace(*in.Email))
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		return validateProfile(u)
	})
	if err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	s.logger.Info("user updated", slog.String("userID", user.ID))
	return user, nil
}

// Delete removes the account. Mood logs and workouts are not deleted with it.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", slog.String("userID", id))
	return nil
}

func (s *UserService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// hashPassword maps the password policy errors onto validation errors.
func (s *UserService) hashPassword(password string) (string, error) {
	hash, err := s.passwords.Hash(password)
	switch {
	case errors.Is(err, auth.ErrPasswordTooShort):
		return "", apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength))
	case errors.Is(err, auth.ErrPasswordTooLong):
		return "", apperror.ValidationFailed("password",
			fmt.Sprintf("password must be %d bytes or fewer", auth.MaxPasswordLength))
	case err != nil:
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return hash, nil
}

func validateProfile(u *model.User) error {
	var usernameErr, emailErr error
	if n := len(u.Username); n > 0 && (n < MinUsernameLength || n > MaxUsernameLength) {
		usernameErr = apperror.ValidationFailed("username",
			fmt.Sprintf("username must be between %d and %d characters", MinUsernameLength, MaxUsernameLength))
	} else if strings.ContainsAny(u.Username, " @") {
		usernameErr = apperror.ValidationFailed("username", "username cannot contain spaces or @")
	}
	if u.Email != "" && (!strings.Contains(u.Email, "@") || len(u.Email) > MaxEmailLength) {
		emailErr = apperror.ValidationFailed("email", "email must be a valid email address")
	}

	// GitHub profiles often carry a single-word name.
	var surnameErr error
	if u.GitHubID == 0 {
		surnameErr = required("surname", u.Surname)
	}

	return firstError(
		required("forenames", u.Forenames),
		maxLength("forenames", u.Forenames, MaxNameLength),
		surnameErr,
		maxLength("surname", u.Surname, MaxNameLength),
		required("username", u.Username),
		usernameErr,
		required("email", u.Email),
		emailErr,
	)
}

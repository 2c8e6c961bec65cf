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

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, forenames, surname, username, email, password_hash,
	COALESCE(github_id, 0), created_at, updated_at`

// CreateUser inserts a new account. Duplicate usernames or emails come back
// as apperror.ErrConflict naming the offending field.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	t := now()
	user.ID = xid.New().String()
	user.CreatedAt = t
	user.UpdatedAt = t

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, forenames, surname, username, email, password_hash, github_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Forenames,
		user.Surname,
		user.Username,
		user.Email,
		user.PasswordHash,
		nullableGitHubID(user.GitHubID),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if field, ok := uniqueViolation(err); ok {
			return apperror.Conflict("User", field)
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetUserByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (db *DB) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return getUser(ctx, db.conn, id)
}

func getUser(ctx context.Context, q querier, id string) (*model.User, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}
	return u, nil
}

// GetUserByLogin looks a user up by username or email, whichever matches.
func (db *DB) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ? LIMIT 1`,
		login, login)

	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("User", login)
		}
		return nil, fmt.Errorf("sqlite: getting user by login: %w", err)
	}
	return u, nil
}

// UpsertGitHubUser inserts or refreshes an account keyed by its GitHub ID.
//
// If a user with this github_id already exists we KEEP their internal ID and
// only refresh the profile fields GitHub owns (username, email). Local-only
// fields such as forenames are left as the user last edited them.
func (db *DB) UpsertGitHubUser(ctx context.Context, user *model.User) error {
	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE github_id = ?`, user.GitHubID,
	).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	if existingID == "" {
		return db.CreateUser(ctx, user)
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, updated_at = ? WHERE id = ?`,
		user.Username, user.Email, now(), existingID,
	)
	if err != nil {
		if field, ok := uniqueViolation(err); ok {
			return apperror.Conflict("User", field)
		}
		return fmt.Errorf("sqlite: updating user %s: %w", existingID, err)
	}

	stored, err := db.GetUserByID(ctx, existingID)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

// UpdateUser replaces the editable profile fields and the password hash
// inside one write transaction. A duplicate username or email rolls the
// whole update back and comes out as apperror.ErrConflict.
func (db *DB) UpdateUser(ctx context.Context, id string, apply func(*model.User) error) (*model.User, error) {
	var user *model.User
	err := db.writeTx(ctx, func(q querier) error {
		var err error
		user, err = getUser(ctx, q, id)
		if err != nil {
			return err
		}
		if err := apply(user); err != nil {
			return err
		}
		user.ID = id
		user.UpdatedAt = now()

		_, err = q.ExecContext(ctx,
			`UPDATE users
			 SET forenames = ?, surname = ?, username = ?, email = ?, password_hash = ?, updated_at = ?
			 WHERE id = ?`,
			user.Forenames,
			user.Surname,
			user.Username,
			user.Email,
			user.PasswordHash,
			user.UpdatedAt,
			id,
		)
		if err != nil {
			if field, ok := uniqueViolation(err); ok {
				return apperror.Conflict("User", field)
			}
			return fmt.Errorf("sqlite: updating user %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account only. Mood logs and workouts owned by the
// user are left untouched.
func (db *DB) DeleteUser(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting user %s: %w", id, err)
	}
	return notFoundIfNoRows(result, "User", id)
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Forenames,
		&u.Surname,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.GitHubID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// github_id is NULL for password accounts so the partial unique index only
// covers GitHub sign-ins.
func nullableGitHubID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// TWO LOGICAL DATABASES:
// The app keeps its data in two separate SQLite files:
//   - the default database: users, mood logs and workouts
//   - the support database: the shared emergency contact book
//
// Both are opened through the same DB type. New and NewSupport differ only in
// which tables they migrate, so a *DB returned by NewSupport has no users table
// and vice versa. The server passes each one to the services that need it.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go translation
// of the SQLite C code.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/wellbeing-tracker/internal/apperror"
)

// DB wraps a sql.DB connection pool and provides repository methods.
type DB struct {
	conn *sql.DB
	name string // "default" or "support", used in error messages
}

// New opens the default database and creates the users, moods and workouts tables.
//
// dbPath examples:
//   - "data/wellbeing.db"  → file-based database (persistent)
//   - ":memory:"           → in-memory database (tests)
func New(dbPath string) (*DB, error) {
	return open(dbPath, "default", defaultSchema)
}

// NewSupport opens the support database holding emergency contacts.
func NewSupport(dbPath string) (*DB, error) {
	return open(dbPath, "support", supportSchema)
}

func open(dbPath, name string, schema []migration) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s database: %w", name, err)
	}

	// Every connection to ":memory:" gets its own empty database, so the pool
	// must never hold more than one.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging %s database: %w", name, err)
	}

	db := &DB{conn: conn, name: name}

	if err := db.migrate(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: migrating %s database: %w", name, err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Name reports which logical database this is.
func (db *DB) Name() string {
	return db.name
}

type migration struct {
	name string
	sql  string
}

// Owner columns (user_id) deliberately carry no REFERENCES clause: deleting a
// user must not fail or cascade when they still have mood logs or workouts.
// Owner existence is checked by the service layer at creation time instead.
var defaultSchema = []migration{
	{
		name: "users",
		sql: `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			forenames     TEXT NOT NULL,
			surname       TEXT NOT NULL,
			username      TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			github_id     INTEGER,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_github_id
			ON users(github_id) WHERE github_id IS NOT NULL;`,
	},
	{
		name: "moods",
		sql: `
		CREATE TABLE IF NOT EXISTS moods (
			id                TEXT PRIMARY KEY,
			user_id           TEXT NOT NULL,
			timestamp         DATETIME NOT NULL,
			before_mood       INTEGER NOT NULL CHECK (before_mood BETWEEN 1 AND 5),
			after_mood        INTEGER NOT NULL CHECK (after_mood BETWEEN 1 AND 5),
			before_energy     TEXT NOT NULL,
			before_motivation TEXT NOT NULL,
			improvement       TEXT NOT NULL,
			repeat_intent     TEXT NOT NULL,
			created_at        DATETIME NOT NULL,
			updated_at        DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_moods_user_timestamp ON moods(user_id, timestamp);`,
	},
	{
		name: "workouts",
		sql: `
		CREATE TABLE IF NOT EXISTS workouts (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			title            TEXT NOT NULL,
			type             TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			intensity        TEXT NOT NULL,
			calories_burned  INTEGER NOT NULL DEFAULT 0,
			notes            TEXT NOT NULL DEFAULT '',
			performed_at     DATETIME NOT NULL,
			created_at       DATETIME NOT NULL,
			updated_at       DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_workouts_user_performed ON workouts(user_id, performed_at);`,
	},
}

var supportSchema = []migration{
	{
		name: "emergency_contacts",
		sql: `
		CREATE TABLE IF NOT EXISTS emergency_contacts (
			id            TEXT PRIMARY KEY,
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL,
			mobile_number TEXT NOT NULL,
			gender        TEXT NOT NULL,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL
		);`,
	},
}

// migrate runs CREATE ... IF NOT EXISTS statements, so it is safe on every start.
func (db *DB) migrate(schema []migration) error {
	for _, m := range schema {
		if _, err := db.conn.Exec(m.sql); err != nil {
			return fmt.Errorf("creating %s table: %w", m.name, err)
		}
	}
	return nil
}

// dsn adds the per-connection pragmas. They go in the DSN rather than
// through Exec so that every connection the pool opens gets them, not just
// the first. WAL lets readers proceed while a write is in progress;
// busy_timeout makes a second writer wait for the lock instead of failing.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// querier is satisfied by *sql.DB and *sql.Conn, so lookups can run either
// on the pool or inside a write transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// writeTx runs fn on one pinned connection inside BEGIN IMMEDIATE. The write
// lock is taken before fn reads anything, so a read-modify-write done in fn
// cannot interleave with another writer: the second one waits on
// busy_timeout and then sees the first one's committed row.
func (db *DB) writeTx(ctx context.Context, fn func(q querier) error) error {
	c, err := db.conn.Conn(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: acquiring connection: %w", err)
	}
	defer c.Close()

	if _, err := c.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("sqlite: beginning write transaction: %w", err)
	}

	if err := fn(c); err != nil {
		// Background: the rollback must run even if ctx is what failed.
		c.ExecContext(context.Background(), "ROLLBACK")
		return err
	}

	if _, err := c.ExecContext(ctx, "COMMIT"); err != nil {
		c.ExecContext(context.Background(), "ROLLBACK")
		return fmt.Errorf("sqlite: committing write transaction: %w", err)
	}
	return nil
}

// now returns the timestamp stored on writes. UTC also drops the monotonic
// clock reading, so values round-trip through the driver unchanged.
func now() time.Time {
	return time.Now().UTC()
}

// uniqueViolation reports whether err is a UNIQUE constraint failure and, if
// so, which column caused it ("UNIQUE constraint failed: users.email" → "email").
func uniqueViolation(err error) (string, bool) {
	var sqliteErr *moderncsqlite.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return "", false
	}

	const marker = "UNIQUE constraint failed: "
	msg := sqliteErr.Error()
	i := strings.Index(msg, marker)
	if i < 0 {
		return "", false
	}
	column := msg[i+len(marker):]
	if j := strings.IndexAny(column, " ,"); j >= 0 {
		column = column[:j]
	}
	if k := strings.LastIndex(column, "."); k >= 0 {
		column = column[k+1:]
	}
	return column, true
}

// notFoundIfNoRows converts the result of an UPDATE/DELETE into a NotFound
// error when nothing matched.
func notFoundIfNoRows(result sql.Result, resource, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}

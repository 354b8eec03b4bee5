// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so
// no CGo and no C toolchain needed, and ":memory:" gives tests a fresh
// isolated database per connection.
//
// The *sql.DB pool is created once here and injected into the server;
// there is no module-level singleton. WAL mode lets reads proceed while
// a write is in flight, which matters for a web server sharing one file.
//
// List-valued fields (achievements, tags, journal note lists) and the
// content metrics sub-object are stored as JSON TEXT columns. The
// one-record-per-day invariants for progress and journal are enforced by
// UNIQUE (user_id, date) indexes; a violated index surfaces as a
// conflict, never as a second row.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver with database/sql
)

// DB wraps the sql.DB pool and implements every repository interface.
type DB struct {
	conn *sql.DB
}

// New opens the database, configures pragmas, and runs migrations.
// Use ":memory:" for tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Each pooled connection to ":memory:" would get its own empty
	// database, so the in-memory case must be pinned to one connection.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads during a write; foreign keys are off
	// by default in SQLite and we rely on them for user ownership.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE ... IF NOT EXISTS keeps it
// idempotent, so it is safe to run on every startup.
func (db *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL,
			email           TEXT NOT NULL UNIQUE,
			password_hash   TEXT NOT NULL DEFAULT '',
			github_id       INTEGER,
			current_day     INTEGER NOT NULL DEFAULT 1,
			target_revenue  REAL NOT NULL DEFAULT 0,
			current_revenue REAL NOT NULL DEFAULT 0,
			streak_count    INTEGER NOT NULL DEFAULT 0,
			email_verified  INTEGER NOT NULL DEFAULT 0,
			email_updates   INTEGER NOT NULL DEFAULT 1,
			public_profile  INTEGER NOT NULL DEFAULT 0,
			link_twitter    TEXT NOT NULL DEFAULT '',
			link_github     TEXT NOT NULL DEFAULT '',
			link_linkedin   TEXT NOT NULL DEFAULT '',
			link_website    TEXT NOT NULL DEFAULT '',
			created_at      DATETIME NOT NULL,
			updated_at      DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_github_id
			ON users(github_id) WHERE github_id IS NOT NULL`,

		`CREATE TABLE IF NOT EXISTS tasks (
			id                TEXT PRIMARY KEY,
			user_id           TEXT NOT NULL REFERENCES users(id),
			title             TEXT NOT NULL,
			category          TEXT NOT NULL DEFAULT 'personal',
			priority          TEXT NOT NULL DEFAULT 'medium',
			completed         INTEGER NOT NULL DEFAULT 0,
			completed_at      DATETIME,
			due_date          DATETIME,
			estimated_minutes INTEGER NOT NULL DEFAULT 0,
			version           INTEGER NOT NULL DEFAULT 1,
			created_at        DATETIME NOT NULL,
			updated_at        DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_created
			ON tasks(user_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS progress (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL REFERENCES users(id),
			date         TEXT NOT NULL,
			revenue      REAL NOT NULL DEFAULT 0,
			dsa_problems INTEGER NOT NULL DEFAULT 0,
			hours_worked REAL NOT NULL DEFAULT 0,
			mood         TEXT NOT NULL DEFAULT '',
			energy       INTEGER NOT NULL DEFAULT 5,
			achievements TEXT NOT NULL DEFAULT '[]',
			created_at   DATETIME NOT NULL,
			updated_at   DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_progress_user_date
			ON progress(user_id, date)`,

		`CREATE TABLE IF NOT EXISTS content (
			id           TEXT PRIMARY KEY,
			user_id      TEXT NOT NULL REFERENCES users(id),
			type         TEXT NOT NULL DEFAULT 'video',
			title        TEXT NOT NULL,
			platform     TEXT NOT NULL,
			status       TEXT NOT NULL DEFAULT 'draft',
			views        INTEGER NOT NULL DEFAULT 0,
			revenue      REAL NOT NULL DEFAULT 0,
			tags         TEXT NOT NULL DEFAULT '[]',
			metrics      TEXT NOT NULL DEFAULT '{}',
			published_at DATETIME,
			created_at   DATETIME NOT NULL,
			updated_at   DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_content_user_created
			ON content(user_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS clients (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL REFERENCES users(id),
			name           TEXT NOT NULL,
			project        TEXT NOT NULL DEFAULT '',
			budget         REAL NOT NULL,
			status         TEXT NOT NULL DEFAULT 'pending',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			paid_amount    REAL NOT NULL DEFAULT 0,
			created_at     DATETIME NOT NULL,
			updated_at     DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clients_user_created
			ON clients(user_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS outreach (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL REFERENCES users(id),
			type       TEXT NOT NULL DEFAULT 'email',
			target     TEXT NOT NULL,
			subject    TEXT NOT NULL DEFAULT '',
			status     TEXT NOT NULL DEFAULT 'sent',
			opened_at  DATETIME,
			replied_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outreach_user_created
			ON outreach(user_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS journal (
			id             TEXT PRIMARY KEY,
			user_id        TEXT NOT NULL REFERENCES users(id),
			date           TEXT NOT NULL,
			content        TEXT NOT NULL,
			mood           TEXT NOT NULL DEFAULT '',
			energy         INTEGER NOT NULL DEFAULT 5,
			word_count     INTEGER NOT NULL DEFAULT 0,
			learnings      TEXT NOT NULL DEFAULT '[]',
			challenges     TEXT NOT NULL DEFAULT '[]',
			wins           TEXT NOT NULL DEFAULT '[]',
			goals          TEXT NOT NULL DEFAULT '[]',
			gratitude      TEXT NOT NULL DEFAULT '[]',
			tomorrow_focus TEXT NOT NULL DEFAULT '[]',
			created_at     DATETIME NOT NULL,
			updated_at     DATETIME NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_journal_user_date
			ON journal(user_id, date)`,
	}

	for _, stmt := range stmts {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migrating schema: %w", err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err came from a violated UNIQUE
// index. modernc.org/sqlite surfaces constraint failures as plain errors
// carrying the SQLite message, so string matching is the available check.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// marshalJSON serializes a list/object column value. A nil slice is
// stored as "[]" so reads never see SQL NULL.
func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("sqlite: marshaling json column: %w", err)
	}
	return string(b), nil
}

// unmarshalJSON deserializes a JSON TEXT column into out.
func unmarshalJSON(s string, out any) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), out); err != nil {
		return fmt.Errorf("sqlite: unmarshaling json column: %w", err)
	}
	return nil
}

// timePtr converts a nullable column into *time.Time.
func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// toNullTime converts *time.Time into a bindable nullable value.
func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

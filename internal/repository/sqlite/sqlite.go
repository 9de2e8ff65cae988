// Package sqlite implements the repository interfaces on an embedded SQLite
// database (pure-Go driver, no cgo).
//
// The uniqueness rules for pseudo, email and catalog names live here as
// UNIQUE constraints. The service layer pre-checks them to produce friendly
// conflict messages, but the constraint is the authoritative check — a
// duplicate that races past the pre-check still fails, and the violation is
// translated into the same conflict error.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces declared in the parent package.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite; the users→snippets cascade
	// depends on them.
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

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. All DDL is idempotent, so running it on an
// existing database is safe.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			firstname     TEXT NOT NULL,
			lastname      TEXT NOT NULL,
			pseudo        TEXT NOT NULL UNIQUE,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			is_admin      INTEGER NOT NULL DEFAULT 0,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS languages (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE
		);
		CREATE TABLE IF NOT EXISTS styles (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE COLLATE NOCASE
		);
	`)
	if err != nil {
		return fmt.Errorf("creating catalog tables: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snippets (
			id                TEXT PRIMARY KEY,
			title             TEXT NOT NULL,
			code              TEXT NOT NULL,
			print_line_number INTEGER NOT NULL DEFAULT 0,
			language_id       TEXT NOT NULL REFERENCES languages(id),
			style_id          TEXT NOT NULL REFERENCES styles(id),
			user_id           TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_snippets_user_id ON snippets(user_id);
		CREATE INDEX IF NOT EXISTS idx_snippets_created_at ON snippets(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating snippets table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure on
// the given table.column. The pure-Go driver exposes no typed constraint
// error, so the message text is the only signal available.
func isUniqueViolation(err error, column string) bool {
	return err != nil &&
		strings.Contains(err.Error(), "UNIQUE constraint failed") &&
		strings.Contains(err.Error(), column)
}

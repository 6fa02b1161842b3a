// Package history persists the session's search history in SQLite so
// earlier queries can be listed and re-run across sessions.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init opens the history database at baseDir/history.db, creating the
// directory and schema as needed. The directory and file deny group/other
// access, matching the drafts layout.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0o700)

	dbPath := filepath.Join(baseDir, "history.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0o600)

	return db, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	// Migration 0 -> 1: initial schema
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS searches (
		  id      INTEGER PRIMARY KEY AUTOINCREMENT,
		  query   TEXT NOT NULL,
		  hits    INTEGER NOT NULL,
		  ran_at  TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_searches_ran_at
		ON searches(ran_at DESC);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := db.Exec("PRAGMA user_version=1"); err != nil {
			return fmt.Errorf("failed to set user_version: %w", err)
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// Entry is one recorded search.
type Entry struct {
	ID    int64
	Query string
	Hits  int
	RanAt time.Time
}

// Record stores one executed search with its hit count.
func Record(db *sql.DB, query string, hits int) error {
	_, err := db.Exec(
		"INSERT INTO searches (query, hits, ran_at) VALUES (?, ?, ?)",
		query, hits, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Recent returns up to limit entries, most recent first.
func Recent(db *sql.DB, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(
		"SELECT id, query, hits, ran_at FROM searches ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ranAt string
		if err := rows.Scan(&e.ID, &e.Query, &e.Hits, &ranAt); err != nil {
			return nil, err
		}
		e.RanAt, _ = time.Parse(time.RFC3339, ranAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns the entry with the given id.
func Get(db *sql.DB, id int64) (*Entry, error) {
	var e Entry
	var ranAt string
	err := db.QueryRow(
		"SELECT id, query, hits, ran_at FROM searches WHERE id = ?", id,
	).Scan(&e.ID, &e.Query, &e.Hits, &ranAt)
	if err != nil {
		return nil, err
	}
	e.RanAt, _ = time.Parse(time.RFC3339, ranAt)
	return &e, nil
}

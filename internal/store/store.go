package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// dateLayout is the ISO calendar-date form used for all date columns.
// Storing dates as text keeps range queries plain string comparisons.
const dateLayout = "2006-01-02"

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS daily_logs (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		date              TEXT NOT NULL UNIQUE,
		energy            TEXT NOT NULL DEFAULT '',
		paralysis_signals INTEGER NOT NULL DEFAULT 0,
		mission           TEXT NOT NULL DEFAULT '',
		done_definition   TEXT NOT NULL DEFAULT '',
		target_time       TEXT NOT NULL DEFAULT '',
		mission_status    TEXT NOT NULL DEFAULT '',
		blocker_type      TEXT NOT NULL DEFAULT '',
		decision_made     TEXT NOT NULL DEFAULT '',
		created_at        TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at        TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_logs_date ON daily_logs(date);

	CREATE TABLE IF NOT EXISTS projects (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		name          TEXT NOT NULL,
		target_date   TEXT,
		status        TEXT NOT NULL DEFAULT 'active',
		shipped_early INTEGER,
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		completed_at  TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);

	CREATE TABLE IF NOT EXISTS decisions (
		id                   INTEGER PRIMARY KEY AUTOINCREMENT,
		date                 TEXT NOT NULL,
		decision             TEXT NOT NULL,
		time_to_decide       INTEGER,
		made_under_paralysis INTEGER NOT NULL DEFAULT 0,
		outcome              TEXT NOT NULL DEFAULT '',
		notes                TEXT NOT NULL DEFAULT '',
		created_at           TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_date ON decisions(date);
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns the database location: $SHIPDAY_DB_PATH when set,
// otherwise ~/.shipday/shipday.db.
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SHIPDAY_DB_PATH"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".shipday", "shipday.db"), nil
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

func parseTimestamp(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// Package runs keeps a SQLite registry of training runs and their
// validation results, so early stopping can resume and the CLI can
// report history and best checkpoints across runs.
package runs

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the registry database.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies the recommended
// pragmas, and creates the schema when missing.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// applyPragmas configures SQLite for single-writer training use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	config_path TEXT NOT NULL,
	model_dir   TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS validations (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	step          INTEGER NOT NULL,
	metric        TEXT NOT NULL,
	score         REAL NOT NULL,
	learning_rate REAL NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_validations_run_step ON validations(run_id, step);
`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// DefaultDBPath resolves the registry file path in priority order:
// 1. NMTKIT_DB environment variable
// 2. $XDG_DATA_HOME/nmtkit/runs.db
// 3. ~/.local/share/nmtkit/runs.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("NMTKIT_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "nmtkit", "runs.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

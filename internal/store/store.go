// Package store persists completed detection results in SQLite so repeated
// runs over the same repositories warm-start across processes. It obeys the
// same staleness contract as the in-memory cache: records are replaced on
// write and removed only by an explicit clear, never by watching the
// filesystem.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for persisted detections.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS detections (
  root         TEXT PRIMARY KEY,
  result       TEXT NOT NULL,
  detected_at  TIMESTAMP NOT NULL
);
`

// Put stores (or replaces) the detection payload for a canonical root path.
// The payload is any JSON-serializable detection record.
func (s *Store) Put(root string, result any) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal detection: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO detections (root, result, detected_at) VALUES (?, ?, ?)
		 ON CONFLICT(root) DO UPDATE SET result = excluded.result, detected_at = excluded.detected_at`,
		root, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("put detection: %w", err)
	}
	return nil
}

// Get loads the detection for a canonical root path into out (a pointer to
// the detection record type). The bool result reports whether a record
// existed.
func (s *Store) Get(root string, out any) (bool, error) {
	var data string
	err := s.db.QueryRow(`SELECT result FROM detections WHERE root = ?`, root).Scan(&data)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get detection: %w", err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("decode detection for %s: %w", root, err)
	}
	return true, nil
}

// Clear removes all persisted detections. The explicit-clear counterpart to
// the in-memory cache's Clear.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM detections`); err != nil {
		return fmt.Errorf("clear detections: %w", err)
	}
	return nil
}

// Len returns the number of persisted detections.
func (s *Store) Len() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM detections`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count detections: %w", err)
	}
	return n, nil
}

// Package state persists update-run history in a local SQLite database.
// The last recorded run supplies the "last known state" commit that update
// decisions compare against, and the diff base when available.
package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded diagram update run.
type Run struct {
	ID            string    `json:"id"`
	RepoPath      string    `json:"repo_path"`
	Commit        string    `json:"commit"`
	Mode          string    `json:"mode"`
	Tier          string    `json:"tier"`
	Percentage    float64   `json:"percentage"`
	AffectedCount int       `json:"affected_count"`
	Reason        string    `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Store wraps the SQLite database holding run history.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	repo_path TEXT NOT NULL,
	commit_hash TEXT NOT NULL,
	mode TEXT NOT NULL,
	tier TEXT NOT NULL,
	percentage REAL NOT NULL,
	affected_count INTEGER NOT NULL,
	reason TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_repo ON runs(repo_path, created_at);
`

// NewStore opens (and if needed initializes) the database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing state db: %w", err)
	}

	return &Store{db: db}, nil
}

// RecordRun inserts a run. A missing ID or timestamp is filled in.
func (s *Store) RecordRun(run Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO runs (id, repo_path, commit_hash, mode, tier, percentage, affected_count, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.RepoPath, run.Commit, run.Mode, run.Tier,
		run.Percentage, run.AffectedCount, run.Reason, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// LastRun returns the most recent run for repoPath, or nil when the repo
// has no history yet.
func (s *Store) LastRun(repoPath string) (*Run, error) {
	row := s.db.QueryRow(
		`SELECT id, repo_path, commit_hash, mode, tier, percentage, affected_count, reason, created_at
		 FROM runs WHERE repo_path = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		repoPath,
	)

	var run Run
	err := row.Scan(&run.ID, &run.RepoPath, &run.Commit, &run.Mode, &run.Tier,
		&run.Percentage, &run.AffectedCount, &run.Reason, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading last run: %w", err)
	}
	return &run, nil
}

// History returns up to limit runs for repoPath, newest first.
func (s *Store) History(repoPath string, limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, repo_path, commit_hash, mode, tier, percentage, affected_count, reason, created_at
		 FROM runs WHERE repo_path = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		repoPath, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("loading run history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.RepoPath, &run.Commit, &run.Mode, &run.Tier,
			&run.Percentage, &run.AffectedCount, &run.Reason, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

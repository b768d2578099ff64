// Package store archives simulation runs in a SQLite database. Each run
// keeps queryable columns for the parameters and headline statistics,
// plus the full results document as JSON for exact reconstruction.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/spikeflow-xyz/go-spikeflow/results"
)

// ErrNotFound is returned when a run ID does not exist in the archive.
var ErrNotFound = errors.New("run not found")

// Store handles SQLite operations for the run archive.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// RunInfo is the queryable summary of an archived run.
type RunInfo struct {
	RunID      string    `json:"runId"`
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
	Status     string    `json:"status"`
	Rate       float64   `json:"rate"`
	Duration   float64   `json:"duration"`
	Seed       uint64    `json:"seed"`
	SpikeCount int       `json:"spikeCount"`
	CV         float64   `json:"cv"`
	Pattern    string    `json:"pattern"`
}

// Open creates or opens a run archive at the given path and applies the
// schema.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		source TEXT NOT NULL DEFAULT 'simulated',
		status TEXT NOT NULL DEFAULT 'success',
		rate REAL NOT NULL,
		duration REAL NOT NULL,
		seed INTEGER NOT NULL,
		spike_count INTEGER NOT NULL DEFAULT 0,
		cv REAL,
		pattern TEXT,
		document TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_seed ON runs(seed);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save archives a run. Saving the same run ID again replaces the stored
// document.
func (s *Store) Save(r *results.Results) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	var cv float64
	var pattern string
	if r.ISI != nil {
		cv = r.ISI.CV
		pattern = r.ISI.Pattern
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO runs (run_id, timestamp, source, status,
		 rate, duration, seed, spike_count, cv, pattern, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Metadata.RunID, r.Metadata.Timestamp.UTC(), r.Metadata.Source,
		r.Metadata.Status, r.Parameters.Rate, r.Parameters.Duration,
		int64(r.Parameters.Seed), r.Train.Summary.Count, cv, pattern,
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	s.log.Debug().
		Str("runId", r.Metadata.RunID).
		Int("spikeCount", r.Train.Summary.Count).
		Msg("run archived")
	return nil
}

// List returns up to limit archived runs, newest first. limit <= 0 means
// no limit.
func (s *Store) List(limit int) ([]RunInfo, error) {
	query := `SELECT run_id, timestamp, source, status, rate, duration,
	 seed, spike_count, cv, pattern
	 FROM runs ORDER BY timestamp DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var infos []RunInfo
	for rows.Next() {
		info, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// Get retrieves the full results document for a run ID.
func (s *Store) Get(runID string) (*results.Results, error) {
	var doc string
	err := s.db.QueryRow(
		`SELECT document FROM runs WHERE run_id = ?`, runID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	var r results.Results
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return &r, nil
}

// Delete removes a run from the archive.
func (s *Store) Delete(runID string) error {
	res, err := s.db.Exec(`DELETE FROM runs WHERE run_id = ?`, runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	return nil
}

// Prune deletes all but the newest keep runs and returns how many were
// removed.
func (s *Store) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.Exec(
		`DELETE FROM runs WHERE run_id NOT IN (
		 SELECT run_id FROM runs ORDER BY timestamp DESC LIMIT ?)`, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info().Int64("removed", n).Int("kept", keep).Msg("pruned run archive")
	}
	return int(n), nil
}

// Count returns the number of archived runs.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

func scanRun(rows *sql.Rows) (RunInfo, error) {
	var info RunInfo
	var seed int64
	var cv sql.NullFloat64
	var pattern sql.NullString
	err := rows.Scan(&info.RunID, &info.Timestamp, &info.Source, &info.Status,
		&info.Rate, &info.Duration, &seed, &info.SpikeCount, &cv, &pattern)
	if err != nil {
		return RunInfo{}, fmt.Errorf("scan run: %w", err)
	}
	info.Seed = uint64(seed)
	if cv.Valid {
		info.CV = cv.Float64
	}
	if pattern.Valid {
		info.Pattern = pattern.String
	}
	return info, nil
}

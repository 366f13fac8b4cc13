package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ErrRunNotFound is returned by GetRun and GetLatestRun.
var ErrRunNotFound = errors.New("run not found")

// Run is one document processed by locate
type Run struct {
	RunID        string
	BatchID      string
	Source       string
	Kind         string
	ContentHash  string
	Period       string
	Language     string
	Title        string
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
	FinishedAt   *time.Time
}

// RunChunk is the stored summary of one located statement
type RunChunk struct {
	RunID            string
	Statement        string
	FirstUniqueHits  int
	SecondUniqueHits int
	ThirdUniqueHits  int
	FourthUniqueHits int
	FifthUniqueHits  int
	Indicators       []string
	ChunkStart       int
	ChunkRunes       int
	Units            int64
}

// NewBatchID returns an id for grouping the runs of one invocation
func NewBatchID() string {
	return uuid.NewString()
}

// InsertRun creates a run in the running state and returns its run_id.
func (db *DB) InsertRun(batchID, source, kind, contentHash, period string) (string, error) {
	runID := uuid.NewString()

	_, err := db.Exec(`
		INSERT INTO runs (run_id, batch_id, source, kind, content_hash, period, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, batchID, source, kind, contentHash, period, StatusRunning)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// InsertChunk records one located statement for a run (upsert).
func (db *DB) InsertChunk(c RunChunk) error {
	indicators := c.Indicators
	if indicators == nil {
		indicators = []string{}
	}
	indicatorsJSON, err := json.Marshal(indicators)
	if err != nil {
		return fmt.Errorf("failed to marshal indicators: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO run_chunks (run_id, statement, first_unique_hits, second_unique_hits, third_unique_hits,
			fourth_unique_hits, fifth_unique_hits, indicators, chunk_start, chunk_runes, units)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, statement) DO UPDATE SET
			first_unique_hits = excluded.first_unique_hits,
			second_unique_hits = excluded.second_unique_hits,
			third_unique_hits = excluded.third_unique_hits,
			fourth_unique_hits = excluded.fourth_unique_hits,
			fifth_unique_hits = excluded.fifth_unique_hits,
			indicators = excluded.indicators,
			chunk_start = excluded.chunk_start,
			chunk_runes = excluded.chunk_runes,
			units = excluded.units
	`, c.RunID, c.Statement, c.FirstUniqueHits, c.SecondUniqueHits, c.ThirdUniqueHits,
		c.FourthUniqueHits, c.FifthUniqueHits, string(indicatorsJSON), c.ChunkStart, c.ChunkRunes, c.Units)
	if err != nil {
		return fmt.Errorf("failed to insert run chunk: %w", err)
	}
	return nil
}

// FinishRun sets the final status of a run. A nil runErr marks it succeeded.
func (db *DB) FinishRun(runID, language, title string, runErr error) error {
	status, message := StatusSucceeded, ""
	if runErr != nil {
		status, message = StatusFailed, runErr.Error()
	}

	result, err := db.Exec(`
		UPDATE runs
		SET status = ?, error_message = ?, language = ?, title = ?, finished_at = ?
		WHERE run_id = ?
	`, status, message, language, title, time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check finished run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

const runColumns = `run_id, batch_id, source, kind, content_hash, COALESCE(period, ''), COALESCE(language, ''),
	COALESCE(title, ''), status, COALESCE(error_message, ''), created_at, finished_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	var finished sql.NullTime
	err := row.Scan(
		&r.RunID,
		&r.BatchID,
		&r.Source,
		&r.Kind,
		&r.ContentHash,
		&r.Period,
		&r.Language,
		&r.Title,
		&r.Status,
		&r.ErrorMessage,
		&r.CreatedAt,
		&finished,
	)
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		r.FinishedAt = &finished.Time
	}
	return &r, nil
}

// ListRuns returns the most recent runs, newest first
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT `+runColumns+`
		FROM runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}

	return runs, rows.Err()
}

// GetRun retrieves a run by its ID
func (db *DB) GetRun(runID string) (*Run, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// GetLatestRun retrieves the most recently created run
func (db *DB) GetLatestRun() (*Run, error) {
	r, err := scanRun(db.QueryRow(`SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return r, nil
}

// GetRunChunks retrieves the located statements of a run in insertion order
func (db *DB) GetRunChunks(runID string) ([]RunChunk, error) {
	rows, err := db.Query(`
		SELECT run_id, statement, first_unique_hits, second_unique_hits, third_unique_hits,
			fourth_unique_hits, fifth_unique_hits, indicators, chunk_start, chunk_runes, units
		FROM run_chunks
		WHERE run_id = ?
		ORDER BY chunk_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run chunks: %w", err)
	}
	defer rows.Close()

	var chunks []RunChunk
	for rows.Next() {
		var c RunChunk
		var indicatorsJSON string
		if err := rows.Scan(
			&c.RunID,
			&c.Statement,
			&c.FirstUniqueHits,
			&c.SecondUniqueHits,
			&c.ThirdUniqueHits,
			&c.FourthUniqueHits,
			&c.FifthUniqueHits,
			&indicatorsJSON,
			&c.ChunkStart,
			&c.ChunkRunes,
			&c.Units,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(indicatorsJSON), &c.Indicators); err != nil {
			return nil, fmt.Errorf("failed to parse indicators for %s: %w", c.Statement, err)
		}
		chunks = append(chunks, c)
	}

	return chunks, rows.Err()
}

// GetBatchRuns retrieves every run of one locate invocation, oldest first
func (db *DB) GetBatchRuns(batchID string) ([]Run, error) {
	rows, err := db.Query(`
		SELECT `+runColumns+`
		FROM runs
		WHERE batch_id = ?
		ORDER BY created_at, rowid
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get batch runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *r)
	}

	return runs, rows.Err()
}

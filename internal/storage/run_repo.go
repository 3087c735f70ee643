package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_store.go -package=mocks github.com/MaTTalv001/ICH-RAG/internal/storage RunStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RunStore defines the interface for ingestion run history.
type RunStore interface {
	// Insert records a completed ingestion run.
	Insert(ctx context.Context, run *IngestRun) error
	// ListRecent returns the most recent runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]IngestRun, error)
}

// RunRepo provides methods for ingestion run operations.
// It implements the RunStore interface.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// Insert records a completed ingestion run.
func (r *RunRepo) Insert(ctx context.Context, run *IngestRun) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ingest_runs
			(started_at, duration_ms, docs_processed, chunks_indexed,
			 pairing_skips, doc_failures, strict)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format("2006-01-02 15:04:05"),
		run.Duration.Milliseconds(),
		run.DocsProcessed, run.ChunksIndexed,
		run.PairingSkips, run.DocFailures,
		boolToInt(run.Strict),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ingest run: %w", err)
	}
	return nil
}

// ListRecent returns the most recent runs, newest first.
// Returns an empty slice if no runs have been recorded (not an error).
func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]IngestRun, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, docs_processed, chunks_indexed,
			pairing_skips, doc_failures, strict
		FROM ingest_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingest runs: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	runs := []IngestRun{}
	for rows.Next() {
		var run IngestRun
		var startedAtStr string
		var durationMs int64
		var strict int

		if err := rows.Scan(&run.ID, &startedAtStr, &durationMs, &run.DocsProcessed,
			&run.ChunksIndexed, &run.PairingSkips, &run.DocFailures, &strict); err != nil {
			return nil, fmt.Errorf("failed to scan ingest run: %w", err)
		}

		if t, err := parseSQLiteTime(startedAtStr); err == nil {
			run.StartedAt = t
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		run.Strict = strict != 0

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ingest runs: %w", err)
	}

	return runs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

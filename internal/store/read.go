package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/sortlab/internal/mutation"
)

const runColumns = `id, algorithm, input, output, status, error, mutations, elapsed_ns, trace_hash`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		run       RunRecord
		input     sql.NullString
		output    sql.NullString
		elapsedNS int64
	)
	if err := row.Scan(
		&run.ID,
		&run.Algorithm,
		&input,
		&output,
		&run.Status,
		&run.Error,
		&run.Mutations,
		&elapsedNS,
		&run.TraceHash,
	); err != nil {
		return RunRecord{}, err
	}

	var err error
	if run.Input, err = unmarshalInts(input); err != nil {
		return RunRecord{}, fmt.Errorf("run %s input: %w", run.ID, err)
	}
	if run.Input == nil {
		run.Input = []int{}
	}
	if run.Output, err = unmarshalInts(output); err != nil {
		return RunRecord{}, fmt.Errorf("run %s output: %w", run.ID, err)
	}
	if run.Output == nil && output.Valid {
		run.Output = []int{}
	}
	run.Elapsed = time.Duration(elapsedNS)
	return run, nil
}

// ReadRun returns the run with the given ID.
// Returns an error wrapping sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err != nil {
		return RunRecord{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns all runs ordered by ID, optionally restricted to one
// algorithm. Run IDs are UUIDv7 in production, so this is start order.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context, algorithm string) ([]RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if algorithm != "" {
		query += ` WHERE algorithm = ?`
		args = append(args, algorithm)
	}
	query += ` ORDER BY id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadMutations returns a run's events in sequence order.
//
// Returns an empty slice (not nil) if the run has no events.
func (s *Store) ReadMutations(ctx context.Context, runID string) ([]mutation.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slot, value
		FROM mutations
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query mutations: %w", err)
	}
	defer rows.Close()

	events := []mutation.Event{}
	for rows.Next() {
		var e mutation.Event
		if err := rows.Scan(&e.Slot, &e.Value); err != nil {
			return nil, fmt.Errorf("scan mutation: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mutations: %w", err)
	}
	return events, nil
}

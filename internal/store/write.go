package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a new run. Uses ON CONFLICT(id) DO NOTHING for
// idempotency - writing the same run twice keeps the first row.
func (s *Store) WriteRun(ctx context.Context, run RunRecord) error {
	input, err := marshalInts(run.Input)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	status := run.Status
	if status == "" {
		status = StatusRunning
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, algorithm, input, status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Algorithm,
		input,
		status,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	return nil
}

// WriteMutations appends events to a run in one transaction.
// Duplicate (run_id, seq) pairs are ignored so a batch can be retried.
//
// The run must already exist (foreign key constraint).
func (s *Store) WriteMutations(ctx context.Context, muts []MutationRecord) error {
	if len(muts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write mutations: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mutations (run_id, seq, slot, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write mutations: prepare: %w", err)
	}
	defer stmt.Close()

	for _, m := range muts {
		if _, err := stmt.ExecContext(ctx, m.RunID, m.Seq, m.Event.Slot, m.Event.Value); err != nil {
			return fmt.Errorf("write mutations: run %s seq %d: %w", m.RunID, m.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write mutations: commit: %w", err)
	}
	return nil
}

// FinishRun records the terminal fields of run (output, status, error,
// mutation count, elapsed time, trace hash). The run must exist.
func (s *Store) FinishRun(ctx context.Context, run RunRecord) error {
	output, err := marshalInts(run.Output)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET output = ?, status = ?, error = ?, mutations = ?, elapsed_ns = ?, trace_hash = ?
		WHERE id = ?
	`,
		output,
		run.Status,
		run.Error,
		run.Mutations,
		run.Elapsed.Nanoseconds(),
		run.TraceHash,
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish run %s: run not found", run.ID)
	}
	return nil
}

package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/sortlab/internal/mutation"
	"github.com/roach88/sortlab/internal/trace"
)

// ReplayResult is the outcome of rebuilding a stored run from its events.
type ReplayResult struct {
	Run      RunRecord
	Events   []mutation.Event
	Replayed []int

	// Matches is true when the replayed contents equal the recorded output.
	// Always false for a run that has not finished.
	Matches bool
}

// ReplayRun applies a run's stored events to its stored input.
func (s *Store) ReplayRun(ctx context.Context, id string) (ReplayResult, error) {
	run, err := s.ReadRun(ctx, id)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay: %w", err)
	}

	events, err := s.ReadMutations(ctx, id)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay run %s: %w", id, err)
	}

	replayed, err := mutation.Replay(run.Input, events)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay run %s: %w", id, err)
	}

	return ReplayResult{
		Run:      run,
		Events:   events,
		Replayed: replayed,
		Matches:  run.Finished() && slices.Equal(replayed, run.Output),
	}, nil
}

// Snapshot builds the trace snapshot of a stored run, labelled with scenario.
func (s *Store) Snapshot(ctx context.Context, id, scenario string) (trace.Snapshot, error) {
	run, err := s.ReadRun(ctx, id)
	if err != nil {
		return trace.Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	events, err := s.ReadMutations(ctx, id)
	if err != nil {
		return trace.Snapshot{}, fmt.Errorf("snapshot run %s: %w", id, err)
	}
	return trace.Snapshot{
		Scenario:  scenario,
		Algorithm: run.Algorithm,
		Input:     run.Input,
		Output:    run.Output,
		Status:    run.Status,
		Events:    events,
	}, nil
}

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/sortlab/internal/mutation"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// writeTestRun writes a run row and its events, numbered from 1.
func writeTestRun(t *testing.T, s *Store, id, algorithm string, input []int, events ...mutation.Event) {
	t.Helper()
	ctx := context.Background()
	if err := s.WriteRun(ctx, RunRecord{ID: id, Algorithm: algorithm, Input: input}); err != nil {
		t.Fatalf("WriteRun() failed: %v", err)
	}
	muts := make([]MutationRecord, len(events))
	for i, e := range events {
		muts[i] = MutationRecord{RunID: id, Seq: int64(i + 1), Event: e}
	}
	if err := s.WriteMutations(ctx, muts); err != nil {
		t.Fatalf("WriteMutations() failed: %v", err)
	}
}

// swapEvents is the exchange triplet for swapping slots 0 and 1 of [2, 1].
func swapEvents() []mutation.Event {
	return []mutation.Event{
		{Slot: mutation.Hold, Value: 2},
		{Slot: 0, Value: 1},
		{Slot: 1, Value: 2},
	}
}

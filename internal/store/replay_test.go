package store

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"testing"

	"github.com/roach88/sortlab/internal/mutation"
	"github.com/roach88/sortlab/internal/trace"
)

func TestReplayRun_Matches(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	writeTestRun(t, s, "run-1", "bubble", []int{2, 1}, swapEvents()...)
	if err := s.FinishRun(ctx, RunRecord{ID: "run-1", Output: []int{1, 2}, Status: "completed", Mutations: 3}); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	res, err := s.ReplayRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReplayRun() failed: %v", err)
	}
	if !slices.Equal(res.Replayed, []int{1, 2}) {
		t.Errorf("Replayed = %v", res.Replayed)
	}
	if !res.Matches {
		t.Error("replay should match the recorded output")
	}
	if len(res.Events) != 3 {
		t.Errorf("len(Events) = %d, want 3", len(res.Events))
	}
}

func TestReplayRun_DetectsMismatch(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	writeTestRun(t, s, "run-1", "bubble", []int{2, 1}, swapEvents()...)
	if err := s.FinishRun(ctx, RunRecord{ID: "run-1", Output: []int{2, 1}, Status: "completed"}); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	res, err := s.ReplayRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReplayRun() failed: %v", err)
	}
	if res.Matches {
		t.Error("replay must not match a tampered output")
	}
}

func TestReplayRun_UnfinishedNeverMatches(t *testing.T) {
	s := createTestStore(t)
	writeTestRun(t, s, "run-1", "bubble", []int{2, 1}, swapEvents()...)

	res, err := s.ReplayRun(context.Background(), "run-1")
	if err != nil {
		t.Fatalf("ReplayRun() failed: %v", err)
	}
	if res.Matches {
		t.Error("a running run has no output to match")
	}
}

func TestReplayRun_SlotOutOfRange(t *testing.T) {
	s := createTestStore(t)
	writeTestRun(t, s, "run-1", "bubble", []int{2, 1}, mutation.Event{Slot: 7, Value: 1})

	if _, err := s.ReplayRun(context.Background(), "run-1"); err == nil {
		t.Error("expected error for an event outside the sequence")
	}
}

func TestReplayRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReplayRun(context.Background(), "nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ReplayRun() error = %v, want sql.ErrNoRows", err)
	}
}

func TestSnapshot(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	writeTestRun(t, s, "run-1", "bubble", []int{2, 1}, swapEvents()...)
	if err := s.FinishRun(ctx, RunRecord{ID: "run-1", Output: []int{1, 2}, Status: "completed"}); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	snap, err := s.Snapshot(ctx, "run-1", "pair")
	if err != nil {
		t.Fatalf("Snapshot() failed: %v", err)
	}
	want := trace.Snapshot{
		Scenario:  "pair",
		Algorithm: "bubble",
		Input:     []int{2, 1},
		Output:    []int{1, 2},
		Status:    "completed",
		Events:    swapEvents(),
	}
	got, _ := snap.MarshalCanonical()
	expected, _ := want.MarshalCanonical()
	if string(got) != string(expected) {
		t.Errorf("Snapshot() = %s, want %s", got, expected)
	}
}

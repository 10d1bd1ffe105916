package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/sortlab/internal/engine"
	"github.com/roach88/sortlab/internal/seqgen"
	"github.com/roach88/sortlab/internal/store"
	"github.com/roach88/sortlab/internal/trace"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// ReplaySummary is the output of the replay command.
type ReplaySummary struct {
	RunID       string `json:"run_id"`
	Algorithm   string `json:"algorithm"`
	Status      string `json:"status"`
	Events      int    `json:"events"`
	Input       []int  `json:"input"`
	Replayed    []int  `json:"replayed"`
	Recorded    []int  `json:"recorded"`
	Matches     bool   `json:"matches"`
	Permutation bool   `json:"permutation"`
	Sorted      bool   `json:"sorted"`
	TraceHash   string `json:"trace_hash"`
	HashMatches bool   `json:"hash_matches"`
}

// Verified reports whether the replay reproduced the recorded run: the
// replayed contents equal the recorded output, are a permutation of the
// input, the trace hash is unchanged, and a completed run ends sorted.
func (s ReplaySummary) Verified() bool {
	if !s.Matches || !s.Permutation || !s.HashMatches {
		return false
	}
	return s.Status != engine.StatusCompleted.String() || s.Sorted
}

func (s ReplaySummary) WriteText(w io.Writer) {
	fmt.Fprintf(w, "run %s (%s): %s, %d events\n", s.RunID, s.Algorithm, s.Status, s.Events)
	fmt.Fprintf(w, "  input:    %v\n", s.Input)
	fmt.Fprintf(w, "  replayed: %v\n", s.Replayed)
	fmt.Fprintf(w, "  trace:    %s\n", s.TraceHash)
	if s.Verified() {
		fmt.Fprintln(w, "✓ replay reproduces the recorded run")
		return
	}
	fmt.Fprintf(w, "✗ replay differs: matches=%t permutation=%t sorted=%t hash=%t\n",
		s.Matches, s.Permutation, s.Sorted, s.HashMatches)
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <run-id>",
		Short: "Rebuild a recorded run from its events",
		Long: `Replay a recorded run's mutation events over its recorded input and verify
that they rebuild the recorded output.

HOLD events are skipped; every other event writes its value into its slot.
The trace hash is recomputed from the stored events and compared with the
hash recorded when the run finished.

Exit codes:
  0 - Replay reproduces the recorded run
  1 - Replay differs (or a completed run does not replay to sorted contents)
  2 - Command error (database not found, unknown run, etc.)

Examples:
  sortlab replay --db ./sortlab.db 01920000-0000-7000-8000-000000000000
  sortlab replay --db ./sortlab.db RUN_ID --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") && opts.Config.Database != "" {
				opts.Database = opts.Config.Database
			}
			if opts.Database == "" {
				return NewExitError(ExitCommandError, "--db is required")
			}
			return runReplay(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")

	return cmd
}

func runReplay(opts *ReplayOptions, runID string, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	summary, err := replayRun(ctx, st, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", runID))
		}
		return WrapExitError(ExitCommandError, "failed to replay run", err)
	}

	out := newFormatter(cmd, opts.RootOptions)
	if !summary.Verified() {
		if err := out.Failure("E_REPLAY_MISMATCH", "replay does not reproduce the recorded run", summary); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("replay of run %s differs", runID))
	}
	return out.Success(summary)
}

// replayRun rebuilds one stored run and checks it.
func replayRun(ctx context.Context, st *store.Store, runID string) (ReplaySummary, error) {
	replay, err := st.ReplayRun(ctx, runID)
	if err != nil {
		return ReplaySummary{}, err
	}

	snapshot, err := st.Snapshot(ctx, runID, "")
	if err != nil {
		return ReplaySummary{}, err
	}
	hash, err := trace.Hash(snapshot)
	if err != nil {
		return ReplaySummary{}, err
	}

	run := replay.Run
	return ReplaySummary{
		RunID:       run.ID,
		Algorithm:   run.Algorithm,
		Status:      run.Status,
		Events:      len(replay.Events),
		Input:       run.Input,
		Replayed:    replay.Replayed,
		Recorded:    run.Output,
		Matches:     replay.Matches,
		Permutation: seqgen.SameMultiset(run.Input, replay.Replayed),
		Sorted:      slices.IsSorted(replay.Replayed),
		TraceHash:   hash,
		HashMatches: run.TraceHash == hash,
	}, nil
}

// openExisting opens a database that must already exist. store.Open would
// create a missing file.
func openExisting(path string) (*store.Store, error) {
	if !fileExists(path) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/sortlab/internal/mutation"
	"github.com/roach88/sortlab/internal/store"
	"github.com/roach88/sortlab/internal/trace"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database  string
	Algorithm string // optional - filter the run list
	Canonical bool   // print the canonical trace snapshot of one run
}

// RunListEntry is one recorded run in the trace listing.
type RunListEntry struct {
	RunID     string  `json:"run_id"`
	Algorithm string  `json:"algorithm"`
	Status    string  `json:"status"`
	Length    int     `json:"length"`
	Mutations int64   `json:"mutations"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Error     string  `json:"error,omitempty"`
}

// RunList is the output of trace without a run ID.
type RunList []RunListEntry

func (l RunList) WriteText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tALGORITHM\tSTATUS\tLEN\tMUTATIONS\tELAPSED")
	for _, r := range l {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%.3fms\n", r.RunID, r.Algorithm, r.Status, r.Length, r.Mutations, r.ElapsedMS)
	}
	tw.Flush()
}

// TraceEvent is one stored mutation in a run timeline.
type TraceEvent struct {
	Seq   int64 `json:"seq"`
	Slot  int   `json:"slot"`
	Value int   `json:"value"`
	Hold  bool  `json:"hold,omitempty"`
}

// RunTrace is the output of trace for one run.
type RunTrace struct {
	Run      RunListEntry `json:"run"`
	Input    []int        `json:"input"`
	Output   []int        `json:"output"`
	Timeline []TraceEvent `json:"timeline"`
	Stats    TraceStats   `json:"stats"`
}

// TraceStats holds summary statistics for a run's events.
type TraceStats struct {
	TotalEvents int `json:"total_events"`
	Holds       int `json:"holds"`
	Writes      int `json:"writes"`
	Exchanges   int `json:"exchanges"`
}

func (t RunTrace) WriteText(w io.Writer) {
	fmt.Fprintf(w, "run %s (%s): %s\n", t.Run.RunID, t.Run.Algorithm, t.Run.Status)
	fmt.Fprintf(w, "  input:  %v\n", t.Input)
	fmt.Fprintf(w, "  output: %v\n", t.Output)
	fmt.Fprintln(w)
	for _, ev := range t.Timeline {
		if ev.Hold {
			fmt.Fprintf(w, "%6d  HOLD  <- %d\n", ev.Seq, ev.Value)
			continue
		}
		fmt.Fprintf(w, "%6d  [%d] <- %d\n", ev.Seq, ev.Slot, ev.Value)
	}
	fmt.Fprintf(w, "\n%d events: %d holds, %d writes, %d exchanges\n",
		t.Stats.TotalEvents, t.Stats.Holds, t.Stats.Writes, t.Stats.Exchanges)
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace [run-id]",
		Short: "List recorded runs or show one run's events",
		Long: `Without a run ID, list the recorded runs. With one, print the run's
mutation timeline in the order the events were emitted.

--canonical prints the run's trace snapshot as canonical JSON, the exact
bytes its trace hash is computed over.

Examples:
  sortlab trace --db ./sortlab.db
  sortlab trace --db ./sortlab.db --algorithm heap
  sortlab trace --db ./sortlab.db RUN_ID
  sortlab trace --db ./sortlab.db RUN_ID --canonical`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("db") && opts.Config.Database != "" {
				opts.Database = opts.Config.Database
			}
			if opts.Database == "" {
				return NewExitError(ExitCommandError, "--db is required")
			}
			return runTrace(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&opts.Algorithm, "algorithm", "", "list only runs of this algorithm")
	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "print the canonical trace snapshot")

	return cmd
}

func runTrace(opts *TraceOptions, args []string, cmd *cobra.Command) error {
	ctx := context.Background()

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	out := newFormatter(cmd, opts.RootOptions)

	if len(args) == 0 {
		if opts.Canonical {
			return NewExitError(ExitCommandError, "--canonical needs a run ID")
		}
		runs, err := st.ListRuns(ctx, opts.Algorithm)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		list := make(RunList, len(runs))
		for i, r := range runs {
			list[i] = listEntry(r)
		}
		return out.Success(list)
	}

	runID := args[0]
	if opts.Canonical {
		snapshot, err := st.Snapshot(ctx, runID, "")
		if err != nil {
			return traceLookupError(runID, err)
		}
		data, err := trace.MarshalCanonical(snapshot.Value())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to encode trace", err)
		}
		fmt.Fprintln(out.Writer, string(data))
		return nil
	}

	run, err := st.ReadRun(ctx, runID)
	if err != nil {
		return traceLookupError(runID, err)
	}
	events, err := st.ReadMutations(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read events", err)
	}
	return out.Success(buildRunTrace(run, events))
}

func buildRunTrace(run store.RunRecord, events []mutation.Event) RunTrace {
	t := RunTrace{
		Run:      listEntry(run),
		Input:    run.Input,
		Output:   run.Output,
		Timeline: make([]TraceEvent, len(events)),
	}
	for i, ev := range events {
		t.Timeline[i] = TraceEvent{Seq: int64(i + 1), Slot: ev.Slot, Value: ev.Value, Hold: ev.IsHold()}
		if ev.IsHold() {
			t.Stats.Holds++
		} else {
			t.Stats.Writes++
		}
	}
	pairs, _ := mutation.Exchanges(events)
	t.Stats.TotalEvents = len(events)
	t.Stats.Exchanges = len(pairs)
	return t
}

func listEntry(r store.RunRecord) RunListEntry {
	return RunListEntry{
		RunID:     r.ID,
		Algorithm: r.Algorithm,
		Status:    r.Status,
		Length:    len(r.Input),
		Mutations: r.Mutations,
		ElapsedMS: float64(r.Elapsed.Microseconds()) / 1000,
		Error:     r.Error,
	}
}

func traceLookupError(runID string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return NewExitError(ExitCommandError, fmt.Sprintf("run not found: %s", runID))
	}
	return WrapExitError(ExitCommandError, "failed to read run", err)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

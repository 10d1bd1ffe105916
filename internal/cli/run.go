package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/sortlab/internal/algo"
	"github.com/roach88/sortlab/internal/engine"
	"github.com/roach88/sortlab/internal/mutation"
	"github.com/roach88/sortlab/internal/seqgen"
	"github.com/roach88/sortlab/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Algorithm string
	Input     string
	Random    int
	Seed      uint64
	Max       int
	Pace      time.Duration
	Database  string
	Events    bool
	Timeout   time.Duration

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// RunEvent is one mutation as printed by the run command.
type RunEvent struct {
	Seq   int64 `json:"seq"`
	Slot  int   `json:"slot"`
	Value int   `json:"value"`
}

// RunSummary is the output of the run command.
type RunSummary struct {
	RunID     string     `json:"run_id"`
	Algorithm string     `json:"algorithm"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	Mutations int64      `json:"mutations"`
	ElapsedMS float64    `json:"elapsed_ms"`
	Input     []int      `json:"input"`
	Output    []int      `json:"output"`
	Events    []RunEvent `json:"events,omitempty"`
}

func (s RunSummary) WriteText(w io.Writer) {
	fmt.Fprintf(w, "run %s (%s): %s, %d mutations in %.3fms\n", s.RunID, s.Algorithm, s.Status, s.Mutations, s.ElapsedMS)
	fmt.Fprintf(w, "  input:  %v\n", s.Input)
	fmt.Fprintf(w, "  output: %v\n", s.Output)
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sort a sequence in the background",
		Long: `Sort a sequence with one algorithm through the engine.

The run is paced between mutations and can be interrupted with Ctrl-C,
which cancels it and prints the partially sorted contents. With --db the
run and its events are recorded for replay and trace.

Exit codes:
  0 - Run completed or was cancelled
  1 - Run failed
  2 - Command error (bad input, database not found, etc.)

Examples:
  sortlab run --algorithm bubble --input 5,3,5,1 --events
  sortlab run --algorithm heap --random 200 --seed 7 --pace 5ms --db ./sortlab.db
  sortlab run --algorithm merge --random 50 --timeout 100ms --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("algorithm") {
				opts.Algorithm = opts.Config.Algorithm
			}
			if !cmd.Flags().Changed("pace") {
				opts.Pace = opts.Config.Pace
			}
			if !cmd.Flags().Changed("db") {
				opts.Database = opts.Config.Database
			}
			return runSort(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Algorithm, "algorithm", "a", "", "algorithm name (see list)")
	cmd.Flags().StringVar(&opts.Input, "input", "", "comma-separated integers to sort")
	cmd.Flags().IntVar(&opts.Random, "random", 0, "sort N random integers instead of --input")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "seed for --random")
	cmd.Flags().IntVar(&opts.Max, "max", 100, "exclusive upper bound for --random values")
	cmd.Flags().DurationVar(&opts.Pace, "pace", 0, "minimum delay between mutations")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run into this SQLite database")
	cmd.Flags().BoolVar(&opts.Events, "events", false, "print every mutation event")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "cancel the run after this long (0 = never)")

	return cmd
}

func runSort(opts *RunOptions, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts.RootOptions)

	alg, ok := algo.ByName(opts.Algorithm)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown algorithm %q (known: %s)", opts.Algorithm, strings.Join(algo.Names(), ", ")))
	}

	seq, err := inputSequence(cmd, opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid input", err)
	}
	input := slices.Clone(seq)

	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = engine.UUIDv7Generator{}
	}
	engOpts := []engine.Option{
		engine.WithPace(opts.Pace),
		engine.WithRunIDGenerator(runIDs),
		engine.WithObserver(engine.NewLogObserver(slog.Default())),
	}

	var recorder *store.Recorder
	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		recorder = store.NewRecorder(st)
		engOpts = append(engOpts, engine.WithObserver(recorder))
	}

	var events []RunEvent
	if opts.Events {
		engOpts = append(engOpts, engine.WithObserver(engine.ObserverFuncs{
			OnMutation: func(_ string, seq int64, ev mutation.Event) {
				if out.IsJSON() {
					events = append(events, RunEvent{Seq: seq, Slot: ev.Slot, Value: ev.Value})
					return
				}
				fmt.Fprintf(out.Writer, "%6d %s\n", seq, ev)
			},
		}))
	}
	eng := engine.New(engOpts...)

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()
	if opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, cancelling run", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	run, startErr := eng.Start(ctx, seq, alg)
	if startErr != nil {
		slog.Debug("run rejected", "error", startErr)
	}

	// The run observes ctx itself; waiting on Background lets a cancelled run
	// still deliver its result.
	res, err := run.Wait(context.Background())
	if err != nil {
		return WrapExitError(ExitFailure, "run did not settle", err)
	}
	eng.Wait()

	if recorder != nil {
		if err := recorder.Err(); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
	}

	summary := RunSummary{
		RunID:     run.ID(),
		Algorithm: alg.Name,
		Status:    res.Status.String(),
		Mutations: res.Mutations,
		ElapsedMS: float64(res.Elapsed.Microseconds()) / 1000,
		Input:     input,
		Output:    res.Output,
		Events:    events,
	}
	if res.Status == engine.StatusFailed {
		summary.Error = res.Err.Error()
		if err := out.Failure("E_RUN_FAILED", summary.Error, summary); err != nil {
			return err
		}
		return WrapExitError(ExitFailure, "run failed", res.Err)
	}
	return out.Success(summary)
}

// inputSequence builds the sequence to sort from --input or --random.
func inputSequence(cmd *cobra.Command, opts *RunOptions) ([]int, error) {
	hasInput := cmd.Flags().Changed("input")
	switch {
	case hasInput && opts.Random > 0:
		return nil, fmt.Errorf("--input and --random are mutually exclusive")
	case hasInput:
		return parseInts(opts.Input)
	case opts.Random > 0:
		if opts.Max <= 0 {
			return nil, fmt.Errorf("--max must be positive")
		}
		return seqgen.Random(opts.Seed, opts.Random, opts.Max), nil
	case opts.Random < 0:
		return nil, fmt.Errorf("--random must not be negative")
	default:
		return nil, fmt.Errorf("one of --input or --random is required")
	}
}

// parseInts parses a comma-separated list of integers. An empty string is
// the empty sequence.
func parseInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

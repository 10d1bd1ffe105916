package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/sortlab/internal/algo"
	"github.com/roach88/sortlab/internal/engine"
	"github.com/roach88/sortlab/internal/metrics"
	"github.com/roach88/sortlab/internal/seqgen"
)

// BenchOptions holds flags for the bench command.
type BenchOptions struct {
	*RootOptions
	Random     int
	Seed       uint64
	Max        int
	Algorithms []string
	Metrics    bool
}

// BenchRun is one algorithm's outcome in a bench.
type BenchRun struct {
	Algorithm string  `json:"algorithm"`
	RunID     string  `json:"run_id"`
	Status    string  `json:"status"`
	Mutations int64   `json:"mutations"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Sorted    bool    `json:"sorted"`
}

// BenchResult is the output of the bench command.
type BenchResult struct {
	Length  int        `json:"length"`
	Seed    uint64     `json:"seed"`
	Runs    []BenchRun `json:"runs"`
	Metrics string     `json:"metrics,omitempty"`
}

func (r BenchResult) WriteText(w io.Writer) {
	fmt.Fprintf(w, "%d values, seed %d\n\n", r.Length, r.Seed)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ALGORITHM\tSTATUS\tMUTATIONS\tELAPSED\tSORTED")
	for _, run := range r.Runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.3fms\t%t\n", run.Algorithm, run.Status, run.Mutations, run.ElapsedMS, run.Sorted)
	}
	tw.Flush()
	if r.Metrics != "" {
		fmt.Fprintf(w, "\n%s", r.Metrics)
	}
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BenchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run several algorithms concurrently on the same input",
		Long: `Run algorithms side by side, each on its own copy of one random input.

Runs are unpaced. The table reports each run's status, mutation count and
elapsed time; --metrics appends the Prometheus counters collected while
they ran.

Examples:
  sortlab bench --random 1000
  sortlab bench --random 500 --seed 3 --algorithms quick,heap,merge --metrics`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Random, "random", 1000, "number of random values")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&opts.Max, "max", 1000, "exclusive upper bound for values")
	cmd.Flags().StringSliceVar(&opts.Algorithms, "algorithms", nil, "algorithms to run (default all)")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print collected Prometheus metrics")

	return cmd
}

func runBench(opts *BenchOptions, cmd *cobra.Command) error {
	if opts.Random < 0 || opts.Max <= 0 {
		return NewExitError(ExitCommandError, "--random must not be negative and --max must be positive")
	}

	algs, err := selectAlgorithms(opts.Algorithms)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --algorithms", err)
	}

	reg := prometheus.NewRegistry()
	eng := engine.New(engine.WithObserver(metrics.MustNew(reg)))

	input := seqgen.Random(opts.Seed, opts.Random, opts.Max)
	runs := make([]BenchRun, len(algs))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	g, gctx := errgroup.WithContext(ctx)
	for i, alg := range algs {
		g.Go(func() error {
			run, err := eng.Start(gctx, slices.Clone(input), alg)
			if err != nil {
				return fmt.Errorf("%s: %w", alg.Name, err)
			}
			res, err := run.Wait(context.Background())
			if err != nil {
				return fmt.Errorf("%s: %w", alg.Name, err)
			}
			if res.Status == engine.StatusFailed {
				return fmt.Errorf("%s: %w", alg.Name, res.Err)
			}
			runs[i] = BenchRun{
				Algorithm: alg.Name,
				RunID:     run.ID(),
				Status:    res.Status.String(),
				Mutations: res.Mutations,
				ElapsedMS: float64(res.Elapsed.Microseconds()) / 1000,
				Sorted:    seqgen.SortedPermutation(input, res.Output),
			}
			return nil
		})
	}
	err = g.Wait()
	eng.Wait()
	if err != nil {
		return WrapExitError(ExitFailure, "bench run failed", err)
	}
	slog.Debug("bench finished", "algorithms", len(algs), "len", len(input))

	result := BenchResult{Length: len(input), Seed: opts.Seed, Runs: runs}
	if opts.Metrics {
		text, err := gatherText(reg)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to gather metrics", err)
		}
		result.Metrics = text
	}
	return newFormatter(cmd, opts.RootOptions).Success(result)
}

// selectAlgorithms resolves names, or returns every algorithm when names is
// empty.
func selectAlgorithms(names []string) ([]*algo.Algorithm, error) {
	if len(names) == 0 {
		return algo.All(), nil
	}
	algs := make([]*algo.Algorithm, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		a, ok := algo.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown algorithm %q (known: %s)", name, strings.Join(algo.Names(), ", "))
		}
		if seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		algs = append(algs, a)
	}
	return algs, nil
}

// gatherText renders every metric family in reg in the Prometheus text
// exposition format.
func gatherText(reg *prometheus.Registry) (string, error) {
	families, err := reg.Gather()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&b, mf); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/roach88/sortlab/internal/algo"
	"github.com/roach88/sortlab/internal/engine"
	"github.com/roach88/sortlab/internal/mutation"
	"github.com/roach88/sortlab/internal/store"
	"github.com/roach88/sortlab/internal/testutil"
	"github.com/roach88/sortlab/internal/trace"
)

// RunTimeout bounds how long a scenario may take to settle.
const RunTimeout = 30 * time.Second

// Harness executes scenarios against a fresh engine and store.
type Harness struct {
	store    *store.Store
	recorder *store.Recorder
	engine   *engine.Engine
	logger   *slog.Logger
	events   *eventLog
}

// eventLog collects the events of one run in delivery order.
type eventLog struct {
	mu     sync.Mutex
	events []mutation.Event
}

func (l *eventLog) Mutated(_ string, _ int64, ev mutation.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) snapshot() []mutation.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.events)
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database with a fixed run ID and no
// pacing, so the same scenario always produces the same trace.
//
// Execution flow:
//  1. Open an in-memory store and attach a recorder to a new engine
//  2. Start the run, cancelled up front if the scenario asks for it
//  3. Wait for the terminal result
//  4. Check expectations and assertions
//
// The returned error reports harness failures only. Expectation and
// assertion failures are listed in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller context bounding the wait.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	alg, ok := algo.ByName(scenario.Algorithm)
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q", scenario.Algorithm)
	}

	h, err := newHarness(scenario)
	if err != nil {
		return nil, err
	}
	defer h.store.Close()

	runCtx := ctx
	if scenario.CancelBeforeStart {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithCancel(ctx)
		cancel()
	}

	// Input is cloned so the scenario stays reusable; nil stays nil.
	seq := testutil.Clone(scenario.Input)
	run, startErr := h.engine.Start(runCtx, seq, alg)
	if startErr != nil {
		h.logger.Debug("run rejected", "scenario", scenario.Name, "error", startErr)
	}

	waitCtx, cancel := context.WithTimeout(ctx, RunTimeout)
	defer cancel()
	res, err := run.Wait(waitCtx)
	if err != nil {
		run.Cancel()
		h.engine.Wait()
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	h.engine.Wait()

	if err := h.recorder.Err(); err != nil {
		return nil, fmt.Errorf("scenario %s: record run: %w", scenario.Name, err)
	}

	result := NewResult()
	result.RunID = run.ID()
	result.Run = res
	result.Trace = trace.Snapshot{
		Scenario:  scenario.Name,
		Algorithm: alg.Name,
		Input:     scenario.Input,
		Output:    res.Output,
		Status:    res.Status.String(),
		Events:    h.events.snapshot(),
	}

	checkExpect(result, scenario.Expect)
	for _, msg := range evaluateAssertions(scenario.Assertions, assertionContext{
		ctx:   ctx,
		store: h.store,
		runID: run.ID(),
		alg:   alg,
		trace: result.Trace,
	}) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"status", result.Trace.Status,
		"events", len(result.Trace.Events),
		"pass", result.Pass,
	)
	return result, nil
}

func newHarness(scenario *Scenario) (*Harness, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	runID := scenario.RunID
	if runID == "" {
		runID = "scenario-" + scenario.Name
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	events := &eventLog{}
	recorder := store.NewRecorder(st)
	eng := engine.New(
		engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(runID)),
		engine.WithObserver(recorder),
		engine.WithObserver(engine.ObserverFuncs{OnMutation: events.Mutated}),
		engine.WithObserver(engine.NewLogObserver(logger)),
	)

	return &Harness{
		store:    st,
		recorder: recorder,
		engine:   eng,
		logger:   logger,
		events:   events,
	}, nil
}

// checkExpect compares the run with the scenario's expected outcome.
func checkExpect(result *Result, expect Expect) {
	tr := result.Trace

	if tr.Status != expect.Status {
		result.AddError(fmt.Sprintf("status: expected %s, got %s", expect.Status, tr.Status))
	}

	if expect.Output != nil && !slices.Equal(expect.Output, tr.Output) {
		result.AddError(fmt.Sprintf("output: expected %v, got %v", expect.Output, tr.Output))
	}

	if expect.Error != "" {
		switch {
		case result.Run.Err == nil:
			result.AddError(fmt.Sprintf("error: expected %q, run did not fail", expect.Error))
		case !strings.Contains(result.Run.Err.Error(), expect.Error):
			result.AddError(fmt.Sprintf("error: expected %q, got %q", expect.Error, result.Run.Err.Error()))
		}
	}

	if len(expect.FirstEvents) > len(tr.Events) {
		result.AddError(fmt.Sprintf("first_events: expected at least %d events, got %d", len(expect.FirstEvents), len(tr.Events)))
	} else {
		for i, want := range expect.FirstEvents {
			got := tr.Events[i]
			if got.Slot != want[0] || got.Value != want[1] {
				result.AddError(fmt.Sprintf("first_events[%d]: expected %v, got %s", i, want, got))
			}
		}
	}

	if expect.EventCount != nil && *expect.EventCount != len(tr.Events) {
		result.AddError(fmt.Sprintf("event_count: expected %d, got %d", *expect.EventCount, len(tr.Events)))
	}
}

package engine

import (
	"context"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/time/rate"

	"github.com/roach88/sortlab/internal/algo"
	"github.com/roach88/sortlab/internal/mutation"
)

// Engine starts sorting runs in the background and reports their mutations
// and results to observers.
//
// Each run gets one worker goroutine that executes the routine and one
// delivery goroutine that calls observers in emission order. At most one run
// may sort a given sequence at a time; a run holds the memory its slice
// covers, so overlapping views of one backing array conflict.
//
// Thread-safety: all methods are safe for concurrent use.
type Engine struct {
	pace      time.Duration
	observers []Observer
	ids       RunIDGenerator

	mu     sync.Mutex
	active map[*Run]span

	wg sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithPace delays each mutation event so that consecutive events are at
// least d apart. Zero disables pacing.
func WithPace(d time.Duration) Option {
	return func(e *Engine) {
		e.pace = d
	}
}

// WithObserver adds an observer that receives the notifications of every run.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// WithRunIDGenerator replaces the default UUIDv7 run IDs.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		ids:    UUIDv7Generator{},
		active: make(map[*Run]span),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start sorts seq in place with alg on a background goroutine and returns
// immediately.
//
// A nil seq or alg is rejected with INVALID_INPUT, and a sequence that is
// already being sorted with CONCURRENT_RUN. A rejected run is still
// returned, already settled as Failed with the same error, and its
// observers still see RunStarted and RunFinished.
//
// Cancelling ctx raises the run's cancellation signal. If ctx is already
// done the signal is raised before the routine starts, so the routine stops
// at its first poll.
func (e *Engine) Start(ctx context.Context, seq []int, alg *algo.Algorithm, observers ...Observer) (*Run, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	run := newRun(e.ids.Generate(), alg, e.observersFor(observers))
	info := RunInfo{ID: run.id, Input: slices.Clone(seq)}
	if alg != nil {
		info.Algorithm = alg.Name
	}

	var (
		claimed bool
		err     error
	)
	switch {
	case seq == nil:
		err = NewInvalidInputError(run.id, "sequence is absent")
	case alg == nil || alg.Sort == nil:
		err = NewInvalidInputError(run.id, "algorithm is absent")
	default:
		claimed, err = e.claim(seq, run)
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		run.deliver()
	}()
	run.queue.Enqueue(delivery{kind: deliverStart, info: info})

	if err != nil {
		slog.Warn("run rejected",
			"run", run.id,
			"algorithm", info.Algorithm,
			"error", err,
		)
		run.finish(Result{Status: StatusFailed, Err: err})
		return run, err
	}

	if ctx.Err() != nil {
		run.Cancel()
	}
	stop := context.AfterFunc(ctx, run.Cancel)

	slog.Debug("run scheduled",
		"run", run.id,
		"algorithm", alg.Name,
		"len", len(seq),
	)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.work(run, seq, claimed, stop)
	}()

	return run, nil
}

// Cancel raises run's cancellation signal.
func (e *Engine) Cancel(run *Run) {
	if run != nil {
		run.Cancel()
	}
}

// Active returns the number of runs whose routine has not yet returned.
func (e *Engine) Active() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

// Wait blocks until every started run has delivered its result.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) observersFor(extra []Observer) []Observer {
	out := make([]Observer, 0, len(e.observers)+len(extra))
	out = append(out, e.observers...)
	for _, o := range extra {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// span is the half-open address range [start, end) of a slice's elements.
type span struct {
	start, end uintptr
}

func spanOf(seq []int) span {
	start := uintptr(unsafe.Pointer(unsafe.SliceData(seq)))
	return span{start: start, end: start + uintptr(len(seq))*unsafe.Sizeof(seq[0])}
}

func (a span) overlaps(b span) bool {
	return a.start < b.end && b.start < a.end
}

// claim registers run as the holder of the memory seq covers. An empty
// sequence covers nothing and is never claimed.
func (e *Engine) claim(seq []int, run *Run) (bool, error) {
	if len(seq) == 0 {
		return false, nil
	}
	want := spanOf(seq)

	e.mu.Lock()
	defer e.mu.Unlock()

	for holder, held := range e.active {
		if held.overlaps(want) {
			return false, NewConflictError(run.id, run.alg.Name, holder.id)
		}
	}
	e.active[run] = want
	return true, nil
}

func (e *Engine) release(run *Run) {
	e.mu.Lock()
	delete(e.active, run)
	e.mu.Unlock()
}

// work runs the routine on the worker goroutine. The claim is released
// before the result is queued, so an observer reacting to RunFinished can
// start a new run on the same sequence.
func (e *Engine) work(run *Run, seq []int, claimed bool, stop func() bool) {
	probe := &runProbe{run: run, clock: NewClock()}
	if e.pace > 0 {
		probe.limiter = rate.NewLimiter(rate.Every(e.pace), 1)
	}

	started := time.Now()
	recovered := runSorter(run.alg.Sort, seq, probe)
	elapsed := time.Since(started)

	stop()
	if claimed {
		e.release(run)
	}

	res := Result{
		Mutations: probe.clock.Current(),
		Output:    slices.Clone(seq),
		Elapsed:   elapsed,
	}
	switch {
	case recovered != nil:
		res.Status = StatusFailed
		res.Err = NewFaultError(run.id, run.alg.Name, recovered)
		slog.Error("sorting routine panicked",
			"run", run.id,
			"algorithm", run.alg.Name,
			"error", res.Err,
		)
	case probe.observed:
		res.Status = StatusCancelled
	default:
		res.Status = StatusCompleted
	}

	slog.Debug("run finished",
		"run", run.id,
		"algorithm", run.alg.Name,
		"status", res.Status.String(),
		"mutations", res.Mutations,
	)

	run.finish(res)
}

// runSorter calls sort and converts a panic into a returned value.
func runSorter(sort algo.Sorter, seq []int, p mutation.Probe) (recovered any) {
	defer func() {
		if r := recover(); r != nil {
			recovered = r
			slog.Debug("recovered sorting routine panic", "stack", string(debug.Stack()))
		}
	}()
	sort(seq, p)
	return nil
}

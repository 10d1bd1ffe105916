package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/roach88/sortlab/internal/algo"
	"github.com/roach88/sortlab/internal/mutation"
)

// Status is the terminal state of a run.
type Status int

const (
	StatusCompleted Status = iota + 1
	StatusCancelled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "completed":
		return StatusCompleted, nil
	case "cancelled":
		return StatusCancelled, nil
	case "failed":
		return StatusFailed, nil
	default:
		return 0, fmt.Errorf("unknown run status %q", s)
	}
}

// Result is the terminal outcome of a run, delivered exactly once.
type Result struct {
	Status Status

	// Err is the failure cause; set only when Status is StatusFailed.
	Err error

	// Mutations is the number of events the routine emitted.
	Mutations int64

	// Output is a copy of the sequence taken when the routine returned.
	// Nil for rejected runs.
	Output []int

	// Elapsed is the wall time the routine ran for. Zero for rejected runs.
	Elapsed time.Duration
}

// Run is the handle for one background sorting run.
type Run struct {
	id        string
	alg       *algo.Algorithm
	observers []Observer

	cancel atomic.Bool
	queue  *deliveryQueue

	done   chan struct{}
	result Result // written by deliver before done is closed
}

func newRun(id string, alg *algo.Algorithm, observers []Observer) *Run {
	return &Run{
		id:        id,
		alg:       alg,
		observers: observers,
		queue:     newDeliveryQueue(),
		done:      make(chan struct{}),
	}
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// Algorithm returns the sorting routine handle, nil for a run rejected for
// an absent algorithm.
func (r *Run) Algorithm() *algo.Algorithm { return r.alg }

// Cancel raises the run's cancellation signal. It is idempotent, and a
// no-op once the routine has returned.
func (r *Run) Cancel() { r.cancel.Store(true) }

// Done is closed after RunFinished has been delivered to every observer.
func (r *Run) Done() <-chan struct{} { return r.done }

// Result returns the terminal result. ok is false until Done is closed.
func (r *Run) Result() (res Result, ok bool) {
	select {
	case <-r.done:
		return r.result, true
	default:
		return Result{}, false
	}
}

// Wait blocks until the run finishes or ctx is done.
func (r *Run) Wait(ctx context.Context) (Result, error) {
	select {
	case <-r.done:
		return r.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// finish queues the terminal result. Nothing may be queued after it.
func (r *Run) finish(res Result) {
	r.queue.Enqueue(delivery{kind: deliverResult, result: res})
	r.queue.Close()
}

// deliver drains the queue into the observers until the terminal result has
// been handed out, then closes done. One goroutine per run.
func (r *Run) deliver() {
	for {
		d, ok := r.queue.TryDequeue()
		if !ok {
			<-r.queue.Wait()
			continue
		}

		if d.kind == deliverResult {
			r.result = d.result
		}
		for _, o := range r.observers {
			notify(o, r.id, d)
		}
		if d.kind == deliverResult {
			close(r.done)
			return
		}
	}
}

// runProbe is the mutation.Probe handed to a sorting routine. It is used
// only from the worker goroutine.
type runProbe struct {
	run      *Run
	clock    *Clock
	limiter  *rate.Limiter
	observed bool
}

func (p *runProbe) Cancelled() bool {
	if p.run.cancel.Load() {
		p.observed = true
		return true
	}
	return false
}

func (p *runProbe) Emit(ev mutation.Event) {
	if p.limiter != nil {
		// Wait only fails for a done context or a burst below one.
		_ = p.limiter.Wait(context.Background())
	}
	p.run.queue.Enqueue(delivery{
		kind:  deliverMutation,
		seq:   p.clock.Next(),
		event: ev,
	})
}

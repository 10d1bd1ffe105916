package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/sortlab/internal/engine"
	"github.com/roach88/sortlab/internal/mutation"
	"github.com/roach88/sortlab/internal/trace"
)

// DefaultBatchSize is the number of events a Recorder buffers per run before
// writing them out.
const DefaultBatchSize = 256

// Recorder is an engine.Observer that logs every run it sees into a Store.
//
// A run row is written at RunStarted, events are written in batches, and the
// terminal fields (with the trace hash of the stored events) at RunFinished.
// Observer methods cannot fail, so write errors are logged and the first one
// is kept for Err.
type Recorder struct {
	store *Store
	batch int

	mu      sync.Mutex
	pending map[string][]MutationRecord
	err     error
}

var _ engine.Observer = (*Recorder)(nil)

// NewRecorder creates a Recorder writing into s.
func NewRecorder(s *Store) *Recorder {
	return &Recorder{
		store:   s,
		batch:   DefaultBatchSize,
		pending: make(map[string][]MutationRecord),
	}
}

// Err returns the first write error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Recorder) RunStarted(info engine.RunInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending[info.ID] = nil
	err := r.store.WriteRun(context.Background(), RunRecord{
		ID:        info.ID,
		Algorithm: info.Algorithm,
		Input:     info.Input,
	})
	r.fail(info.ID, err)
}

func (r *Recorder) Mutated(runID string, seq int64, ev mutation.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf := append(r.pending[runID], MutationRecord{RunID: runID, Seq: seq, Event: ev})
	if len(buf) >= r.batch {
		r.fail(runID, r.store.WriteMutations(context.Background(), buf))
		buf = buf[:0]
	}
	r.pending[runID] = buf
}

func (r *Recorder) RunFinished(runID string, res engine.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx := context.Background()
	buf := r.pending[runID]
	delete(r.pending, runID)
	if err := r.store.WriteMutations(ctx, buf); err != nil {
		r.fail(runID, err)
		return
	}

	run, err := r.store.ReadRun(ctx, runID)
	if err != nil {
		r.fail(runID, err)
		return
	}
	events, err := r.store.ReadMutations(ctx, runID)
	if err != nil {
		r.fail(runID, err)
		return
	}

	run.Output = res.Output
	run.Status = res.Status.String()
	run.Mutations = res.Mutations
	run.Elapsed = res.Elapsed
	if res.Err != nil {
		run.Error = res.Err.Error()
	}

	run.TraceHash, err = trace.Hash(trace.Snapshot{
		Algorithm: run.Algorithm,
		Input:     run.Input,
		Output:    run.Output,
		Status:    run.Status,
		Events:    events,
	})
	if err != nil {
		r.fail(runID, err)
		return
	}

	r.fail(runID, r.store.FinishRun(ctx, run))
}

// fail records err. Callers hold r.mu.
func (r *Recorder) fail(runID string, err error) {
	if err == nil {
		return
	}
	slog.Error("run log write failed",
		"run", runID,
		"error", err,
	)
	if r.err == nil {
		r.err = err
	}
}

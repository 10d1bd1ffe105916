package store

import (
	"time"

	"github.com/roach88/sortlab/internal/mutation"
)

// StatusRunning marks a run whose result has not been recorded yet.
const StatusRunning = "running"

// RunRecord is one row of the runs table.
type RunRecord struct {
	ID        string
	Algorithm string
	Input     []int
	Output    []int // nil while running
	Status    string
	Error     string
	Mutations int64
	Elapsed   time.Duration
	TraceHash string
}

// Finished reports whether the run's result has been recorded.
func (r RunRecord) Finished() bool {
	return r.Status != "" && r.Status != StatusRunning
}

// MutationRecord is one row of the mutations table.
type MutationRecord struct {
	RunID string
	Seq   int64
	Event mutation.Event
}

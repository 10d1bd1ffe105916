package harness

import (
	"github.com/roach88/sortlab/internal/engine"
	"github.com/roach88/sortlab/internal/trace"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Trace is the observable record of the run.
	Trace trace.Snapshot `json:"-"`

	// RunID identifies the recorded run.
	RunID string `json:"run_id"`

	// Run is the terminal result delivered by the engine.
	Run engine.Result `json:"-"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

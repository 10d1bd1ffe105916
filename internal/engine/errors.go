package engine

import (
	"errors"
	"fmt"
)

// RunError is the cause carried by a Failed result and returned by Start
// when a run is rejected.
type RunError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run.
	RunID string

	// Algorithm names the sorting routine, when one was given.
	Algorithm string

	// Cause is the underlying error, if any. For faults it carries the
	// recovered panic value.
	Cause error
}

// ErrorCode categorizes run errors.
type ErrorCode string

const (
	// ErrCodeInvalidInput indicates the sequence or the algorithm was absent.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeConcurrentRun indicates the sequence is already being sorted.
	ErrCodeConcurrentRun ErrorCode = "CONCURRENT_RUN"

	// ErrCodeAlgorithmFault indicates the sorting routine panicked.
	ErrCodeAlgorithmFault ErrorCode = "ALGORITHM_FAULT"
)

func (e *RunError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	switch {
	case e.RunID != "" && e.Algorithm != "":
		msg = fmt.Sprintf("%s (run=%s, algorithm=%s)", msg, e.RunID, e.Algorithm)
	case e.RunID != "":
		msg = fmt.Sprintf("%s (run=%s)", msg, e.RunID)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RunError) Unwrap() error {
	return e.Cause
}

// IsInvalidInput reports whether err is a rejected run with absent inputs.
func IsInvalidInput(err error) bool {
	return hasCode(err, ErrCodeInvalidInput)
}

// IsConflict reports whether err is a run rejected because its sequence was
// already being sorted.
func IsConflict(err error) bool {
	return hasCode(err, ErrCodeConcurrentRun)
}

// IsFault reports whether err is a recovered panic from a sorting routine.
func IsFault(err error) bool {
	return hasCode(err, ErrCodeAlgorithmFault)
}

func hasCode(err error, code ErrorCode) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// NewInvalidInputError creates a RunError for an absent sequence or algorithm.
func NewInvalidInputError(runID, message string) *RunError {
	return &RunError{
		Code:    ErrCodeInvalidInput,
		Message: message,
		RunID:   runID,
	}
}

// NewConflictError creates a RunError for a sequence held by another run.
func NewConflictError(runID, algorithm, holder string) *RunError {
	return &RunError{
		Code:      ErrCodeConcurrentRun,
		Message:   fmt.Sprintf("sequence is already being sorted by run %s", holder),
		RunID:     runID,
		Algorithm: algorithm,
	}
}

// NewFaultError creates a RunError from a value recovered from a panicking
// sorting routine.
func NewFaultError(runID, algorithm string, recovered any) *RunError {
	cause, ok := recovered.(error)
	if !ok {
		cause = fmt.Errorf("panic: %v", recovered)
	}
	return &RunError{
		Code:      ErrCodeAlgorithmFault,
		Message:   "sorting routine panicked",
		RunID:     runID,
		Algorithm: algorithm,
		Cause:     cause,
	}
}

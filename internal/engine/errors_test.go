package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunError_Format(t *testing.T) {
	err := NewConflictError("run-2", "bubble", "run-1")
	assert.Equal(t,
		"CONCURRENT_RUN: sequence is already being sorted by run run-1 (run=run-2, algorithm=bubble)",
		err.Error())

	err = NewInvalidInputError("run-3", "sequence is absent")
	assert.Equal(t, "INVALID_INPUT: sequence is absent (run=run-3)", err.Error())

	assert.Equal(t, "INVALID_INPUT: x", (&RunError{Code: ErrCodeInvalidInput, Message: "x"}).Error())
}

func TestRunError_Predicates(t *testing.T) {
	invalid := NewInvalidInputError("r", "algorithm is absent")
	conflict := NewConflictError("r", "heap", "other")
	fault := NewFaultError("r", "heap", "boom")

	assert.True(t, IsInvalidInput(invalid))
	assert.False(t, IsInvalidInput(conflict))

	assert.True(t, IsConflict(conflict))
	assert.False(t, IsConflict(fault))

	assert.True(t, IsFault(fault))
	assert.False(t, IsFault(invalid))

	wrapped := fmt.Errorf("starting run: %w", conflict)
	assert.True(t, IsConflict(wrapped), "predicates see through wrapping")

	assert.False(t, IsFault(errors.New("plain")))
	assert.False(t, IsFault(nil))
}

func TestNewFaultError_KeepsPanicCause(t *testing.T) {
	cause := errors.New("index out of range")
	err := NewFaultError("r", "quick", cause)
	assert.ErrorIs(t, err, cause)

	err = NewFaultError("r", "quick", 42)
	assert.Contains(t, err.Error(), "panic: 42")
}

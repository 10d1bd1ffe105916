package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/sortlab/internal/algo"
	"github.com/roach88/sortlab/internal/mutation"
	"github.com/roach88/sortlab/internal/seqgen"
	"github.com/roach88/sortlab/internal/store"
	"github.com/roach88/sortlab/internal/trace"
)

// maxTraceEvents bounds the events printed with an assertion failure.
const maxTraceEvents = 24

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string         // Assertion type for categorization
	Expected string         // Human-readable expected outcome
	Actual   string         // Human-readable actual outcome
	Trace    trace.Snapshot // Run record for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nRun: %s %v -> %v (%s)\n", e.Trace.Algorithm, e.Trace.Input, e.Trace.Output, e.Trace.Status)
	for i, ev := range e.Trace.Events {
		if i == maxTraceEvents {
			fmt.Fprintf(&buf, "  ... %d more\n", len(e.Trace.Events)-i)
			break
		}
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, ev)
	}

	return buf.String()
}

// assertionContext carries what the assertions inspect.
type assertionContext struct {
	ctx   context.Context
	store *store.Store
	runID string
	alg   *algo.Algorithm
	trace trace.Snapshot
}

// evaluateAssertions runs each assertion and returns the failure messages.
func evaluateAssertions(assertions []Assertion, actx assertionContext) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(a, actx); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(a Assertion, actx assertionContext) error {
	switch a.Type {
	case AssertSorted:
		return assertSorted(actx.trace)
	case AssertPermutation:
		return assertPermutation(actx.trace)
	case AssertReplayMatches:
		return assertReplayMatches(actx)
	case AssertExchangeTriplets:
		return assertExchangeTriplets(actx.trace)
	case AssertMatchesPlain:
		return assertMatchesPlain(actx.alg, actx.trace)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertSorted checks that the final contents are non-decreasing.
func assertSorted(tr trace.Snapshot) error {
	if slices.IsSorted(tr.Output) {
		return nil
	}
	return &AssertionError{
		Type:     AssertSorted,
		Expected: "non-decreasing output",
		Actual:   fmt.Sprintf("%v", tr.Output),
		Trace:    tr,
	}
}

// assertPermutation checks that the run neither lost nor invented values.
func assertPermutation(tr trace.Snapshot) error {
	if seqgen.SameMultiset(tr.Input, tr.Output) {
		return nil
	}
	return &AssertionError{
		Type:     AssertPermutation,
		Expected: fmt.Sprintf("a permutation of %v", tr.Input),
		Actual:   fmt.Sprintf("%v", tr.Output),
		Trace:    tr,
	}
}

// assertReplayMatches rebuilds the stored run from its stored events and
// compares the result with both the stored and the observed output.
func assertReplayMatches(actx assertionContext) error {
	replay, err := actx.store.ReplayRun(actx.ctx, actx.runID)
	if err != nil {
		return &AssertionError{
			Type:     AssertReplayMatches,
			Expected: "a replayable stored run",
			Actual:   err.Error(),
			Trace:    actx.trace,
		}
	}
	if !replay.Matches {
		return &AssertionError{
			Type:     AssertReplayMatches,
			Expected: fmt.Sprintf("replay to rebuild stored output %v", replay.Run.Output),
			Actual:   fmt.Sprintf("%v (status %s)", replay.Replayed, replay.Run.Status),
			Trace:    actx.trace,
		}
	}
	if !slices.Equal(replay.Replayed, actx.trace.Output) {
		return &AssertionError{
			Type:     AssertReplayMatches,
			Expected: fmt.Sprintf("replay to rebuild observed output %v", actx.trace.Output),
			Actual:   fmt.Sprintf("%v", replay.Replayed),
			Trace:    actx.trace,
		}
	}
	return nil
}

// assertExchangeTriplets checks that the stream is made of HOLD triplets only.
func assertExchangeTriplets(tr trace.Snapshot) error {
	pairs, lifts := mutation.Exchanges(tr.Events)
	if len(lifts) == 0 && 3*len(pairs) == len(tr.Events) {
		return nil
	}
	return &AssertionError{
		Type:     AssertExchangeTriplets,
		Expected: "every event in a HOLD triplet",
		Actual:   fmt.Sprintf("%d events, %d exchanges, %d unpaired lifts", len(tr.Events), len(pairs), len(lifts)),
		Trace:    tr,
	}
}

// assertMatchesPlain runs the synchronous variant on the input and compares
// its result with the run's output.
func assertMatchesPlain(alg *algo.Algorithm, tr trace.Snapshot) error {
	plain := slices.Clone(tr.Input)
	alg.Plain(plain)
	if slices.Equal(plain, tr.Output) {
		return nil
	}
	return &AssertionError{
		Type:     AssertMatchesPlain,
		Expected: fmt.Sprintf("%v (synchronous %s)", plain, alg.Name),
		Actual:   fmt.Sprintf("%v", tr.Output),
		Trace:    tr,
	}
}

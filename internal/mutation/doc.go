// Package mutation defines the event protocol every sorting routine uses to
// report the writes it performs on a sequence.
//
// # Events
//
// An Event (slot, value) says that value was just written into slot. Only
// writes are reported; comparisons never produce events.
//
// # The holding register
//
// A two-slot exchange is reported as exactly three events:
//
//	(Hold, left value)        the left value is lifted out of the array
//	(left, right value)       the left slot is overwritten
//	(right, left value)       the lifted value is dropped into the right slot
//
// Hold is not an addressable slot. Consumers that only rebuild array
// contents (see Replay) skip it; it exists so a viewer can show the value
// that is temporarily out of the array.
//
// # Probes
//
// Routines are written against Probe, which bundles the cancellation poll and
// the event sink. The execution engine supplies a probe that forwards events
// to observers; tests use Recorder.
package mutation

// Package engine runs sorting routines in the background.
//
// Start hands a sequence and an algorithm to a worker goroutine and returns a
// Run handle at once. The routine reports every write through a probe; the
// engine stamps each event with a per-run logical sequence number and queues
// it for the run's delivery goroutine, which calls the observers in emission
// order. When the routine returns, the engine releases the sequence, queues
// the terminal Result, and closes Run.Done after it has been delivered.
//
// Cancellation is cooperative. Run.Cancel (or cancelling the context given
// to Start) raises a flag the routine polls between exchanges. A run is
// Cancelled only if the routine actually saw the flag; a routine that
// finished before polling reports Completed.
//
// Rejected runs (absent inputs, a sequence already being sorted) are
// reported through the same path as finished ones: Start returns the error
// and a Run that has already delivered a Failed result.
package engine

// Package harness runs conformance scenarios against the sorting engine.
//
// A scenario names an algorithm and an input, runs it through a real
// engine.Engine with no pacing, records the run into an in-memory store and
// checks the outcome against the scenario's expectations and assertions.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: bubble_example
//	description: "Bubble sort on a short input"
//	algorithm: bubble
//	input: [5, 3, 5, 1]
//	cancel_before_start: false
//	expect:
//	  status: completed
//	  output: [1, 3, 5, 5]
//	  first_events:
//	    - [-1, 5]
//	    - [0, 3]
//	    - [1, 5]
//	  event_count: 12
//	assertions:
//	  - type: sorted
//	  - type: replay_matches
//
// An omitted input runs the algorithm on a nil sequence, which the engine
// rejects. Events are written as [slot, value] with -1 for HOLD.
//
// # Assertion Types
//
//   - sorted: the final contents are non-decreasing
//   - permutation: the final contents hold the input's values
//   - replay_matches: replaying the stored events over the stored input
//     rebuilds the stored output
//   - exchange_triplets: every event belongs to a HOLD triplet
//   - matches_plain: the synchronous variant produces the same contents
//
// # Golden Files
//
// RunWithGolden compares the canonical trace snapshot with
// testdata/golden/<name>.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness

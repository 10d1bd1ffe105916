package mutation

import "fmt"

// Replay applies events to a copy of pre and returns the rebuilt contents.
// Hold events are skipped. A slot outside pre is an error; the returned
// slice then reflects every event before the offending one.
func Replay(pre []int, events []Event) ([]int, error) {
	out := make([]int, len(pre))
	copy(out, pre)

	for i, e := range events {
		if e.IsHold() {
			continue
		}
		if e.Slot < 0 || e.Slot >= len(out) {
			return out, fmt.Errorf("event %d: slot %d out of range [0,%d)", i, e.Slot, len(out))
		}
		out[e.Slot] = e.Value
	}
	return out, nil
}

// Exchanges decodes the exchange pattern of an event stream into the slot
// pairs that were swapped, in order. A triplet is a Hold event followed by two
// distinct slot writes, the second of which drops the held value. Hold events
// that do not open a triplet are returned in lifts by stream position.
//
// Insertion streams are ambiguous: a lift, one shift and the placement have
// the same shape as an exchange.
func Exchanges(events []Event) (pairs [][2]int, lifts []int) {
	for i := 0; i < len(events); i++ {
		e := events[i]
		if !e.IsHold() {
			continue
		}
		if i+2 < len(events) && isTriplet(events[i], events[i+1], events[i+2]) {
			pairs = append(pairs, [2]int{events[i+1].Slot, events[i+2].Slot})
			i += 2
			continue
		}
		lifts = append(lifts, i)
	}
	return pairs, lifts
}

func isTriplet(hold, left, right Event) bool {
	return hold.IsHold() &&
		!left.IsHold() && !right.IsHold() &&
		left.Slot != right.Slot &&
		right.Value == hold.Value
}

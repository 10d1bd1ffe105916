package mutation

import (
	"fmt"
	"sync"
)

// Hold is the reserved slot for a value lifted out of the array.
// It is negative so it never collides with a valid index, whatever the length.
const Hold = -1

// Event reports that Value was just written into Slot.
type Event struct {
	Slot  int
	Value int
}

// IsHold reports whether the event is the display-only holding register write.
func (e Event) IsHold() bool {
	return e.Slot == Hold
}

func (e Event) String() string {
	if e.IsHold() {
		return fmt.Sprintf("(HOLD,%d)", e.Value)
	}
	return fmt.Sprintf("(%d,%d)", e.Slot, e.Value)
}

// Probe is the capability pair a sorting routine runs against.
//
// Cancelled must not block. Emit is called once per write, in write order.
type Probe interface {
	Cancelled() bool
	Emit(Event)
}

// Exchange swaps seq[left] and seq[right] and reports the three-event lift.
func Exchange(seq []int, left, right int, p Probe) {
	t := seq[left]
	p.Emit(Event{Slot: Hold, Value: t})

	seq[left] = seq[right]
	p.Emit(Event{Slot: left, Value: seq[left]})

	seq[right] = t
	p.Emit(Event{Slot: right, Value: t})
}

// Write stores value at slot and reports it as a single event.
func Write(seq []int, slot, value int, p Probe) {
	seq[slot] = value
	p.Emit(Event{Slot: slot, Value: value})
}

// Lift reports a value taken into the holding register without touching the
// array.
func Lift(value int, p Probe) {
	p.Emit(Event{Slot: Hold, Value: value})
}

// Nop is a probe that never cancels and discards events.
type Nop struct{}

func (Nop) Cancelled() bool { return false }
func (Nop) Emit(Event)      {}

// Recorder is a concurrency-safe probe that keeps every event.
//
// A Recorder never cancels unless CancelAfter is set, in which case Cancelled
// starts returning true once that many events were emitted. This makes
// cancellation points deterministic in tests.
type Recorder struct {
	CancelAfter int

	mu     sync.Mutex
	events []Event
	polls  int
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Cancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls++
	return r.CancelAfter > 0 && len(r.events) >= r.CancelAfter
}

func (r *Recorder) Emit(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Snapshot returns a copy of the recorded events.
func (r *Recorder) Snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Polls returns how many times Cancelled was called.
func (r *Recorder) Polls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.polls
}

package engine

import (
	"sync"

	"github.com/roach88/sortlab/internal/mutation"
)

// deliveryKind distinguishes the notifications a run hands to its observers.
type deliveryKind int

const (
	deliverStart deliveryKind = iota + 1
	deliverMutation
	deliverResult
)

// delivery is one queued observer notification.
type delivery struct {
	kind   deliveryKind
	seq    int64
	event  mutation.Event
	info   RunInfo
	result Result
}

// deliveryQueue is a thread-safe FIFO between a run's worker and its
// delivery goroutine.
//
// The queue is unbounded so a sorting routine never blocks on a slow
// observer. The worker enqueues, the delivery goroutine drains.
//
// The signal channel has a buffer of one: several enqueues between two waits
// coalesce into a single wakeup.
type deliveryQueue struct {
	mu     sync.Mutex
	items  []delivery
	closed bool
	signal chan struct{}
}

func newDeliveryQueue() *deliveryQueue {
	return &deliveryQueue{
		items:  make([]delivery, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds d to the back of the queue. Deliveries after Close are
// dropped: the terminal result is always the last one.
func (q *deliveryQueue) Enqueue(d delivery) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.items = append(q.items, d)

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// TryDequeue removes the front item without blocking.
func (q *deliveryQueue) TryDequeue() (delivery, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return delivery{}, false
	}

	d := q.items[0]
	// Drop the reference so the backing array does not pin old results.
	q.items[0] = delivery{}

	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}

	return d, true
}

// Wait returns a channel that signals when items may be available.
// After Close it is always ready.
func (q *deliveryQueue) Wait() <-chan struct{} {
	return q.signal
}

// Close signals that no more items will be enqueued and wakes the reader.
func (q *deliveryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}

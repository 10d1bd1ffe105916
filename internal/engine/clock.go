package engine

import "sync/atomic"

// Clock is a monotonic logical clock for one run's mutation events.
//
// Every event is stamped with a strictly increasing sequence number starting
// at 1, so observers and the run log can order events without wall-clock
// time. The final value is the run's mutation count.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last issued sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

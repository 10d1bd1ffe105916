package algo

import "github.com/roach88/sortlab/internal/mutation"

// HeapSorter builds a max-heap in place and repeatedly exchanges the root
// with the last unsorted slot.
//
// The heap is laid out one-based on top of a super-root: slot 0 has the single
// child 1, and every other slot f has the children 2f and 2f+1. Building sifts
// down from the midpoint towards slot 0.
func HeapSorter(seq []int, p mutation.Probe) {
	n := len(seq)
	if n < 2 {
		return
	}
	for j := n / 2; j >= 0; j-- {
		if p.Cancelled() || !siftDown(seq, j, n-1, p) {
			return
		}
	}

	for j := n - 1; j >= 1; j-- {
		if p.Cancelled() {
			return
		}
		mutation.Exchange(seq, 0, j, p)
		if !siftDown(seq, 0, j-1, p) {
			return
		}
	}
}

// siftDown restores the heap below f within seq[:last+1], one exchange per
// level. It returns false once cancellation was observed.
func siftDown(seq []int, f, last int, p mutation.Probe) bool {
	larger := largerChild(seq, f, last)
	if larger == f {
		return true
	}
	if p.Cancelled() {
		return false
	}
	mutation.Exchange(seq, f, larger, p)
	return siftDown(seq, larger, last, p)
}

// largerChild returns the slot among f and its children holding the largest
// value, preferring f on ties and the left child over the right.
func largerChild(seq []int, f, last int) int {
	m := f
	if l := 2 * f; l <= last && seq[m] < seq[l] {
		m = l
	}
	if r := 2*f + 1; r <= last && seq[m] < seq[r] {
		m = r
	}
	return m
}

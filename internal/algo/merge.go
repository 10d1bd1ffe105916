package algo

import "github.com/roach88/sortlab/internal/mutation"

// MergeSorter merges runs of width 1, 2, 4, ... back and forth between seq
// and one private buffer of the same length.
//
// Events report every placement by destination slot whichever buffer received
// it, so observers always see the newest merged contents. When the last pass
// lands in the private buffer the contents are copied back into seq; that copy
// changes nothing an observer has not already seen and emits no events.
//
// Cancellation is polled before every placement. An interrupted merge is
// settled by finishing it or undoing it, whichever is shorter, and the pass
// copies the untouched tail of its source unchanged, so the newest contents
// are always a permutation of the input.
func MergeSorter(seq []int, p mutation.Probe) {
	n := len(seq)
	if n < 2 {
		return
	}
	src, dst := seq, make([]int, n)

	for width := 1; width < n; width *= 2 {
		done := mergePass(src, dst, width, p)
		src, dst = dst, src
		if !done {
			break
		}
	}
	if &src[0] != &seq[0] {
		copy(seq, src)
	}
}

// mergePass merges adjacent runs of width from src into dst. It returns false
// when cancelled, after copying the rest of src into dst silently.
func mergePass(src, dst []int, width int, p mutation.Probe) bool {
	n := len(src)
	for start := 0; start < n; start += 2 * width {
		mid := min(start+width, n)
		end := min(start+2*width, n)
		if !mergeRuns(src, dst, start, mid, end, p) {
			copy(dst[end:], src[end:])
			return false
		}
	}
	return true
}

// mergeRuns merges src[start:mid] and src[mid:end] into dst[start:end],
// polling before every placement. On equal heads the right run goes first.
//
// A cancelled merge is settled with whichever takes fewer writes: finishing
// the placements, or writing the placed slots back to their src values. In
// both cases dst[start:end] ends up a permutation of src[start:end] that
// matches the reported events, and false is returned.
func mergeRuns(src, dst []int, start, mid, end int, p mutation.Probe) bool {
	first, second := start, mid
	cancelled := false
	for dest := start; dest < end; dest++ {
		if !cancelled && p.Cancelled() {
			cancelled = true
			if dest-start < end-dest {
				for i := start; i < dest; i++ {
					mutation.Write(dst, i, src[i], p)
				}
				copy(dst[dest:end], src[dest:end])
				return false
			}
		}
		var v int
		switch {
		case first < mid && (second >= end || src[first] < src[second]):
			v = src[first]
			first++
		default:
			v = src[second]
			second++
		}
		mutation.Write(dst, dest, v, p)
	}
	return !cancelled
}

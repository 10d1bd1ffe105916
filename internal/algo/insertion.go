package algo

import "github.com/roach88/sortlab/internal/mutation"

// InsertionSorter lifts each element into the holding register, shifts the
// strictly greater part of the sorted prefix one slot right and drops the
// lifted value into the gap.
//
// The lift is reported as a Hold event although nothing is written. When
// cancellation interrupts a shift the lifted value is dropped into the current
// gap before returning, so no value is lost.
func InsertionSorter(seq []int, p mutation.Probe) {
	for i := 1; i < len(seq); i++ {
		if p.Cancelled() {
			return
		}
		v := seq[i]
		mutation.Lift(v, p)

		j := i - 1
		cancelled := false
		for j >= 0 && seq[j] > v {
			if p.Cancelled() {
				cancelled = true
				break
			}
			mutation.Write(seq, j+1, seq[j], p)
			j--
		}
		mutation.Write(seq, j+1, v, p)
		if cancelled {
			return
		}
	}
}

package algo

import "github.com/roach88/sortlab/internal/mutation"

// combShrink is the gap reduction factor of comb sort.
const combShrink = 1.3

// BubbleSorter compares neighbours, exchanging inversions, with a shrinking
// outer bound.
func BubbleSorter(seq []int, p mutation.Probe) {
	for i := len(seq) - 1; i > 0; i-- {
		for j := 0; j < i; j++ {
			if p.Cancelled() {
				return
			}
			if seq[j] > seq[j+1] {
				mutation.Exchange(seq, j, j+1, p)
			}
		}
	}
}

// CombSorter is bubble sort over a gap that shrinks by combShrink each pass.
// Passes continue while the gap exceeds one or the previous pass exchanged.
func CombSorter(seq []int, p mutation.Probe) {
	gap := len(seq)
	swapped := true

	for gap > 1 || swapped {
		gap = nextGap(gap)
		swapped = false

		for j := 0; j < len(seq)-gap; j++ {
			if p.Cancelled() {
				return
			}
			if seq[j] > seq[j+gap] {
				mutation.Exchange(seq, j, j+gap, p)
				swapped = true
			}
		}
	}
}

func nextGap(gap int) int {
	gap = int(float64(gap) / combShrink)
	if gap < 1 {
		return 1
	}
	return gap
}

// GnomeSorter walks forward over ordered neighbours and steps back after
// every exchange. The index never drops below zero.
func GnomeSorter(seq []int, p mutation.Probe) {
	if len(seq) < 2 {
		return
	}
	for i := 0; i < len(seq); {
		if p.Cancelled() {
			return
		}
		if i == 0 || seq[i-1] <= seq[i] {
			i++
			continue
		}
		mutation.Exchange(seq, i, i-1, p)
		i--
	}
}

// OppositeSorter compares each element with every later one, scanning the
// later ones from the far end, and exchanges inversions.
func OppositeSorter(seq []int, p mutation.Probe) {
	n := len(seq)
	for i := 0; i < n-1; i++ {
		for j := n - 1; j > i; j-- {
			if p.Cancelled() {
				return
			}
			if seq[i] > seq[j] {
				mutation.Exchange(seq, i, j, p)
			}
		}
	}
}

// SelectionSorter moves the maximum of the unsorted prefix into its last
// slot, building the sorted suffix from the right.
func SelectionSorter(seq []int, p mutation.Probe) {
	for i := len(seq) - 1; i > 0; i-- {
		maxAt := 0
		for j := 1; j <= i; j++ {
			if p.Cancelled() {
				return
			}
			if seq[j] > seq[maxAt] {
				maxAt = j
			}
		}
		if maxAt != i {
			mutation.Exchange(seq, i, maxAt, p)
		}
	}
}

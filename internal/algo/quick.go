package algo

import "github.com/roach88/sortlab/internal/mutation"

// QuickSorter partitions around the value found in the middle slot (the value,
// not its position), scanning from both ends and exchanging elements that
// straddle it. After the scan pointers cross it recurses on [low,hi] and
// [lo,high]; the pivot value itself may move during the scan.
func QuickSorter(seq []int, p mutation.Probe) {
	if len(seq) < 2 {
		return
	}
	quick(seq, 0, len(seq)-1, p)
}

// quick returns false once cancellation was observed.
func quick(seq []int, low, high int, p mutation.Probe) bool {
	lo, hi := low, high
	pivot := seq[(lo+hi)/2]

	for lo <= hi {
		for seq[lo] < pivot {
			lo++
		}
		for seq[hi] > pivot {
			hi--
		}
		if lo <= hi {
			if p.Cancelled() {
				return false
			}
			if lo < hi {
				mutation.Exchange(seq, lo, hi, p)
			}
			lo++
			hi--
		}
	}

	if hi > low && !quick(seq, low, hi, p) {
		return false
	}
	if lo < high && !quick(seq, lo, high, p) {
		return false
	}
	return true
}

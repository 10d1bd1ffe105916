package algo

import "github.com/roach88/sortlab/internal/mutation"

// batcherNetwork calls visit for every comparator (i, j), i < j, of Batcher's
// odd-even merge network for n elements, in schedule order. It stops early when
// visit returns false.
//
// The schedule depends on n only. With t the largest power of two below n
// (t = 0 for n < 2), passes run for p = t, t/2, ..., 1; within a pass the
// parameters start at q = t, r = 0, d = p and advance to d = q-p, q = q/2,
// r = p until d reaches zero. Each round compares i with i+d for every i
// whose p-bit equals r.
func batcherNetwork(n int, visit func(i, j int) bool) bool {
	t := 1
	for t < n {
		t <<= 1
	}
	t >>= 1

	for p := t; p > 0; p >>= 1 {
		q, r, d := t, 0, p
		for {
			for i := 0; i < n-d; i++ {
				if i&p == r && !visit(i, i+d) {
					return false
				}
			}
			d = q - p
			q >>= 1
			r = p
			if d == 0 {
				break
			}
		}
	}
	return true
}

// BatcherComparators returns the comparator schedule used for n elements.
func BatcherComparators(n int) [][2]int {
	var out [][2]int
	batcherNetwork(n, func(i, j int) bool {
		out = append(out, [2]int{i, j})
		return true
	})
	return out
}

// BatcherSorter runs the odd-even merge network, exchanging every comparator
// pair found out of order. The sequence of compared slot pairs is the same for
// every input of a given length.
func BatcherSorter(seq []int, p mutation.Probe) {
	batcherNetwork(len(seq), func(i, j int) bool {
		if p.Cancelled() {
			return false
		}
		if seq[i] > seq[j] {
			mutation.Exchange(seq, i, j, p)
		}
		return true
	})
}

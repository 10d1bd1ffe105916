package algo

// Synchronous facade: the same algorithms without polling or events.

func BubbleSort(seq []int) {
	for i := len(seq) - 1; i > 0; i-- {
		for j := 0; j < i; j++ {
			if seq[j] > seq[j+1] {
				seq[j], seq[j+1] = seq[j+1], seq[j]
			}
		}
	}
}

func CombSort(seq []int) {
	gap := len(seq)
	swapped := true
	for gap > 1 || swapped {
		gap = nextGap(gap)
		swapped = false
		for j := 0; j < len(seq)-gap; j++ {
			if seq[j] > seq[j+gap] {
				seq[j], seq[j+gap] = seq[j+gap], seq[j]
				swapped = true
			}
		}
	}
}

func GnomeSort(seq []int) {
	for i := 0; i < len(seq); {
		if i == 0 || seq[i-1] <= seq[i] {
			i++
			continue
		}
		seq[i], seq[i-1] = seq[i-1], seq[i]
		i--
	}
}

func OppositeSort(seq []int) {
	n := len(seq)
	for i := 0; i < n-1; i++ {
		for j := n - 1; j > i; j-- {
			if seq[i] > seq[j] {
				seq[i], seq[j] = seq[j], seq[i]
			}
		}
	}
}

func SelectionSort(seq []int) {
	for i := len(seq) - 1; i > 0; i-- {
		maxAt := 0
		for j := 1; j <= i; j++ {
			if seq[j] > seq[maxAt] {
				maxAt = j
			}
		}
		if maxAt != i {
			seq[i], seq[maxAt] = seq[maxAt], seq[i]
		}
	}
}

func QuickSort(seq []int) {
	if len(seq) < 2 {
		return
	}
	quickPlain(seq, 0, len(seq)-1)
}

func quickPlain(seq []int, low, high int) {
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
			if lo < hi {
				seq[lo], seq[hi] = seq[hi], seq[lo]
			}
			lo++
			hi--
		}
	}
	if hi > low {
		quickPlain(seq, low, hi)
	}
	if lo < high {
		quickPlain(seq, lo, high)
	}
}

func BatcherSort(seq []int) {
	batcherNetwork(len(seq), func(i, j int) bool {
		if seq[i] > seq[j] {
			seq[i], seq[j] = seq[j], seq[i]
		}
		return true
	})
}

func InsertionSort(seq []int) {
	for i := 1; i < len(seq); i++ {
		v := seq[i]
		j := i - 1
		for j >= 0 && seq[j] > v {
			seq[j+1] = seq[j]
			j--
		}
		seq[j+1] = v
	}
}

func HeapSort(seq []int) {
	n := len(seq)
	for j := n / 2; j >= 0; j-- {
		siftDownPlain(seq, j, n-1)
	}
	for j := n - 1; j >= 1; j-- {
		seq[0], seq[j] = seq[j], seq[0]
		siftDownPlain(seq, 0, j-1)
	}
}

func siftDownPlain(seq []int, f, last int) {
	for {
		larger := largerChild(seq, f, last)
		if larger == f {
			return
		}
		seq[f], seq[larger] = seq[larger], seq[f]
		f = larger
	}
}

func MergeSort(seq []int) {
	n := len(seq)
	if n < 2 {
		return
	}
	src, dst := seq, make([]int, n)
	for width := 1; width < n; width *= 2 {
		for start := 0; start < n; start += 2 * width {
			mergeRunsPlain(src, dst, start, min(start+width, n), min(start+2*width, n))
		}
		src, dst = dst, src
	}
	if &src[0] != &seq[0] {
		copy(seq, src)
	}
}

func mergeRunsPlain(src, dst []int, start, mid, end int) {
	first, second := start, mid
	for dest := start; dest < end; dest++ {
		if first < mid && (second >= end || src[first] < src[second]) {
			dst[dest] = src[first]
			first++
		} else {
			dst[dest] = src[second]
			second++
		}
	}
}

// Package seqgen builds and compares integer sequences for the CLI and the
// conformance harness.
package seqgen

import (
	"math/rand/v2"
	"slices"
)

// Random returns n values in [0, limit) from a seeded generator.
//
// The same (seed, n, limit) always yields the same slice, so a run can be
// reproduced from its seed alone.
func Random(seed uint64, n, limit int) []int {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]int, n)
	for i := range out {
		out[i] = r.IntN(limit)
	}
	return out
}

// SameMultiset reports whether a and b hold the same values with the same
// multiplicities.
func SameMultiset(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	x, y := slices.Clone(a), slices.Clone(b)
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

// SortedPermutation reports whether out is in nondecreasing order and holds
// exactly the values of in.
func SortedPermutation(in, out []int) bool {
	return slices.IsSorted(out) && SameMultiset(in, out)
}

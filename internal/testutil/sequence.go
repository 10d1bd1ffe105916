package testutil

import (
	"slices"

	"github.com/roach88/sortlab/internal/seqgen"
)

// Reversed returns n, n-1, ..., 1.
func Reversed(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = n - i
	}
	return out
}

// Clone copies s; nil stays nil.
func Clone(s []int) []int {
	return slices.Clone(s)
}

// Inputs returns a table of interesting inputs keyed by name: empty, single
// element, duplicates, sorted, reversed, odd and power-of-two lengths, and a
// few seeded random slices.
func Inputs() map[string][]int {
	return map[string][]int{
		"empty":          {},
		"single":         {7},
		"pair_sorted":    {1, 2},
		"pair_reversed":  {2, 1},
		"spec_example":   {5, 3, 5, 1},
		"all_equal":      {4, 4, 4, 4, 4},
		"sorted":         {1, 2, 3, 4, 5, 6, 7, 8},
		"reversed_8":     Reversed(8),
		"reversed_13":    Reversed(13),
		"negatives":      {0, -3, 7, -3, 2, -10, 5},
		"random_5":       seqgen.Random(1, 5, 10),
		"random_16":      seqgen.Random(2, 16, 50),
		"random_31":      seqgen.Random(3, 31, 8),
		"random_100":     seqgen.Random(4, 100, 1000),
		"random_257":     seqgen.Random(5, 257, 300),
		"duplicates_big": seqgen.Random(6, 64, 3),
	}
}

// Package algo implements the sorting routines of sortlab.
//
// Every routine exists twice:
//
//   - an instrumented Sorter that reports each write through a
//     mutation.Probe and polls the probe for cancellation before every
//     comparison that could lead to a write;
//   - a Plain function (the synchronous facade) with no polling and no
//     events.
//
// Both variants of one algorithm leave bit-identical contents for the same
// input when no cancellation happens. Instrumented routines that observe
// cancellation return early and leave the sequence a permutation of its
// input.
//
// Routines are stateless and safe to call concurrently on distinct
// sequences. Algorithms are resolved through the package Registry, which is
// built once at init and never modified.
package algo

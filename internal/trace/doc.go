// Package trace renders runs as canonical JSON snapshots and hashes them.
//
// A snapshot captures everything observable about a run: the input, every
// mutation event in order, the final contents, and the terminal status.
// Canonical encoding makes snapshots byte-stable, so they can be compared
// against golden files and identified by hash.
package trace

package algo

import (
	"fmt"
	"strings"

	"github.com/roach88/sortlab/internal/mutation"
)

// Sorter sorts seq in nondecreasing order, reporting writes to p and
// returning early once p reports cancellation.
type Sorter func(seq []int, p mutation.Probe)

// Plain sorts seq in nondecreasing order without instrumentation.
type Plain func(seq []int)

// ID identifies an algorithm. Values are stable; Unknown is the zero value.
type ID int

const (
	Unknown ID = iota
	Bubble
	Comb
	Gnome
	Opposite
	Quick
	Selection
	Batcher
	Insertion
	Heap
	Merge
)

// Algorithm is a handle on one sorting procedure and its facade twin.
type Algorithm struct {
	ID    ID
	Name  string // stable identifier, e.g. "bubble"
	Title string // display name
	Sort  Sorter
	Plain Plain
}

func (id ID) String() string {
	if a, ok := registry.byID[id]; ok {
		return a.Name
	}
	return fmt.Sprintf("ID(%d)", int(id))
}

// Registry maps identifiers to algorithms. It is immutable after construction.
type Registry struct {
	ordered []*Algorithm
	byID    map[ID]*Algorithm
	byName  map[string]*Algorithm
}

var registry = newRegistry([]*Algorithm{
	{ID: Bubble, Name: "bubble", Title: "Bubble sort", Sort: BubbleSorter, Plain: BubbleSort},
	{ID: Comb, Name: "comb", Title: "Comb sort", Sort: CombSorter, Plain: CombSort},
	{ID: Gnome, Name: "gnome", Title: "Gnome sort", Sort: GnomeSorter, Plain: GnomeSort},
	{ID: Opposite, Name: "opposite", Title: "Opposite exchange", Sort: OppositeSorter, Plain: OppositeSort},
	{ID: Quick, Name: "quick", Title: "Quick sort", Sort: QuickSorter, Plain: QuickSort},
	{ID: Selection, Name: "selection", Title: "Selection sort", Sort: SelectionSorter, Plain: SelectionSort},
	{ID: Batcher, Name: "batcher", Title: "Batcher's sort", Sort: BatcherSorter, Plain: BatcherSort},
	{ID: Insertion, Name: "insertion", Title: "Simple insertion", Sort: InsertionSorter, Plain: InsertionSort},
	{ID: Heap, Name: "heap", Title: "Heap sort (in place)", Sort: HeapSorter, Plain: HeapSort},
	{ID: Merge, Name: "merge", Title: "Merge sort", Sort: MergeSorter, Plain: MergeSort},
})

func newRegistry(algs []*Algorithm) *Registry {
	r := &Registry{
		ordered: algs,
		byID:    make(map[ID]*Algorithm, len(algs)),
		byName:  make(map[string]*Algorithm, len(algs)),
	}
	for _, a := range algs {
		if _, dup := r.byID[a.ID]; dup {
			panic(fmt.Sprintf("algo: duplicate id %d", a.ID))
		}
		if _, dup := r.byName[a.Name]; dup {
			panic(fmt.Sprintf("algo: duplicate name %q", a.Name))
		}
		r.byID[a.ID] = a
		r.byName[a.Name] = a
	}
	return r
}

// Default returns the process-wide registry.
func Default() *Registry {
	return registry
}

// Lookup returns the algorithm registered under id.
func (r *Registry) Lookup(id ID) (*Algorithm, bool) {
	a, ok := r.byID[id]
	return a, ok
}

// ByName resolves a stable identifier. Matching ignores case and surrounding
// spaces.
func (r *Registry) ByName(name string) (*Algorithm, bool) {
	a, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

// All returns the algorithms in registration order. The slice is a copy.
func (r *Registry) All() []*Algorithm {
	out := make([]*Algorithm, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// Names returns the stable identifiers in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.ordered))
	for i, a := range r.ordered {
		names[i] = a.Name
	}
	return names
}

// Lookup resolves id in the default registry.
func Lookup(id ID) (*Algorithm, bool) { return registry.Lookup(id) }

// ByName resolves name in the default registry.
func ByName(name string) (*Algorithm, bool) { return registry.ByName(name) }

// All lists the default registry.
func All() []*Algorithm { return registry.All() }

// Names lists the default registry's identifiers.
func Names() []string { return registry.Names() }

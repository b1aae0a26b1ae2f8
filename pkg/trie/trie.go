// Package trie implements relations as ordered multi-level tries over dictionary-encoded keys.
//
// A Trie of cardinality n stores a set of n-tuples. Every root-to-leaf path has length n and
// encodes exactly one tuple; tuples sharing their first d keys share a path of length d. The
// children of every node, and of the root, are kept sorted strictly ascending, which is what
// lets join algorithms walk several tries in lock-step through the Iterator.
//
// A Trie is not safe for concurrent mutation. Any number of iterators may read a Trie at the
// same time provided that nothing modifies it meanwhile.
package trie

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/l7mp/triedb/pkg/iters"
	"github.com/l7mp/triedb/pkg/relation"
)

var (
	_ Parent[int]            = &Trie[int]{}
	_ relation.Relation[int] = &Trie[int]{}
)

// Trie is the root of a relation trie.
type Trie[K cmp.Ordered] struct {
	cardinality int
	children    []*Node[K]
}

// New creates an empty trie. Panics if cardinality is zero: a relation without columns cannot
// be represented.
func New[K cmp.Ordered](cardinality int) *Trie[K] {
	if cardinality < 1 {
		panic(fmt.Sprintf("trie: cardinality must be greater than 0, got %d", cardinality))
	}
	return &Trie[K]{cardinality: cardinality}
}

// FromTuples creates a trie from a list of tuples, inserting them one by one in the given order.
// Returns an error and no trie if any tuple has the wrong arity.
func FromTuples[K cmp.Ordered](cardinality int, tuples [][]K) (*Trie[K], error) {
	t := New[K](cardinality)
	if err := t.InsertAll(tuples); err != nil {
		return nil, err
	}
	return t, nil
}

// FromSortedTuples creates a trie from a list of tuples after sorting them lexicographically.
// With sorted input every insert extends the rightmost spine of the trie, so construction is
// linear in the size of the input. The input slice is not reordered.
func FromSortedTuples[K cmp.Ordered](cardinality int, tuples [][]K) (*Trie[K], error) {
	t := New[K](cardinality)
	if err := t.validate(tuples); err != nil {
		return nil, err
	}
	sorted := slices.Clone(tuples)
	slices.SortFunc(sorted, func(a, b []K) int { return slices.Compare(a, b) })
	for _, tuple := range sorted {
		insert[K](t, tuple)
	}
	return t, nil
}

// Cardinality returns the arity of the stored tuples.
func (t *Trie[K]) Cardinality() int { return t.cardinality }

func (t *Trie[K]) Children() []*Node[K]      { return t.children }
func (t *Trie[K]) IsEmpty() bool             { return len(t.children) == 0 }
func (t *Trie[K]) Size() int                 { return len(t.children) }
func (t *Trie[K]) Height() int               { return height[K](t) }
func (t *Trie[K]) setChildren(cs []*Node[K]) { t.children = cs }

// Len returns the number of tuples stored.
func (t *Trie[K]) Len() int { return leaves[K](t) }

// Insert adds a tuple. Inserting a tuple already present is a no-op. Returns an error wrapping
// ErrArityMismatch, and leaves the trie unchanged, if the tuple has the wrong arity.
func (t *Trie[K]) Insert(tuple []K) error {
	if len(tuple) != t.cardinality {
		return NewArityError(t.cardinality, len(tuple))
	}
	insert[K](t, tuple)
	return nil
}

// InsertAll adds a batch of tuples. The batch is validated first: if any tuple has the wrong
// arity nothing is inserted and an aggregate of all arity errors is returned.
func (t *Trie[K]) InsertAll(tuples [][]K) error {
	if err := t.validate(tuples); err != nil {
		return err
	}
	for _, tuple := range tuples {
		insert[K](t, tuple)
	}
	return nil
}

// Search returns the node at the end of a key path. The path may be shorter than the
// cardinality, in which case the node roots the subtrie of all tuples with that prefix.
func (t *Trie[K]) Search(keys []K) (*Node[K], bool) { return search[K](t, keys) }

// Contains reports whether a tuple is stored.
func (t *Trie[K]) Contains(tuple []K) bool {
	if len(tuple) != t.cardinality {
		return false
	}
	_, ok := search[K](t, tuple)
	return ok
}

// Remove deletes a tuple and prunes every ancestor left without children. Removing a tuple that
// is not stored is a no-op.
func (t *Trie[K]) Remove(tuple []K) error {
	if len(tuple) != t.cardinality {
		return NewArityError(t.cardinality, len(tuple))
	}
	remove[K](t, tuple)
	return nil
}

// TrieIterator returns a new level iterator positioned above the top level.
func (t *Trie[K]) TrieIterator() iters.TrieIterator[K] { return NewIterator(t) }

// Tuples enumerates the stored tuples in lexicographic order. Each yielded slice is a fresh copy.
func (t *Trie[K]) Tuples() iter.Seq[[]K] {
	return func(yield func([]K) bool) {
		prefix := make([]K, 0, t.cardinality)
		walk(t.children, prefix, yield)
	}
}

func walk[K cmp.Ordered](nodes []*Node[K], prefix []K, yield func([]K) bool) bool {
	for _, n := range nodes {
		path := append(prefix, n.key)
		if n.IsEmpty() {
			if !yield(slices.Clone(path)) {
				return false
			}
			continue
		}
		if !walk(n.children, path, yield) {
			return false
		}
	}
	return true
}

// Equal reports whether two tries have the same cardinality and store the same tuples.
func (t *Trie[K]) Equal(other *Trie[K]) bool {
	if other == nil {
		return false
	}
	return t.cardinality == other.cardinality && equal(t.children, other.children)
}

// String returns a string representation of the trie for debugging.
func (t *Trie[K]) String() string {
	if t.IsEmpty() {
		return "∅"
	}
	tuples := []string{}
	for tuple := range t.Tuples() {
		tuples = append(tuples, fmt.Sprintf("%v", tuple))
	}
	return "{" + strings.Join(tuples, ", ") + "}"
}

func (t *Trie[K]) validate(tuples [][]K) error {
	errs := []error{}
	for i, tuple := range tuples {
		if len(tuple) != t.cardinality {
			errs = append(errs, fmt.Errorf("tuple %d: %w", i, NewArityError(t.cardinality, len(tuple))))
		}
	}
	return utilerrors.NewAggregate(errs)
}

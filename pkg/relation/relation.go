// Package relation defines the capabilities the database and the join algorithms expect from a
// relation implementation, independent of its concrete data structure.
package relation

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/l7mp/triedb/pkg/iters"
)

// Relation is a set of fixed-arity tuples of keys that can be extended tuple-wise and iterated
// level-wise.
type Relation[K cmp.Ordered] interface {
	iters.Iterable[K]
	// Insert adds a tuple; inserting a present tuple is a no-op.
	Insert(tuple []K) error
	// InsertAll adds a batch of tuples.
	InsertAll(tuples [][]K) error
	// Contains reports whether the tuple is in the relation.
	Contains(tuple []K) bool
	// Tuples enumerates the tuples in ascending lexicographic order.
	Tuples() iter.Seq[[]K]
	// Len returns the number of tuples.
	Len() int
	fmt.Stringer
}

// Builder stages tuples and produces a Relation. A Builder cannot be reused after Build.
type Builder[K cmp.Ordered] interface {
	Cardinality() int
	Add(tuple []K) Builder[K]
	AddAll(tuples [][]K) Builder[K]
	Build() (Relation[K], error)
}

// BuilderFunc creates a Builder for relations of the given cardinality.
type BuilderFunc[K cmp.Ordered] func(cardinality int) Builder[K]

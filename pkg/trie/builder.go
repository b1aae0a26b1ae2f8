package trie

import (
	"cmp"
	"fmt"

	"github.com/l7mp/triedb/pkg/relation"
)

// Builder stages tuples and turns them into a Trie in one go. A Builder is single use: once Build
// has been called every further call panics.
//
//	t, err := trie.NewBuilder[uint64](2).Add([]uint64{1, 2}).Add([]uint64{1, 3}).Build()
type Builder[K cmp.Ordered] struct {
	cardinality int
	tuples      [][]K
	consumed    bool
}

// NewBuilder creates a builder for tries of the given cardinality. Panics if cardinality is zero.
func NewBuilder[K cmp.Ordered](cardinality int) *Builder[K] {
	if cardinality < 1 {
		panic(fmt.Sprintf("trie: cardinality must be greater than 0, got %d", cardinality))
	}
	return &Builder[K]{cardinality: cardinality}
}

// Cardinality returns the arity of the trie being built.
func (b *Builder[K]) Cardinality() int { return b.cardinality }

// Add stages a tuple. The builder takes ownership of the slice until Build returns.
func (b *Builder[K]) Add(tuple []K) *Builder[K] {
	b.mustBeStaging("Add")
	b.tuples = append(b.tuples, tuple)
	return b
}

// AddAll stages a batch of tuples.
func (b *Builder[K]) AddAll(tuples [][]K) *Builder[K] {
	b.mustBeStaging("AddAll")
	b.tuples = append(b.tuples, tuples...)
	return b
}

// Build consumes the builder and returns the trie of the staged tuples, constructed through the
// sorted bulk loader. Arity errors are reported the same way as by FromTuples.
func (b *Builder[K]) Build() (*Trie[K], error) {
	b.mustBeStaging("Build")
	b.consumed = true
	tuples := b.tuples
	b.tuples = nil
	return FromSortedTuples(b.cardinality, tuples)
}

func (b *Builder[K]) mustBeStaging(op string) {
	if b.consumed {
		panic(fmt.Sprintf("trie: %s called on a builder that has already been built", op))
	}
}

// relationBuilder adapts Builder to the generic relation.Builder interface.
type relationBuilder[K cmp.Ordered] struct {
	b *Builder[K]
}

// NewRelationBuilder returns a relation.Builder producing tries. Its signature matches
// relation.BuilderFunc.
func NewRelationBuilder[K cmp.Ordered](cardinality int) relation.Builder[K] {
	return &relationBuilder[K]{b: NewBuilder[K](cardinality)}
}

func (r *relationBuilder[K]) Cardinality() int { return r.b.Cardinality() }

func (r *relationBuilder[K]) Add(tuple []K) relation.Builder[K] {
	r.b.Add(tuple)
	return r
}

func (r *relationBuilder[K]) AddAll(tuples [][]K) relation.Builder[K] {
	r.b.AddAll(tuples)
	return r
}

func (r *relationBuilder[K]) Build() (relation.Relation[K], error) {
	t, err := r.b.Build()
	if err != nil {
		return nil, err
	}
	return t, nil
}

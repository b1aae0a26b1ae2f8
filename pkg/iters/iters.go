// Package iters defines the iterator capabilities that join algorithms use to walk relations.
//
// A LinearIterator walks a single sorted, duplicate-free sequence of keys. A TrieIterator extends
// this with vertical navigation over a multi-level trie, so that a join can move through the
// levels of several relations in lock-step:
//
//	it := rel.TrieIterator()
//	for ok := it.Down(); ok && !it.AtEnd(); it.Next() {
//		fmt.Println(it.Key())
//	}
//
// Iterators are read-only views. Mutating the underlying relation while an iterator is open is
// a contract violation and leads to undefined iteration results.
package iters

import "cmp"

// LinearIterator iterates over a strictly ascending sequence of keys.
type LinearIterator[K cmp.Ordered] interface {
	// Key returns the key at the current position. The result is only meaningful when AtEnd
	// returns false; otherwise the zero value is returned.
	Key() K
	// Next advances to the next key.
	Next()
	// Seek advances to the first key that is greater than or equal to the given key. Seek
	// never moves backwards: seeking to a key smaller than the current one is a no-op.
	Seek(key K)
	// AtEnd reports whether the iterator has been exhausted.
	AtEnd() bool
}

// TrieIterator is a LinearIterator over the current level of a trie that can also move between
// levels.
type TrieIterator[K cmp.Ordered] interface {
	LinearIterator[K]
	// Open repositions the iterator to the first key of the current level.
	Open()
	// Down enters the children of the current key, positioned at the first child. At depth
	// zero Down enters the top level of the trie. Returns false and leaves the position intact
	// if there is nothing to descend into.
	Down() bool
	// Up returns to the parent level, restoring the position held before the matching Down.
	// Returns false at depth zero.
	Up() bool
	// Depth returns the number of levels entered, zero before the first Down.
	Depth() int
}

// Iterable is implemented by relations that can be walked level by level.
type Iterable[K cmp.Ordered] interface {
	// TrieIterator returns a fresh iterator positioned above the top level.
	TrieIterator() TrieIterator[K]
	// Cardinality returns the number of levels, i.e., the arity of the relation.
	Cardinality() int
}

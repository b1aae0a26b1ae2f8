package join

import (
	"cmp"
	"slices"

	"github.com/l7mp/triedb/pkg/iters"
)

var _ iters.LinearIterator[int] = &LeapfrogJoin[int]{}

// LeapfrogJoin intersects a set of linear iterators. It is itself a linear iterator over the keys
// present in all inputs. The inputs are advanced in a round-robin fashion, each one seeking to the
// largest key seen so far, so ranges of keys missing from any input are skipped without being
// enumerated.
type LeapfrogJoin[K cmp.Ordered] struct {
	iters []iters.LinearIterator[K]
	p     int
	key   K
	atEnd bool
}

// NewLeapfrogJoin creates an intersection of the given iterators and positions it on the first
// common key. The iterators must not be advanced by the caller while the join is in use.
func NewLeapfrogJoin[K cmp.Ordered](its []iters.LinearIterator[K]) *LeapfrogJoin[K] {
	lf := &LeapfrogJoin[K]{iters: slices.Clone(its)}
	lf.init()
	return lf
}

func (lf *LeapfrogJoin[K]) init() {
	lf.atEnd = len(lf.iters) == 0
	for _, it := range lf.iters {
		if it.AtEnd() {
			lf.atEnd = true
		}
	}
	if lf.atEnd {
		return
	}
	slices.SortFunc(lf.iters, func(a, b iters.LinearIterator[K]) int {
		return cmp.Compare(a.Key(), b.Key())
	})
	lf.p = 0
	lf.search()
}

// search establishes the invariant that all iterators point to the same key, or flags the end.
func (lf *LeapfrogJoin[K]) search() {
	k := len(lf.iters)
	maxKey := lf.iters[(lf.p+k-1)%k].Key()
	for {
		it := lf.iters[lf.p]
		if it.Key() == maxKey {
			lf.key = maxKey
			return
		}
		it.Seek(maxKey)
		if it.AtEnd() {
			lf.atEnd = true
			return
		}
		maxKey = it.Key()
		lf.p = (lf.p + 1) % k
	}
}

func (lf *LeapfrogJoin[K]) Key() K {
	if lf.atEnd {
		var zero K
		return zero
	}
	return lf.key
}

func (lf *LeapfrogJoin[K]) AtEnd() bool { return lf.atEnd }

func (lf *LeapfrogJoin[K]) Next() {
	if lf.atEnd {
		return
	}
	lf.advance(func(it iters.LinearIterator[K]) { it.Next() })
}

func (lf *LeapfrogJoin[K]) Seek(key K) {
	if lf.atEnd || key <= lf.key {
		return
	}
	lf.advance(func(it iters.LinearIterator[K]) { it.Seek(key) })
}

func (lf *LeapfrogJoin[K]) advance(step func(iters.LinearIterator[K])) {
	it := lf.iters[lf.p]
	step(it)
	if it.AtEnd() {
		lf.atEnd = true
		return
	}
	lf.p = (lf.p + 1) % len(lf.iters)
	lf.search()
}

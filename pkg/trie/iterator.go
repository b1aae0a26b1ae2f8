package trie

import (
	"cmp"
	"slices"

	"github.com/l7mp/triedb/pkg/iters"
)

var _ iters.TrieIterator[int] = &Iterator[int]{}

type level[K cmp.Ordered] struct {
	nodes []*Node[K]
	pos   int
}

// Iterator walks a Trie level by level. It keeps a stack of the levels entered so far, the top
// of which is the current level.
type Iterator[K cmp.Ordered] struct {
	trie  *Trie[K]
	stack []level[K]
}

// NewIterator returns an iterator over the trie positioned above the top level.
func NewIterator[K cmp.Ordered](t *Trie[K]) *Iterator[K] {
	return &Iterator[K]{trie: t, stack: make([]level[K], 0, t.cardinality)}
}

func (it *Iterator[K]) current() *level[K] {
	if len(it.stack) == 0 {
		return nil
	}
	return &it.stack[len(it.stack)-1]
}

func (it *Iterator[K]) Depth() int { return len(it.stack) }

func (it *Iterator[K]) AtEnd() bool {
	l := it.current()
	return l == nil || l.pos >= len(l.nodes)
}

func (it *Iterator[K]) Key() K {
	if it.AtEnd() {
		var zero K
		return zero
	}
	l := it.current()
	return l.nodes[l.pos].key
}

func (it *Iterator[K]) Next() {
	if !it.AtEnd() {
		it.current().pos++
	}
}

// Seek moves forward to the first key >= key. The search gallops from the current position and
// then bisects the bracketed window, so the cost is logarithmic in the distance travelled.
func (it *Iterator[K]) Seek(key K) {
	if it.AtEnd() {
		return
	}
	l := it.current()
	if l.nodes[l.pos].key >= key {
		return
	}

	// invariant: l.nodes[l.pos+bound/2].key < key
	bound := 1
	for l.pos+bound < len(l.nodes) && l.nodes[l.pos+bound].key < key {
		bound *= 2
	}
	lo := l.pos + bound/2 + 1
	hi := min(l.pos+bound+1, len(l.nodes))
	i, _ := slices.BinarySearchFunc(l.nodes[lo:hi], key, compareNodeKey[K])
	l.pos = lo + i
}

func (it *Iterator[K]) Open() {
	if l := it.current(); l != nil {
		l.pos = 0
	}
}

func (it *Iterator[K]) Down() bool {
	var children []*Node[K]
	if len(it.stack) == 0 {
		children = it.trie.children
	} else {
		if it.AtEnd() {
			return false
		}
		l := it.current()
		children = l.nodes[l.pos].children
	}
	if len(children) == 0 {
		return false
	}
	it.stack = append(it.stack, level[K]{nodes: children})
	return true
}

func (it *Iterator[K]) Up() bool {
	if len(it.stack) == 0 {
		return false
	}
	it.stack = it.stack[:len(it.stack)-1]
	return true
}

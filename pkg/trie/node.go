package trie

import (
	"cmp"
	"slices"
)

// Parent is implemented by everything that holds an ordered list of child nodes, i.e., by Node
// and by the Trie root. The tree algorithms (insert, search, remove) are written once against this
// interface.
//
// Invariant: the children are sorted strictly ascending by key, so no two siblings compare equal.
type Parent[K cmp.Ordered] interface {
	// Children returns the child nodes in ascending key order. The slice must not be modified.
	Children() []*Node[K]
	// IsEmpty is true iff there are no children.
	IsEmpty() bool
	// Size returns the number of children.
	Size() int
	// Height returns the length of the chain formed by following the first child down to a leaf.
	Height() int

	setChildren([]*Node[K])
}

var _ Parent[int] = &Node[int]{}

// Node is a labeled trie node. Each node exclusively owns its children.
type Node[K cmp.Ordered] struct {
	key      K
	children []*Node[K]
}

// NewNode creates a leaf node.
func NewNode[K cmp.Ordered](key K) *Node[K] {
	return &Node[K]{key: key}
}

// NewNodeWithKeys creates a chain of nodes: a node holding key whose only descendant path is
// formed by keys.
func NewNodeWithKeys[K cmp.Ordered](key K, keys ...K) *Node[K] {
	root := NewNode(key)
	n := root
	for _, k := range keys {
		child := NewNode(k)
		n.children = []*Node[K]{child}
		n = child
	}
	return root
}

// Key returns the key held by the node.
func (n *Node[K]) Key() K { return n.key }

func (n *Node[K]) Children() []*Node[K]      { return n.children }
func (n *Node[K]) IsEmpty() bool             { return len(n.children) == 0 }
func (n *Node[K]) Size() int                 { return len(n.children) }
func (n *Node[K]) Height() int               { return height[K](n) }
func (n *Node[K]) setChildren(cs []*Node[K]) { n.children = cs }

// Insert adds a key path below the node. Inserting an existing path is a no-op.
func (n *Node[K]) Insert(keys ...K) { insert[K](n, keys) }

// Search returns the node at the end of the key path below this node.
func (n *Node[K]) Search(keys ...K) (*Node[K], bool) { return search[K](n, keys) }

// Remove deletes a key path below the node, pruning children left without descendants. Returns
// whether anything was removed.
func (n *Node[K]) Remove(keys ...K) bool { return remove[K](n, keys) }

func compareNodeKey[K cmp.Ordered](n *Node[K], key K) int { return cmp.Compare(n.key, key) }

// find locates key among the sorted children. The last child is checked first: when tuples arrive
// in sorted order every insert lands on the rightmost spine, which keeps bulk loads linear.
func find[K cmp.Ordered](children []*Node[K], key K) (int, bool) {
	n := len(children)
	if n == 0 {
		return 0, false
	}
	switch c := cmp.Compare(children[n-1].key, key); {
	case c == 0:
		return n - 1, true
	case c < 0:
		return n, false
	}
	return slices.BinarySearchFunc(children[:n-1], key, compareNodeKey[K])
}

func insert[K cmp.Ordered](p Parent[K], keys []K) {
	for len(keys) > 0 {
		children := p.Children()
		i, found := find(children, keys[0])
		if !found {
			p.setChildren(slices.Insert(children, i, NewNodeWithKeys(keys[0], keys[1:]...)))
			return
		}
		p, keys = children[i], keys[1:]
	}
}

func search[K cmp.Ordered](p Parent[K], keys []K) (*Node[K], bool) {
	if len(keys) == 0 {
		return nil, false
	}
	var node *Node[K]
	for _, key := range keys {
		children := p.Children()
		i, found := find(children, key)
		if !found {
			return nil, false
		}
		node = children[i]
		p = node
	}
	return node, true
}

func remove[K cmp.Ordered](p Parent[K], keys []K) bool {
	if len(keys) == 0 {
		return false
	}
	children := p.Children()
	i, found := find(children, keys[0])
	if !found {
		return false
	}
	child := children[i]
	if len(keys) > 1 && !remove[K](child, keys[1:]) {
		return false
	}
	if !child.IsEmpty() {
		// a proper prefix of a stored path is not a tuple
		return len(keys) > 1
	}
	p.setChildren(slices.Delete(children, i, i+1))
	return true
}

func height[K cmp.Ordered](p Parent[K]) int {
	h := 0
	for children := p.Children(); len(children) > 0; children = children[0].children {
		h++
	}
	return h
}

// leaves counts the leaf nodes below p.
func leaves[K cmp.Ordered](p Parent[K]) int {
	if p.IsEmpty() {
		return 0
	}
	total := 0
	for _, c := range p.Children() {
		if c.IsEmpty() {
			total++
			continue
		}
		total += leaves[K](c)
	}
	return total
}

func equal[K cmp.Ordered](a, b []*Node[K]) bool {
	return slices.EqualFunc(a, b, func(x, y *Node[K]) bool {
		return x.key == y.key && equal(x.children, y.children)
	})
}

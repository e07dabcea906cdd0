package bptree

import (
	"go-bptdb/pkg/stack"

	"github.com/pkg/errors"
)

// frame is one pending node of the consistency walk. Keys of the node must
// lie in [lo, hi) where the bounds are present.
type frame[K any] struct {
	id     nodeID
	depth  int
	lo, hi K
	hasLo  bool
	hasHi  bool
}

// CheckConsistency walks the whole tree and returns an error describing the
// first broken invariant. It is meant for tests and debugging.
func (tree *BPlusTree[K, V]) CheckConsistency() error {
	cmp := tree.compare
	root := tree.node(tree.root)
	if !root.isRoot() {
		return errors.Errorf("root %v has a parent", root)
	}

	leaves := []nodeID{}
	leafDepth := -1
	visited := 0

	s := stack.New[frame[K]](16)
	s.Push(frame[K]{id: tree.root})
	for !s.Empty() {
		f := s.Pop()
		n := tree.node(f.id)
		visited++

		if n.isLeaf() {
			if len(n.values) != len(n.keys) {
				return errors.Errorf("leaf %v has %d keys but %d values", n, len(n.keys), len(n.values))
			}
			if len(n.children) != 0 {
				return errors.Errorf("leaf %v has children", n)
			}
		} else {
			if len(n.children) != len(n.keys)+1 {
				return errors.Errorf("node %v has %d keys but %d children", n, len(n.keys), len(n.children))
			}
			if f.id == tree.root && len(n.keys) == 0 {
				return errors.Errorf("internal root %v has no keys", n)
			}
		}

		if len(n.keys) > tree.meta.maxKeys {
			return errors.Errorf("node %v holds %d keys, max is %d", n, len(n.keys), tree.meta.maxKeys)
		}
		if f.id != tree.root && len(n.keys) < tree.meta.minKeys {
			return errors.Errorf("node %v holds %d keys, min is %d", n, len(n.keys), tree.meta.minKeys)
		}

		for i := range n.keys {
			if i > 0 && cmp(n.keys[i-1], n.keys[i]) >= 0 {
				return errors.Errorf("node %v keys are not strictly increasing at %d", n, i)
			}
			if f.hasLo && cmp(n.keys[i], f.lo) < 0 {
				return errors.Errorf("node %v key '%v' is below separator '%v'", n, n.keys[i], f.lo)
			}
			if f.hasHi && cmp(n.keys[i], f.hi) >= 0 {
				return errors.Errorf("node %v key '%v' is not below separator '%v'", n, n.keys[i], f.hi)
			}
		}

		if n.isLeaf() {
			if leafDepth == -1 {
				leafDepth = f.depth
			} else if leafDepth != f.depth {
				return errors.Errorf("leaf %v at depth %d, expected %d", n, f.depth, leafDepth)
			}
			leaves = append(leaves, f.id)
			continue
		}

		// push right to left so leaves are collected in key order
		for i := len(n.children) - 1; i >= 0; i-- {
			childID := n.children[i]
			child := tree.node(childID)
			if child.parent != f.id {
				return errors.Errorf("child %v of %v points to another parent", child, n)
			}

			cf := frame[K]{
				id:    childID,
				depth: f.depth + 1,
				lo:    f.lo,
				hi:    f.hi,
				hasLo: f.hasLo,
				hasHi: f.hasHi,
			}
			if i > 0 {
				cf.lo, cf.hasLo = n.keys[i-1], true
			}
			if i < len(n.keys) {
				cf.hi, cf.hasHi = n.keys[i], true
			}
			s.Push(cf)
		}
	}

	if visited != tree.liveNodes() {
		return errors.Errorf("%d nodes reachable from root, arena holds %d", visited, tree.liveNodes())
	}

	return tree.checkLeafChain(leaves)
}

// checkLeafChain verifies that following next handles from the first leaf
// visits exactly the given leaves, in order, with strictly increasing keys.
func (tree *BPlusTree[K, V]) checkLeafChain(leaves []nodeID) error {
	count := 0
	i := 0
	var prev K
	hasPrev := false

	for id := leaves[0]; id != nilNode; id = tree.node(id).next {
		if i >= len(leaves) || leaves[i] != id {
			return errors.Errorf("leaf chain diverges from tree order at leaf %d", i)
		}

		n := tree.node(id)
		for _, k := range n.keys {
			if hasPrev && tree.compare(prev, k) >= 0 {
				return errors.Errorf("leaf chain keys not increasing: '%v' then '%v'", prev, k)
			}
			prev, hasPrev = k, true
			count++
		}
		i++
	}

	if i != len(leaves) {
		return errors.Errorf("leaf chain visits %d leaves, tree has %d", i, len(leaves))
	}
	if count != tree.size {
		return errors.Errorf("leaf chain holds %d entries, size is %d", count, tree.size)
	}
	return nil
}

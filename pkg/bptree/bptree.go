// Package bptree implements an in-memory B+ tree that stores key-value pairs
// sorted by key and provides point lookups, range scans, insertion, update
// and deletion with bounded node occupancy.
//
// Nodes are kept in an arena and linked by handles: every node knows its
// parent and every leaf knows the next leaf in key order. Splits and
// underflow resolution walk up through parent handles instead of unwinding
// a recursive descent, since borrowing and merging need sibling access.
//
// A BPlusTree is not safe for concurrent use. Callers serialize access.
package bptree

import (
	"fmt"

	"go-bptdb/pkg/customerrors"
	"go-bptdb/pkg/kvstore"
	"go-bptdb/util/helpers"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

var _ kvstore.Store[int, string] = (*BPlusTree[int, string])(nil)

// BPlusTree is a B+ tree of order m. Every non-root node holds between
// ceil(m/2)-1 and m-1 keys, internal nodes hold one child more than keys.
type BPlusTree[K, V any] struct {
	meta    *metadata
	compare CompareFunc[K]

	// arena
	nodes []*node[K, V]
	free  []nodeID

	root nodeID
	size int
}

// New creates an empty tree of the given order whose keys are ordered by
// compare. Orders below MinOrder are rejected.
func New[K, V any](order int, compare CompareFunc[K]) (*BPlusTree[K, V], error) {
	if order < MinOrder {
		return nil, errors.Wrapf(customerrors.ErrInvalidOrder, "got order %d", order)
	}
	if compare == nil {
		return nil, errors.New("compare function is required")
	}

	tree := &BPlusTree[K, V]{
		meta: &metadata{
			order:   order,
			maxKeys: order - 1,
			minKeys: helpers.CeilDiv(order, 2) - 1,
		},
		compare: compare,
	}
	tree.root = tree.alloc(true)
	return tree, nil
}

// NewOrdered creates an empty tree over a naturally ordered key type.
func NewOrdered[K constraints.Ordered, V any](order int) (*BPlusTree[K, V], error) {
	return New[K, V](order, helpers.Compare[K])
}

// Search returns the value stored under key and whether it was found.
func (tree *BPlusTree[K, V]) Search(key K) (V, bool) {
	n := tree.node(tree.findLeaf(key))
	idx, found := n.search(key, tree.compare)
	if !found {
		var zero V
		return zero, false
	}
	return n.values[idx], true
}

// Has reports whether key is stored in the tree.
func (tree *BPlusTree[K, V]) Has(key K) bool {
	_, found := tree.Search(key)
	return found
}

// Update replaces the value stored under key. Keys are not moved, so no
// rebalancing happens. Returns false if key does not exist.
func (tree *BPlusTree[K, V]) Update(key K, val V) bool {
	n := tree.node(tree.findLeaf(key))
	idx, found := n.search(key, tree.compare)
	if !found {
		return false
	}
	n.values[idx] = val
	return true
}

// Len returns the number of entries in the tree.
func (tree *BPlusTree[K, V]) Len() int { return tree.size }

// Order returns the maximum number of children per internal node.
func (tree *BPlusTree[K, V]) Order() int { return tree.meta.order }

// Height returns the number of levels, 1 for a tree that is a single leaf.
func (tree *BPlusTree[K, V]) Height() int {
	h := 1
	for n := tree.node(tree.root); !n.isLeaf(); n = tree.node(n.children[0]) {
		h++
	}
	return h
}

func (tree *BPlusTree[K, V]) String() string {
	return fmt.Sprintf(
		"BPlusTree{order=%d, size=%d, height=%d}",
		tree.meta.order, tree.size, tree.Height(),
	)
}

// findLeaf descends from the root to the leaf that holds or would hold key.
// At each internal node it takes the child after all separators <= key, the
// same rule used when separators are promoted during a split.
func (tree *BPlusTree[K, V]) findLeaf(key K) nodeID {
	id := tree.root
	for {
		n := tree.node(id)
		if n.isLeaf() {
			return id
		}

		if len(n.children) != len(n.keys)+1 {
			panic(errors.Errorf("[findLeaf] node %v has %d keys but %d children", n, len(n.keys), len(n.children)))
		}

		child := n.children[n.upperBound(key, tree.compare)]
		if tree.node(child).parent != id {
			panic(errors.Errorf("[findLeaf] child %v does not point back to parent %v", tree.node(child), n))
		}
		id = child
	}
}

// leftLeaf returns the left most leaf of the tree.
func (tree *BPlusTree[K, V]) leftLeaf() nodeID {
	id := tree.root
	for n := tree.node(id); !n.isLeaf(); n = tree.node(id) {
		id = n.children[0]
	}
	return id
}

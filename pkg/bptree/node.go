package bptree

import (
	"fmt"
	"strings"
)

// nodeID addresses a node in the tree arena. Parent and next-leaf links are
// handles, the arena alone owns the nodes.
type nodeID int32

const nilNode nodeID = -1

// node represents an internal or leaf node in the B+ tree. Leaves use
// keys/values/next, internal nodes use keys/children.
type node[K, V any] struct {
	meta *metadata
	leaf bool

	parent   nodeID
	next     nodeID
	keys     []K
	values   []V
	children []nodeID
}

func (n *node[K, V]) isLeaf() bool { return n.leaf }

func (n *node[K, V]) isRoot() bool { return n.parent == nilNode }

// isFull reports whether the node holds the maximum of order-1 keys.
func (n *node[K, V]) isFull() bool {
	return len(n.keys) == n.meta.maxKeys
}

// isOverflow reports whether an insertion pushed the node one past its
// maximum, which requires a split.
func (n *node[K, V]) isOverflow() bool {
	return len(n.keys) > n.meta.maxKeys
}

func (n *node[K, V]) hasExcessKeys(minKeys int) bool {
	return len(n.keys) > minKeys
}

// isUnderflow never reports the root, its minimum is governed by the root
// collapse rule.
func (n *node[K, V]) isUnderflow(minKeys int) bool {
	if n.isRoot() {
		return false
	}
	return len(n.keys) < minKeys
}

// lowerBound returns the index of the first key that is >= key.
func (n *node[K, V]) lowerBound(key K, cmp CompareFunc[K]) int {
	left, right := 0, len(n.keys)
	for left < right {
		mid := int(uint(left+right) >> 1)
		if cmp(n.keys[mid], key) < 0 {
			left = mid + 1
		} else {
			right = mid
		}
	}
	return left
}

// upperBound returns the index of the first key that is > key, which is
// the child to descend into for key.
func (n *node[K, V]) upperBound(key K, cmp CompareFunc[K]) int {
	left, right := 0, len(n.keys)
	for left < right {
		mid := int(uint(left+right) >> 1)
		if cmp(n.keys[mid], key) <= 0 {
			left = mid + 1
		} else {
			right = mid
		}
	}
	return left
}

// search returns the index where key is or should be and a flag indicating
// whether key exists.
func (n *node[K, V]) search(key K, cmp CompareFunc[K]) (idx int, found bool) {
	idx = n.lowerBound(key, cmp)
	return idx, idx < len(n.keys) && cmp(n.keys[idx], key) == 0
}

// childIndex returns the position of child among the children of n, or -1.
func (n *node[K, V]) childIndex(child nodeID) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *node[K, V]) insertEntry(idx int, key K, val V) {
	n.keys = insertAt(n.keys, idx, key)
	n.values = insertAt(n.values, idx, val)
}

func (n *node[K, V]) removeEntry(idx int) (K, V) {
	var k K
	var v V
	n.keys, k = removeAt(n.keys, idx)
	n.values, v = removeAt(n.values, idx)
	return k, v
}

func (n *node[K, V]) insertKey(idx int, key K) {
	n.keys = insertAt(n.keys, idx, key)
}

func (n *node[K, V]) removeKey(idx int) K {
	var k K
	n.keys, k = removeAt(n.keys, idx)
	return k
}

func (n *node[K, V]) insertChild(idx int, child nodeID) {
	n.children = insertAt(n.children, idx, child)
}

func (n *node[K, V]) removeChild(idx int) nodeID {
	var c nodeID
	n.children, c = removeAt(n.children, idx)
	return c
}

func (n *node[K, V]) reset() {
	clear(n.keys)
	clear(n.values)
	n.keys = n.keys[:0]
	n.values = n.values[:0]
	n.children = n.children[:0]
	n.parent = nilNode
	n.next = nilNode
}

func (n *node[K, V]) String() string {
	keys := make([]string, len(n.keys))
	for i, k := range n.keys {
		keys[i] = fmt.Sprintf("%v", k)
	}

	kind := "I"
	if n.leaf {
		kind = "L"
	}
	return fmt.Sprintf("Node(%s, K:[%s])", kind, strings.Join(keys, ", "))
}

func insertAt[T any](s []T, idx int, v T) []T {
	var zero T
	s = append(s, zero)
	copy(s[idx+1:], s[idx:])
	s[idx] = v
	return s
}

func removeAt[T any](s []T, idx int) ([]T, T) {
	var zero T
	v := s[idx]
	copy(s[idx:], s[idx+1:])
	s[len(s)-1] = zero
	return s[:len(s)-1], v
}

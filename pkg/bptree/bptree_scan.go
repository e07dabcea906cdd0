package bptree

import "go-bptdb/pkg/kvstore"

// RangeQuery returns, in key order, every entry whose key is within
// [start, end]. The result is empty when nothing matches or start > end.
func (tree *BPlusTree[K, V]) RangeQuery(start, end K) []kvstore.Entry[K, V] {
	result := []kvstore.Entry[K, V]{}
	if tree.compare(start, end) > 0 {
		return result
	}

	id := tree.findLeaf(start)
	idx := tree.node(id).lowerBound(start, tree.compare)
	for id != nilNode {
		n := tree.node(id)
		for i := idx; i < len(n.keys); i++ {
			if tree.compare(n.keys[i], end) > 0 {
				return result
			}
			result = append(result, kvstore.Entry[K, V]{Key: n.keys[i], Val: n.values[i]})
		}

		// no later leaf can hold keys <= end
		if len(n.keys) == 0 || tree.compare(n.keys[len(n.keys)-1], end) >= 0 {
			break
		}

		id = n.next
		idx = 0
	}

	return result
}

// GetAll returns every entry of the tree in key order.
func (tree *BPlusTree[K, V]) GetAll() []kvstore.Entry[K, V] {
	result := make([]kvstore.Entry[K, V], 0, tree.size)
	tree.Scan(func(key K, val V) bool {
		result = append(result, kvstore.Entry[K, V]{Key: key, Val: val})
		return false
	})
	return result
}

// Scan walks all entries in key order following the leaf chain. Scan stops
// when scanFn returns true.
func (tree *BPlusTree[K, V]) Scan(scanFn func(key K, val V) bool) {
	tree.scan(tree.leftLeaf(), 0, scanFn)
}

// ScanFrom walks entries in key order starting at the first key >= key.
func (tree *BPlusTree[K, V]) ScanFrom(key K, scanFn func(key K, val V) bool) {
	leafID := tree.findLeaf(key)
	tree.scan(leafID, tree.node(leafID).lowerBound(key, tree.compare), scanFn)
}

// Keys returns all keys in order.
func (tree *BPlusTree[K, V]) Keys() []K {
	keys := make([]K, 0, tree.size)
	tree.Scan(func(key K, _ V) bool {
		keys = append(keys, key)
		return false
	})
	return keys
}

func (tree *BPlusTree[K, V]) scan(id nodeID, idx int, scanFn func(key K, val V) bool) {
	for id != nilNode {
		n := tree.node(id)
		for i := idx; i < len(n.keys); i++ {
			if scanFn(n.keys[i], n.values[i]) {
				return
			}
		}
		id = n.next
		idx = 0
	}
}

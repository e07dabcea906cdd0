package bptree

import (
	"github.com/pkg/errors"
)

// Delete removes key and its value from the tree. Returns false, without
// touching the tree, if key does not exist.
func (tree *BPlusTree[K, V]) Delete(key K) bool {
	leafID := tree.findLeaf(key)
	leaf := tree.node(leafID)

	idx, found := leaf.search(key, tree.compare)
	if !found {
		return false
	}

	leaf.removeEntry(idx)
	tree.size--
	tree.rebalance(leafID)
	return true
}

// rebalance resolves an underflow at node id. Borrowing from a sibling is
// preferred over merging. A merge takes a key out of the parent, so the
// loop continues at the parent until a level is within bounds or the root
// is reached.
func (tree *BPlusTree[K, V]) rebalance(id nodeID) {
	minKeys := tree.meta.minKeys

	for {
		n := tree.node(id)
		if n.isRoot() {
			tree.collapseRoot()
			return
		}

		if !n.isUnderflow(minKeys) {
			return
		}

		parentID := n.parent
		parent := tree.node(parentID)
		idx := parent.childIndex(id)
		if idx < 0 {
			panic(errors.Errorf("[rebalance] node %v not found in parent %v", n, parent))
		}

		hasLeft := idx > 0
		hasRight := idx < len(parent.children)-1

		if hasLeft {
			leftID := parent.children[idx-1]
			if tree.node(leftID).hasExcessKeys(minKeys) {
				tree.borrowFromLeft(id, leftID, parentID, idx)
				return
			}
		}

		if hasRight {
			rightID := parent.children[idx+1]
			if tree.node(rightID).hasExcessKeys(minKeys) {
				tree.borrowFromRight(id, rightID, parentID, idx)
				return
			}
		}

		switch {
		case hasLeft:
			tree.merge(parent.children[idx-1], id, parentID, idx-1)
		case hasRight:
			tree.merge(id, parent.children[idx+1], parentID, idx)
		default:
			panic(errors.Errorf("[rebalance] node %v has no sibling to borrow from or merge with", n))
		}

		id = parentID
	}
}

// collapseRoot replaces an internal root left without keys by its only
// child. A leaf root may stay below the minimum, even empty.
func (tree *BPlusTree[K, V]) collapseRoot() {
	oldRootID := tree.root
	root := tree.node(oldRootID)
	if root.isLeaf() || len(root.keys) > 0 || len(root.children) != 1 {
		return
	}

	tree.root = root.children[0]
	tree.node(tree.root).parent = nilNode
	tree.freeNode(oldRootID)
}

// borrowFromLeft moves the last element of the left sibling to the front of
// node id. idx is the position of id among the parent's children.
func (tree *BPlusTree[K, V]) borrowFromLeft(id, leftID, parentID nodeID, idx int) {
	n := tree.node(id)
	left := tree.node(leftID)
	parent := tree.node(parentID)
	sepIdx := idx - 1

	if n.isLeaf() {
		k, v := left.removeEntry(len(left.keys) - 1)
		n.insertEntry(0, k, v)
		parent.keys[sepIdx] = n.keys[0]
		return
	}

	n.insertKey(0, parent.keys[sepIdx])
	parent.keys[sepIdx] = left.removeKey(len(left.keys) - 1)
	childID := left.removeChild(len(left.children) - 1)
	n.insertChild(0, childID)
	tree.node(childID).parent = id
}

// borrowFromRight moves the first element of the right sibling to the end
// of node id.
func (tree *BPlusTree[K, V]) borrowFromRight(id, rightID, parentID nodeID, idx int) {
	n := tree.node(id)
	right := tree.node(rightID)
	parent := tree.node(parentID)
	sepIdx := idx

	if n.isLeaf() {
		k, v := right.removeEntry(0)
		n.insertEntry(len(n.keys), k, v)
		if len(right.keys) > 0 {
			parent.keys[sepIdx] = right.keys[0]
		} else {
			parent.keys[sepIdx] = k
		}
		return
	}

	n.insertKey(len(n.keys), parent.keys[sepIdx])
	parent.keys[sepIdx] = right.removeKey(0)
	childID := right.removeChild(0)
	n.insertChild(len(n.children), childID)
	tree.node(childID).parent = id
}

// merge moves everything from rightID into leftID, drops the separator at
// sepIdx together with the pointer to rightID from the parent and releases
// rightID.
func (tree *BPlusTree[K, V]) merge(leftID, rightID, parentID nodeID, sepIdx int) {
	left := tree.node(leftID)
	right := tree.node(rightID)
	parent := tree.node(parentID)

	separator := parent.removeKey(sepIdx)
	if removed := parent.removeChild(sepIdx + 1); removed != rightID {
		panic(errors.Errorf("[merge] expected to unlink %v, unlinked %v", right, tree.node(removed)))
	}

	if left.isLeaf() {
		left.keys = append(left.keys, right.keys...)
		left.values = append(left.values, right.values...)
		left.next = right.next
	} else {
		left.keys = append(left.keys, separator)
		left.keys = append(left.keys, right.keys...)
		for _, childID := range right.children {
			child := tree.node(childID)
			if child.parent != rightID {
				panic(errors.Errorf("[merge] child %v has wrong parent before move", child))
			}
			child.parent = leftID
		}
		left.children = append(left.children, right.children...)
	}

	if len(left.keys) > tree.meta.maxKeys {
		panic(errors.Errorf("[merge] merged node %v exceeds %d keys", left, tree.meta.maxKeys))
	}

	tree.freeNode(rightID)
}

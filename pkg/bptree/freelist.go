package bptree

import "github.com/pkg/errors"

// alloc returns the handle of an empty node, reusing a released slot when
// one is available.
func (tree *BPlusTree[K, V]) alloc(leaf bool) nodeID {
	var id nodeID
	if l := len(tree.free); l > 0 {
		id = tree.free[l-1]
		tree.free = tree.free[:l-1]
	} else {
		id = nodeID(len(tree.nodes))
		tree.nodes = append(tree.nodes, &node[K, V]{meta: tree.meta})
	}

	n := tree.nodes[id]
	n.reset()
	n.leaf = leaf
	return id
}

// freeNode releases a node that is no longer reachable from the root.
func (tree *BPlusTree[K, V]) freeNode(id nodeID) {
	if id == tree.root {
		panic(errors.New("[freeNode] can not release the root"))
	}
	tree.nodes[id].reset()
	tree.free = append(tree.free, id)
}

func (tree *BPlusTree[K, V]) node(id nodeID) *node[K, V] {
	if id < 0 || int(id) >= len(tree.nodes) {
		panic(errors.Errorf("[node] handle %d out of arena bounds", id))
	}
	return tree.nodes[id]
}

// liveNodes returns the number of nodes currently reachable from the root.
func (tree *BPlusTree[K, V]) liveNodes() int {
	return len(tree.nodes) - len(tree.free)
}

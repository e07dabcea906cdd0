package bptree

import (
	"go-bptdb/pkg/customerrors"

	"github.com/pkg/errors"
)

// Insert puts the key-value pair into the tree. Keys are unique: inserting
// a key that already exists returns ErrKeyExists and leaves the tree as is.
func (tree *BPlusTree[K, V]) Insert(key K, val V) error {
	leafID := tree.findLeaf(key)
	leaf := tree.node(leafID)

	idx, found := leaf.search(key, tree.compare)
	if found {
		return errors.Wrapf(customerrors.ErrKeyExists, "key '%v'", key)
	}

	tree.insertAt(leafID, idx, key, val)
	return nil
}

// Put inserts the pair or, if key already exists, overwrites its value.
// Returns true if a new entry was created.
func (tree *BPlusTree[K, V]) Put(key K, val V) bool {
	leafID := tree.findLeaf(key)
	leaf := tree.node(leafID)

	idx, found := leaf.search(key, tree.compare)
	if found {
		leaf.values[idx] = val
		return false
	}

	tree.insertAt(leafID, idx, key, val)
	return true
}

func (tree *BPlusTree[K, V]) insertAt(leafID nodeID, idx int, key K, val V) {
	leaf := tree.node(leafID)
	leaf.insertEntry(idx, key, val)
	tree.size++

	if leaf.isOverflow() {
		tree.split(leafID)
	}
}

// split splits the overflowing node and inserts the separator into its
// parent, repeating upwards while parents overflow. A split of the root
// grows the tree by one level.
//
// A leaf keeps keys[:mid] and copies keys[mid] up as the separator, so the
// separator stays in the right half. An internal node promotes keys[mid]
// and keeps it in neither half.
func (tree *BPlusTree[K, V]) split(id nodeID) {
	for {
		n := tree.node(id)
		if !n.isOverflow() {
			return
		}

		mid := tree.meta.order / 2
		siblingID := tree.alloc(n.isLeaf())
		sibling := tree.node(siblingID)
		sibling.parent = n.parent

		separator := n.keys[mid]
		if n.isLeaf() {
			sibling.keys = append(sibling.keys, n.keys[mid:]...)
			sibling.values = append(sibling.values, n.values[mid:]...)
			clear(n.keys[mid:])
			clear(n.values[mid:])
			n.keys = n.keys[:mid]
			n.values = n.values[:mid]

			sibling.next = n.next
			n.next = siblingID
		} else {
			sibling.keys = append(sibling.keys, n.keys[mid+1:]...)
			sibling.children = append(sibling.children, n.children[mid+1:]...)
			for _, childID := range sibling.children {
				child := tree.node(childID)
				if child.parent != id {
					panic(errors.Errorf("[split] child %v has wrong parent before move", child))
				}
				child.parent = siblingID
			}

			clear(n.keys[mid:])
			n.keys = n.keys[:mid]
			n.children = n.children[:mid+1]
		}

		if n.isRoot() {
			rootID := tree.alloc(false)
			root := tree.node(rootID)
			root.keys = append(root.keys, separator)
			root.children = append(root.children, id, siblingID)
			n.parent = rootID
			sibling.parent = rootID
			tree.root = rootID
			return
		}

		parentID := n.parent
		parent := tree.node(parentID)
		idx := parent.lowerBound(separator, tree.compare)
		parent.insertKey(idx, separator)
		parent.insertChild(idx+1, siblingID)

		if len(parent.children) != len(parent.keys)+1 {
			panic(errors.Errorf("[split] parent %v has %d keys but %d children", parent, len(parent.keys), len(parent.children)))
		}

		id = parentID
	}
}

package bptree

import (
	"testing"

	"go-bptdb/util/helpers"
)

func testNode(keys ...string) *node[string, int] {
	n := &node[string, int]{
		meta:   &metadata{order: 4, maxKeys: 3, minKeys: 1},
		leaf:   true,
		parent: nilNode,
		next:   nilNode,
	}
	for i, k := range keys {
		n.insertEntry(i, k, i)
	}
	return n
}

func Test_node_Search(t *testing.T) {
	n := testNode("A", "B", "C", "D", "E", "F", "G")
	cmp := helpers.Compare[string]

	idx, found := n.search("D", cmp)
	assert(t, found, "expected key to exist")
	assert(t, idx == 3, "expected index to be 3 not %d", idx)

	idx, found = n.search("A", cmp)
	assert(t, found, "expected key to exist")
	assert(t, idx == 0, "expected index to be 0 not %d", idx)

	idx, found = n.search("G", cmp)
	assert(t, found, "expected key to exist")
	assert(t, idx == 6, "expected index to be 6 not %d", idx)

	idx, found = n.search("X", cmp)
	assert(t, !found, "expected key to not exist")
	assert(t, idx == 7, "expected insertion index to be 7 not %d", idx)

	idx, found = n.search("BB", cmp)
	assert(t, !found, "expected key to not exist")
	assert(t, idx == 2, "expected insertion index to be 2 not %d", idx)
}

func Test_node_Bounds(t *testing.T) {
	n := testNode("B", "D", "F")
	cmp := helpers.Compare[string]

	assert(t, n.lowerBound("D", cmp) == 1, "lowerBound(D) = %d", n.lowerBound("D", cmp))
	assert(t, n.upperBound("D", cmp) == 2, "upperBound(D) = %d", n.upperBound("D", cmp))
	assert(t, n.upperBound("A", cmp) == 0, "upperBound(A) = %d", n.upperBound("A", cmp))
	assert(t, n.upperBound("F", cmp) == 3, "upperBound(F) = %d", n.upperBound("F", cmp))
	assert(t, n.upperBound("E", cmp) == 2, "upperBound(E) = %d", n.upperBound("E", cmp))
}

func Test_node_Occupancy(t *testing.T) {
	n := testNode("A")
	assert(t, !n.isFull(), "1 of 3 keys is not full")
	assert(t, !n.isUnderflow(1), "root never underflows")
	assert(t, !n.hasExcessKeys(1), "1 key has no excess over 1")

	n.parent = 0
	n.removeEntry(0)
	assert(t, n.isUnderflow(1), "non-root with 0 keys underflows")

	for i, k := range []string{"A", "B", "C"} {
		n.insertEntry(i, k, i)
	}
	assert(t, n.isFull(), "3 of 3 keys is full")
	assert(t, n.hasExcessKeys(1), "3 keys have excess over 1")
	assert(t, !n.isOverflow(), "3 of 3 keys is not overflow")

	n.insertEntry(3, "D", 3)
	assert(t, n.isOverflow(), "4 of 3 keys is overflow")
}

func Test_node_InsertRemove(t *testing.T) {
	n := testNode("A", "C")
	n.insertEntry(1, "B", 10)
	assert(t, n.String() == "Node(L, K:[A, B, C])", "got %s", n.String())
	assert(t, n.values[1] == 10, "value moved with key")

	k, v := n.removeEntry(0)
	assert(t, k == "A" && v == 0, "removed %s=%d", k, v)
	assert(t, n.String() == "Node(L, K:[B, C])", "got %s", n.String())

	n.leaf = false
	n.insertChild(0, 5)
	n.insertChild(0, 4)
	n.insertChild(2, 6)
	assert(t, n.childIndex(6) == 2, "child 6 at %d", n.childIndex(6))
	assert(t, n.removeChild(0) == 4, "removed first child")
	assert(t, n.childIndex(4) == -1, "child 4 is gone")
}

func assert(t *testing.T, cond bool, msg string, args ...interface{}) {
	t.Helper()
	if cond {
		return
	}
	t.Errorf(msg, args...)
}

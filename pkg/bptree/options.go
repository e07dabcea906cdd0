package bptree

// MinOrder is the smallest order a tree can be constructed with.
const MinOrder = 3

// DefaultOrder is used by callers that do not pick an order themselves.
const DefaultOrder = 8

// CompareFunc returns a negative number when a < b, zero when a == b and a
// positive number when a > b. It must define a total order over keys.
type CompareFunc[K any] func(a, b K) int

// metadata holds the occupancy bounds shared by every node of one tree.
type metadata struct {
	order   int // maximum number of children of an internal node
	maxKeys int // order - 1
	minKeys int // ceil(order/2) - 1, not applied to the root
}

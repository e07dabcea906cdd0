// Package kvstore defines the ordered key-value contract shared by the B+ tree
// and the structures it is benchmarked against.
package kvstore

// Entry is a single key-value pair as returned by ordered scans.
type Entry[K, V any] struct {
	Key K
	Val V
}

// Store is an ordered key-value store. Delete and Update report whether the
// key existed; absence is not an error.
type Store[K, V any] interface {
	Insert(key K, val V) error
	Search(key K) (V, bool)
	Delete(key K) bool
	Update(key K, val V) bool
	RangeQuery(start, end K) []Entry[K, V]
	GetAll() []Entry[K, V]
	Len() int
}

// Keys returns the keys of entries in order.
func Keys[K, V any](entries []Entry[K, V]) []K {
	keys := make([]K, len(entries))
	for i := range entries {
		keys[i] = entries[i].Key
	}
	return keys
}

// Values returns the values of entries in order.
func Values[K, V any](entries []Entry[K, V]) []V {
	vals := make([]V, len(entries))
	for i := range entries {
		vals[i] = entries[i].Val
	}
	return vals
}

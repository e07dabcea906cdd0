// Package bruteforce implements the unindexed baseline the B+ tree is
// measured against: an append-only list of pairs searched linearly.
package bruteforce

import (
	"unsafe"

	"go-bptdb/pkg/kvstore"
)

var _ kvstore.Store[int, string] = (*Store[int, string])(nil)

// Store keeps pairs in insertion order. Insert does not check for duplicate
// keys, lookups act on the first occurrence of a key.
type Store[K, V any] struct {
	compare func(a, b K) int
	data    []kvstore.Entry[K, V]
}

func New[K, V any](compare func(a, b K) int) *Store[K, V] {
	return &Store[K, V]{compare: compare}
}

// Insert appends the pair. It never fails.
func (s *Store[K, V]) Insert(key K, val V) error {
	s.data = append(s.data, kvstore.Entry[K, V]{Key: key, Val: val})
	return nil
}

func (s *Store[K, V]) Search(key K) (V, bool) {
	if i := s.index(key); i >= 0 {
		return s.data[i].Val, true
	}
	var zero V
	return zero, false
}

// Delete removes the first occurrence of key.
func (s *Store[K, V]) Delete(key K) bool {
	i := s.index(key)
	if i < 0 {
		return false
	}
	copy(s.data[i:], s.data[i+1:])
	s.data[len(s.data)-1] = kvstore.Entry[K, V]{}
	s.data = s.data[:len(s.data)-1]
	return true
}

// Update replaces the value of the first occurrence of key.
func (s *Store[K, V]) Update(key K, val V) bool {
	i := s.index(key)
	if i < 0 {
		return false
	}
	s.data[i].Val = val
	return true
}

// RangeQuery returns pairs with keys in [start, end] in insertion order.
func (s *Store[K, V]) RangeQuery(start, end K) []kvstore.Entry[K, V] {
	result := []kvstore.Entry[K, V]{}
	for _, e := range s.data {
		if s.compare(e.Key, start) >= 0 && s.compare(e.Key, end) <= 0 {
			result = append(result, e)
		}
	}
	return result
}

// GetAll returns a copy of all pairs in insertion order.
func (s *Store[K, V]) GetAll() []kvstore.Entry[K, V] {
	return append([]kvstore.Entry[K, V]{}, s.data...)
}

func (s *Store[K, V]) Len() int { return len(s.data) }

// MemoryUsage estimates the bytes held by the backing slice. Memory
// referenced by keys and values (string bytes, pointers) is not counted.
func (s *Store[K, V]) MemoryUsage() uintptr {
	var e kvstore.Entry[K, V]
	return unsafe.Sizeof(*s) + uintptr(cap(s.data))*unsafe.Sizeof(e)
}

func (s *Store[K, V]) index(key K) int {
	for i := range s.data {
		if s.compare(s.data[i].Key, key) == 0 {
			return i
		}
	}
	return -1
}

// Package gbtree adapts github.com/google/btree to the kvstore contract so
// it can be benchmarked next to the B+ tree.
package gbtree

import (
	"go-bptdb/pkg/customerrors"
	"go-bptdb/pkg/kvstore"

	"github.com/google/btree"
	"github.com/pkg/errors"
)

var _ kvstore.Store[int, string] = (*Store[int, string])(nil)

// Store is an ordered map on top of a google/btree BTreeG.
type Store[K, V any] struct {
	compare func(a, b K) int
	tree    *btree.BTreeG[kvstore.Entry[K, V]]
}

// New creates a store whose nodes hold up to order children, matching the
// meaning of order in the B+ tree. google/btree counts in degrees, where a
// node holds at most 2*degree children.
func New[K, V any](order int, compare func(a, b K) int) *Store[K, V] {
	degree := order / 2
	if degree < 2 {
		degree = 2
	}

	return &Store[K, V]{
		compare: compare,
		tree: btree.NewG(degree, func(a, b kvstore.Entry[K, V]) bool {
			return compare(a.Key, b.Key) < 0
		}),
	}
}

func (s *Store[K, V]) Insert(key K, val V) error {
	item := kvstore.Entry[K, V]{Key: key, Val: val}
	if s.tree.Has(item) {
		return errors.Wrapf(customerrors.ErrKeyExists, "key '%v'", key)
	}
	s.tree.ReplaceOrInsert(item)
	return nil
}

func (s *Store[K, V]) Search(key K) (V, bool) {
	item, found := s.tree.Get(kvstore.Entry[K, V]{Key: key})
	return item.Val, found
}

func (s *Store[K, V]) Delete(key K) bool {
	_, found := s.tree.Delete(kvstore.Entry[K, V]{Key: key})
	return found
}

func (s *Store[K, V]) Update(key K, val V) bool {
	item := kvstore.Entry[K, V]{Key: key, Val: val}
	if !s.tree.Has(item) {
		return false
	}
	s.tree.ReplaceOrInsert(item)
	return true
}

func (s *Store[K, V]) RangeQuery(start, end K) []kvstore.Entry[K, V] {
	result := []kvstore.Entry[K, V]{}
	s.tree.AscendGreaterOrEqual(kvstore.Entry[K, V]{Key: start}, func(item kvstore.Entry[K, V]) bool {
		if s.compare(item.Key, end) > 0 {
			return false
		}
		result = append(result, item)
		return true
	})
	return result
}

func (s *Store[K, V]) GetAll() []kvstore.Entry[K, V] {
	result := make([]kvstore.Entry[K, V], 0, s.tree.Len())
	s.tree.Ascend(func(item kvstore.Entry[K, V]) bool {
		result = append(result, item)
		return true
	})
	return result
}

func (s *Store[K, V]) Len() int { return s.tree.Len() }

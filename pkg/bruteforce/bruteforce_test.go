package bruteforce

import (
	"testing"

	"go-bptdb/pkg/kvstore"
	"go-bptdb/util/helpers"

	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	s := New[int, string](helpers.Compare[int])
	require.Zero(t, s.Len())

	for _, k := range []int{5, 1, 3, 1} {
		require.NoError(t, s.Insert(k, "v"))
	}
	require.Equal(t, 4, s.Len())
	require.Equal(t, []int{5, 1, 3, 1}, kvstore.Keys(s.GetAll()))

	require.True(t, s.Update(1, "first"))
	v, found := s.Search(1)
	require.True(t, found)
	require.Equal(t, "first", v)

	require.Equal(t, []int{1, 3, 1}, kvstore.Keys(s.RangeQuery(1, 3)))
	require.Equal(t, []string{"first", "v", "v"}, kvstore.Values(s.RangeQuery(1, 3)))
	require.Empty(t, s.RangeQuery(6, 9))

	require.True(t, s.Delete(1))
	require.Equal(t, []int{5, 3, 1}, kvstore.Keys(s.GetAll()))
	v, _ = s.Search(1)
	require.Equal(t, "v", v)

	require.False(t, s.Delete(42))
	require.False(t, s.Update(42, "x"))
	_, found = s.Search(42)
	require.False(t, found)

	require.Greater(t, s.MemoryUsage(), uintptr(0))
}

func TestGetAllIsCopy(t *testing.T) {
	s := New[int, int](helpers.Compare[int])
	require.NoError(t, s.Insert(1, 1))
	all := s.GetAll()
	all[0].Val = 100
	v, _ := s.Search(1)
	require.Equal(t, 1, v)
}

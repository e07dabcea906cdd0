package stack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStack(t *testing.T) {
	s := New[int](2)
	require.True(t, s.Empty())

	s.Push(1, 2, 3)
	require.Equal(t, 3, s.Size())
	require.Equal(t, 3, s.Top())
	require.Equal(t, 3, s.Pop())
	require.Equal(t, 2, s.Pop())

	s.Push(4)
	require.Equal(t, 4, s.Pop())
	require.Equal(t, 1, s.Pop())
	require.True(t, s.Empty())

	require.PanicsWithValue(t, ErrEmptyStack, func() { s.Pop() })
	require.PanicsWithValue(t, ErrEmptyStack, func() { s.Top() })
}

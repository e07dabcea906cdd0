package helpers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinMax(t *testing.T) {
	require.Equal(t, 1, Min(3, 1, 2))
	require.Equal(t, 3, Max(3, 1, 2))
	require.Equal(t, "a", Min("b", "a", "c"))
	require.Equal(t, 2.5, Max(1.0, 2.5, -4.0))
}

func TestCompare(t *testing.T) {
	require.Equal(t, -1, Compare(1, 2))
	require.Equal(t, 0, Compare(2, 2))
	require.Equal(t, 1, Compare(3, 2))
	require.Equal(t, -1, Compare("abc", "abd"))
}

func TestCeilDiv(t *testing.T) {
	require.Equal(t, 2, CeilDiv(3, 2))
	require.Equal(t, 2, CeilDiv(4, 2))
	require.Equal(t, 3, CeilDiv(5, 2))
	require.Equal(t, 1, CeilDiv(1, 8))
}

func TestHasExt(t *testing.T) {
	require.True(t, HasExt("state.db", ".db", ".sqlite"))
	require.True(t, HasExt("dir/STATE.SQLITE", ".db", ".sqlite"))
	require.False(t, HasExt("state.json", ".db", ".sqlite"))
	require.False(t, HasExt("state", ".db"))
}

func TestCreateParentDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a", "b", "state.json")
	require.NoError(t, CreateParentDir(file))
	require.DirExists(t, filepath.Join(dir, "a", "b"))
	require.NoError(t, CreateParentDir("state.json"))
}

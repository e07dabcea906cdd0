package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	prev := L.GetLevel()
	defer L.SetLevel(prev)

	require.NoError(t, SetLevel("debug"))
	require.Equal(t, logrus.DebugLevel, L.GetLevel())

	require.NoError(t, SetLevel(""))
	require.Equal(t, logrus.DebugLevel, L.GetLevel())

	require.Error(t, SetLevel("loud"))
	require.Equal(t, logrus.DebugLevel, L.GetLevel())
}

func TestFor(t *testing.T) {
	e := For("table")
	require.Equal(t, "table", e.Data["prefix"])
}

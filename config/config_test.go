package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, New(), cfg)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 8, cfg.Storage.DefaultOrder)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
storage:
  snapshot_path: out/state.db
bench:
  sizes: [100, 200]
  seed: 7
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "out/state.db", cfg.Storage.SnapshotPath)
	require.Equal(t, 8, cfg.Storage.DefaultOrder)
	require.Equal(t, []int{100, 200}, cfg.Bench.Sizes)
	require.Equal(t, int64(7), cfg.Bench.Seed)
	require.Equal(t, []int{5, 10, 50}, cfg.Bench.Orders)
	require.Equal(t, 0.3, cfg.Bench.MixFactor)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "log: [unclosed"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "storage:\n  default_order: 2\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "bench:\n  orders: [4, 1]\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "bench:\n  delete_percent: 150\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "bench:\n  delete_percent: -5\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "bench:\n  mix_factor: -0.5\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "bench:\n  range_queries: -1\n"))
	require.Error(t, err)

	_, err = Load(writeConfig(t, "storage:\n  default_order: 0\n"))
	require.Error(t, err)
}

func TestLoadKeepsExplicitZero(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
bench:
  delete_percent: 0
  range_queries: 0
  mix_factor: 0
`))
	require.NoError(t, err)
	require.Equal(t, 0, cfg.Bench.DeletePercent)
	require.Equal(t, 0, cfg.Bench.RangeQueries)
	require.Equal(t, 0.0, cfg.Bench.MixFactor)
	require.Equal(t, int64(42), cfg.Bench.Seed)

	cfg, err = Load(writeConfig(t, "bench:\nlog:\n"))
	require.NoError(t, err)
	require.Equal(t, New().Bench, cfg.Bench)
	require.Equal(t, "info", cfg.Log.Level)
}

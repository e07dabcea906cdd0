package config

import "go-bptdb/pkg/bptree"

type LogConfig struct {
	Level string `yaml:"level"`
}

func NewLogConfig() *LogConfig {
	return &LogConfig{
		Level: "info",
	}
}

type StorageConfig struct {
	// SnapshotPath is where the demo saves its state. A .db or .sqlite
	// extension selects the SQLite format.
	SnapshotPath string `yaml:"snapshot_path"`
	DefaultOrder int    `yaml:"default_order"`
}

func NewStorageConfig() *StorageConfig {
	return &StorageConfig{
		SnapshotPath: "data/state.json",
		DefaultOrder: bptree.DefaultOrder,
	}
}

type BenchConfig struct {
	Sizes         []int   `yaml:"sizes"`
	Orders        []int   `yaml:"orders"`
	Seed          int64   `yaml:"seed"`
	DeletePercent int     `yaml:"delete_percent"`
	MixFactor     float64 `yaml:"mix_factor"`
	RangeQueries  int     `yaml:"range_queries"`
}

func NewBenchConfig() *BenchConfig {
	return &BenchConfig{
		Sizes:         []int{1000, 10000, 50000},
		Orders:        []int{5, 10, 50},
		Seed:          42,
		DeletePercent: 20,
		MixFactor:     0.3,
		RangeQueries:  50,
	}
}

package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Log     *LogConfig     `yaml:"log"`
	Storage *StorageConfig `yaml:"storage"`
	Bench   *BenchConfig   `yaml:"bench"`
}

func New() *AppConfig {
	return &AppConfig{
		Log:     NewLogConfig(),
		Storage: NewStorageConfig(),
		Bench:   NewBenchConfig(),
	}
}

// Load reads the YAML file at path over the defaults. Settings missing
// from the file keep their default value.
func Load(path string) (*AppConfig, error) {
	cfg := New()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config '%s'", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse config '%s'", path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config '%s'", path)
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Storage.DefaultOrder < 3 {
		return errors.Errorf("storage.default_order must be at least 3, got %d", c.Storage.DefaultOrder)
	}
	for _, o := range c.Bench.Orders {
		if o < 3 {
			return errors.Errorf("bench.orders must be at least 3, got %d", o)
		}
	}
	for _, s := range c.Bench.Sizes {
		if s < 1 {
			return errors.Errorf("bench.sizes must be positive, got %d", s)
		}
	}
	if c.Bench.DeletePercent < 0 || c.Bench.DeletePercent > 100 {
		return errors.Errorf("bench.delete_percent must be within [0, 100], got %d", c.Bench.DeletePercent)
	}
	if c.Bench.MixFactor < 0 {
		return errors.Errorf("bench.mix_factor must not be negative, got %v", c.Bench.MixFactor)
	}
	if c.Bench.RangeQueries < 0 {
		return errors.Errorf("bench.range_queries must not be negative, got %d", c.Bench.RangeQueries)
	}
	return nil
}

// applyDefaults restores sections set to null and empty strings or lists.
// Numbers present in the file are kept as written, zero included.
func (c *AppConfig) applyDefaults() {
	def := New()
	if c.Log == nil {
		c.Log = def.Log
	}
	if c.Storage == nil {
		c.Storage = def.Storage
	}
	if c.Bench == nil {
		c.Bench = def.Bench
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Storage.SnapshotPath == "" {
		c.Storage.SnapshotPath = def.Storage.SnapshotPath
	}
	if len(c.Bench.Sizes) == 0 {
		c.Bench.Sizes = def.Bench.Sizes
	}
	if len(c.Bench.Orders) == 0 {
		c.Bench.Orders = def.Bench.Orders
	}
}

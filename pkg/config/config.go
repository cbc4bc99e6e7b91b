// Package config loads engine settings from a TOML file.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// EngineConfig controls query evaluation behavior.
type EngineConfig struct {
	// SumAllNullAsZero makes SUM over an all-NULL group return 0 instead
	// of NULL.
	SumAllNullAsZero bool `toml:"sum_all_null_as_zero"`

	// Parallelism is the number of grouping partitions. Values below 2
	// keep aggregation single-threaded.
	Parallelism int `toml:"parallelism"`
}

// LogConfig controls the structured logger and file rotation.
type LogConfig struct {
	Level      string `toml:"level"`
	Filename   string `toml:"filename"`
	MaxSize    int    `toml:"max_size"`
	MaxDays    int    `toml:"max_days"`
	MaxBackups int    `toml:"max_backups"`
}

// Config is the root of the TOML configuration file.
type Config struct {
	Engine EngineConfig `toml:"engine"`
	Log    LogConfig    `toml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			SumAllNullAsZero: false,
			Parallelism:      1,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSize:    512,
			MaxDays:    0,
			MaxBackups: 0,
		},
	}
}

// Load reads a TOML file over the defaults. Keys absent from the file
// keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Engine.Parallelism < 0 {
		return nil, fmt.Errorf("config %s: parallelism cannot be negative", path)
	}
	return cfg, nil
}

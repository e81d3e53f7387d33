// ============================================================================
// Worker Pool - Configuration Loading
// ============================================================================
//
// Package: internal/config
// Purpose: YAML-backed configuration for the poolctl embedding program.
//
// Mirrors the teacher repo's nested, yaml-tagged Config struct
// (internal/cli/cli.go's Config, cmd/demo/main.go's loadConfig) but scoped
// to the worker pool's own knobs instead of WAL/snapshot settings.
//
// ============================================================================

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete poolctl configuration structure, loaded from a
// YAML file via Load.
type Config struct {
	Pool struct {
		Mode           string        `yaml:"mode"`            // "fixed" or "cached"
		InitialWorkers int           `yaml:"initial_workers"` // workers spawned at Start
		MaxWorkers     int           `yaml:"max_workers"`     // cached-mode ceiling
		QueueCapacity  int           `yaml:"queue_capacity"`  // bounded task queue size
		IdleLimit      time.Duration `yaml:"idle_limit"`      // cached-mode surplus idle window
		SubmitTimeout  time.Duration `yaml:"submit_timeout"`  // Submit's bounded wait for capacity
	} `yaml:"pool"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
		Port    int  `yaml:"port"`
	} `yaml:"metrics"`
}

// Default returns the configuration poolctl uses when no file is present:
// fixed mode, the pool package's own built-in defaults, metrics disabled.
func Default() *Config {
	cfg := &Config{}
	cfg.Pool.Mode = "fixed"
	cfg.Pool.InitialWorkers = 4
	cfg.Pool.MaxWorkers = 100
	cfg.Pool.QueueCapacity = 1024
	cfg.Pool.IdleLimit = 60 * time.Second
	cfg.Pool.SubmitTimeout = 1 * time.Second
	cfg.Metrics.Enabled = false
	cfg.Metrics.Port = 9090
	return cfg
}

// Load reads and parses a YAML config file at path. A missing file is not
// an error: Default() is returned instead, matching the teacher's
// tolerance for running without a config file present.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

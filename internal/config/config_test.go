package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "fixed", cfg.Pool.Mode)
	assert.Equal(t, 4, cfg.Pool.InitialWorkers)
	assert.Equal(t, 100, cfg.Pool.MaxWorkers)
	assert.Equal(t, 1024, cfg.Pool.QueueCapacity)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pool.yaml")
	content := `
pool:
  mode: cached
  initial_workers: 2
  max_workers: 16
  queue_capacity: 256
  idle_limit: 30s
  submit_timeout: 500ms
metrics:
  enabled: true
  port: 9100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cached", cfg.Pool.Mode)
	assert.Equal(t, 2, cfg.Pool.InitialWorkers)
	assert.Equal(t, 16, cfg.Pool.MaxWorkers)
	assert.Equal(t, 256, cfg.Pool.QueueCapacity)
	assert.Equal(t, 30*time.Second, cfg.Pool.IdleLimit)
	assert.Equal(t, 500*time.Millisecond, cfg.Pool.SubmitTimeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9100, cfg.Metrics.Port)
}

func TestLoadInvalidYAMLFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pool: [this is not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

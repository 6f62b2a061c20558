package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlannerMissingFile(t *testing.T) {
	cfg, err := LoadPlanner(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPlanner(), cfg)
}

func TestLoadPlannerOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aoeplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
seed: 42
workers: 0
scenarios: [a.yaml, b.yaml]
database:
  host: db
  dbname: plans
catalog:
  enabled: true
`), 0o644))

	cfg, err := LoadPlanner(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 1, cfg.Workers, "workers are clamped to one")
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, cfg.Scenarios)
	assert.True(t, cfg.Catalog.Enabled)
	assert.False(t, cfg.Catalog.Sync)
	assert.Equal(t, "postgres://gridai:gridai@db:5432/plans?sslmode=disable", cfg.Database.DSN())
}

func TestLoadPlannerBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("seed: [nope"), 0o644))

	_, err := LoadPlanner(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is the pre-Go-1.24 equivalent of t.Chdir.
func chdir(t *testing.T, dir string) {
	t.Helper()
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "co2_emissions.csv", cfg.Inputs.CO2.Path)
	assert.Equal(t, "poverty.csv", cfg.Inputs.Poverty.Path)
	assert.Equal(t, "revenue_gap.csv", cfg.Inputs.Revenue.Path)
	assert.Empty(t, cfg.Inputs.Fertility.Path)
	assert.Equal(t, 0, cfg.Inputs.CO2.Year)
	assert.Equal(t, 4, cfg.Cluster.K)
	assert.Equal(t, int64(42), cfg.Cluster.Seed)
	assert.Equal(t, 100, cfg.Cluster.MaxIterations)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, "NAME", cfg.Geo.NameField)
	assert.Equal(t, "cfi_runs.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(`
inputs:
  co2:
    path: data/emissions.csv
    year: 2019
cluster:
  k: 6
  seed: 7
output:
  dir: artifacts
`), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/emissions.csv", cfg.Inputs.CO2.Path)
	assert.Equal(t, 2019, cfg.Inputs.CO2.Year)
	assert.Equal(t, 6, cfg.Cluster.K)
	assert.Equal(t, int64(7), cfg.Cluster.Seed)
	assert.Equal(t, "artifacts", cfg.Output.Dir)
	// Untouched keys keep their defaults.
	assert.Equal(t, "poverty.csv", cfg.Inputs.Poverty.Path)
}

func TestLoad_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CFI_CLUSTER_K", "8")
	t.Setenv("CFI_OUTPUT_DIR", "envout")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Cluster.K)
	assert.Equal(t, "envout", cfg.Output.Dir)
}

func TestInitLogger_BadLevel(t *testing.T) {
	assert.Error(t, InitLogger(LogConfig{Level: "nope", Format: "json"}))
}

func TestInitLogger_Console(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_ExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ontomap.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = 9000

[engine]
max_sample_rows = 25

[log]
debug = true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 32, cfg.Server.MaxUploadMB)
	assert.Equal(t, 25, cfg.Engine.MaxSampleRows)
	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, 25, cfg.DatasetOptions().MaxSampleRows)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("ONTOMAP_PORT", "7000")
	t.Setenv("ONTOMAP_MAX_SAMPLE_ROWS", "10")
	t.Setenv("ONTOMAP_LOG_FILE", "ontomap.log")

	path := filepath.Join(t.TempDir(), "ontomap.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = 9000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Engine.MaxSampleRows)
	assert.Equal(t, "ontomap.log", cfg.Log.File)

	t.Setenv("ONTOMAP_PORT", "seventy")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport="), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ontomap.toml")

	cfg := DefaultConfig()
	cfg.Engine.CatalogPath = "catalog.yaml"
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadOntology(t *testing.T) {
	cat, syn, err := DefaultConfig().LoadOntology()
	require.NoError(t, err)
	assert.NotEmpty(t, cat.Required())
	assert.NotEmpty(t, syn.For("work_order_number"))

	cfg := DefaultConfig()
	cfg.Engine.CatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, _, err = cfg.LoadOntology()
	assert.Error(t, err)
}

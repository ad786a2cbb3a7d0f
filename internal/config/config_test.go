package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Koson7970/wood-strength-prediction-model/internal/timber"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	opts, err := cfg.TimberOptions()
	require.NoError(t, err)
	assert.Equal(t, timber.DefaultOptions(), opts)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "seed: 7\nwidth_class: wide\nworkers: 4\ncolumns: 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "timbermatch.yaml"), []byte(yaml), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, int32(7), cfg.Seed)
	assert.Equal(t, "wide", cfg.WidthClass)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 3, cfg.Columns)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "timbermatch.yaml"), []byte("workers: 4\n"), 0644))
	t.Setenv("TIMBERMATCH_WORKERS", "8")
	t.Setenv("TIMBERMATCH_ADDR", ":9090")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, ":9090", cfg.Addr)
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TIMBERMATCH_LOG_LEVEL=debug\n"), 0644))
	// godotenv sets process variables; restore afterwards
	t.Setenv("TIMBERMATCH_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("TIMBERMATCH_LOG_LEVEL"))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"width class", func(c *Config) { c.WidthClass = "huge" }},
		{"workers", func(c *Config) { c.Workers = -1 }},
		{"columns", func(c *Config) { c.Columns = 0 }},
		{"rate", func(c *Config) { c.RateLimit = 0 }},
		{"burst", func(c *Config) { c.RateBurst = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "timbermatch.yaml"), []byte("columns: -2\n"), 0644))
	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrInvalid)
}

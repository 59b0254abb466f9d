package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".daybook"), cfg.Storage.DataDir)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "daybook:", cfg.Redis.Prefix)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, time.Second, cfg.Autosave.Delay)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DAYBOOK_STORAGE_BACKEND", "redis")
	t.Setenv("DAYBOOK_REDIS_ADDR", "cache:6380")
	t.Setenv("DAYBOOK_AUTOSAVE_DELAY", "250ms")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Autosave.Delay)
}

func TestLoadConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	file := filepath.Join(dir, "daybook.yaml")
	require.NoError(t, os.WriteFile(file, []byte("storage:\n  backend: files\nlog:\n  format: json\n"), 0644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend", "", "")
	flags.String("data-dir", "", "")
	flags.String("log-level", "", "")
	require.NoError(t, flags.Parse([]string{"--data-dir", filepath.Join(dir, "data"), "--log-level", "debug"}))

	cfg, err := Load(Options{ConfigFile: file, Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "files", cfg.Storage.Backend)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.Storage.DataDir)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingNamedConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := Config{
		Storage:  StorageConfig{Backend: "sqlite", DataDir: "/tmp/x"},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Log:      LogConfig{Level: "info", Format: "console"},
		Autosave: AutosaveConfig{Delay: time.Second},
	}
	require.NoError(t, validateConfig(&valid))

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "floppy" }},
		{"sqlite without dir", func(c *Config) { c.Storage.DataDir = "" }},
		{"redis without addr", func(c *Config) { c.Storage.Backend = "redis"; c.Redis.Addr = "" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero autosave", func(c *Config) { c.Autosave.Delay = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, validateConfig(&cfg))
		})
	}
}

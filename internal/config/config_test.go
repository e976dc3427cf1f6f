package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(file, []byte(body), 0o644))
	return file
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NEUROCACHE_DB", "")
	t.Setenv("NEUROCACHE_LOG_LEVEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "neurocache.db", cfg.Path)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("NEUROCACHE_DB", "")
	t.Setenv("NEUROCACHE_LOG_LEVEL", "")

	file := writeConfig(t, "path: /var/lib/agent/memory.db\nlog_level: debug\n")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/agent/memory.db", cfg.Path)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_PartialFile(t *testing.T) {
	t.Setenv("NEUROCACHE_DB", "")
	t.Setenv("NEUROCACHE_LOG_LEVEL", "")

	file := writeConfig(t, "log_level: warn\n")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "neurocache.db", cfg.Path)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NEUROCACHE_DB", "/tmp/env.db")
	t.Setenv("NEUROCACHE_LOG_LEVEL", "error")

	file := writeConfig(t, "path: from-file.db\nlog_level: debug\n")

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.Path)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoad_InvalidYAML(t *testing.T) {
	file := writeConfig(t, "path: [unterminated\n")

	_, err := Load(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

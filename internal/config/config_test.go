package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.pdf")
	require.NoError(t, os.WriteFile(in, []byte("%PDF-1.4"), 0o644))

	cfg := DefaultConfig()
	cfg.InputPath = in
	cfg.OutputPath = filepath.Join(dir, "out.pdf")
	cfg.SidecarPath = cfg.OutputPath + ".json"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.MaxFileSize)
	assert.NotEmpty(t, cfg.Version)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, testConfig(t).Validate())
	})

	t.Run("empty input path", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.InputPath = ""
		assert.ErrorContains(t, cfg.Validate(), "input path")
	})

	t.Run("empty output path", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.OutputPath = ""
		assert.ErrorContains(t, cfg.Validate(), "output path")
	})

	t.Run("missing input file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.InputPath = filepath.Join(t.TempDir(), "nope.pdf")
		assert.ErrorContains(t, cfg.Validate(), "not found")
	})

	t.Run("input is a directory", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.InputPath = t.TempDir()
		assert.ErrorContains(t, cfg.Validate(), "directory")
	})

	t.Run("non-positive max file size", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.MaxFileSize = 0
		assert.ErrorContains(t, cfg.Validate(), "file size")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.LogLevel = "chatty"
		assert.ErrorContains(t, cfg.Validate(), "log level")
	})
}

func TestIsDebug(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.IsDebug())
	cfg.LogLevel = "debug"
	assert.True(t, cfg.IsDebug())
}

func TestString(t *testing.T) {
	cfg := testConfig(t)
	s := cfg.String()
	assert.Contains(t, s, cfg.InputPath)
	assert.Contains(t, s, cfg.OutputPath)
	assert.Contains(t, s, "info")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.True(t, cfg.Settings.DryRun, "dry run should default to true")
		assert.True(t, cfg.Settings.CreateDirs)
		assert.False(t, cfg.Settings.RemoveEmptyDirs)
		assert.Equal(t, "info", cfg.Settings.LogLevel)
	})

	t.Run("values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
settings:
  move_enabled: true
  remove_empty_dirs: true
  create_dirs: true
  dry_run: false
  log_level: debug
watch:
  directories:
    - /tmp/incoming
  rules:
    - match: "*.mkv"
      target: /media/video
    - match: "*.{jpg,png}"
      target: /media/images
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := LoadConfigFile(path)
		require.NoError(t, err)
		assert.False(t, cfg.Settings.DryRun)
		assert.True(t, cfg.Settings.RemoveEmptyDirs)
		assert.Equal(t, "debug", cfg.Settings.LogLevel)
		require.Len(t, cfg.Watch.Rules, 2)
		assert.Equal(t, "*.mkv", cfg.Watch.Rules[0].Match)
		assert.Equal(t, "/media/video", cfg.Watch.Rules[0].Target)
		assert.Equal(t, []string{"/tmp/incoming"}, cfg.Watch.Directories)
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("settings: [not a map"), 0644))

		_, err := LoadConfigFile(path)
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("bad log level", func(t *testing.T) {
		cfg := New()
		cfg.Settings.LogLevel = "loud"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rule without target", func(t *testing.T) {
		cfg := NewTestConfig()
		cfg.Watch.Rules[0].Target = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("rule with invalid glob", func(t *testing.T) {
		cfg := NewTestConfig()
		cfg.Watch.Rules[0].Match = "[unclosed"
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty watch directory", func(t *testing.T) {
		cfg := New()
		cfg.Watch.Directories = []string{""}
		assert.Error(t, cfg.Validate())
	})
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := NewTestConfig()
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Settings, loaded.Settings)
	assert.Equal(t, cfg.Watch.Rules, loaded.Watch.Rules)
}

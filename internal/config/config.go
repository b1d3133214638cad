package config

import (
	"fmt"
	"os"
	"path/filepath"

	"relocd/pkg/types"

	"github.com/gobwas/glob"
	"gopkg.in/yaml.v3"
)

// Settings holds the behavioral switches for move operations.
type Settings struct {
	// MoveEnabled gates the versioned-duplicate placement: when a move
	// carries a version index and MoveEnabled is true, the file lands in a
	// "duplicates" subdirectory of its destination.
	MoveEnabled bool `yaml:"move_enabled"`
	// RemoveEmptyDirs removes source directories left empty by a move,
	// walking upward until a non-empty ancestor is found.
	RemoveEmptyDirs bool `yaml:"remove_empty_dirs"`
	// CreateDirs creates destination directories that do not exist yet.
	CreateDirs bool `yaml:"create_dirs"`
	// DryRun logs what would be moved without touching the filesystem.
	DryRun bool `yaml:"dry_run"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// WatchConfig holds daemon settings: which directories to watch and the
// rules mapping incoming files to their destination directories.
type WatchConfig struct {
	Directories []string     `yaml:"directories"`
	Rules       []types.Rule `yaml:"rules"`
}

// Config represents the application configuration structure.
type Config struct {
	Settings Settings    `yaml:"settings"`
	Watch    WatchConfig `yaml:"watch"`
}

// LoadConfig loads configuration from the default location
// (~/.config/relocd/config.yaml).
func LoadConfig() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".config", "relocd", "config.yaml")
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if file doesn't exist
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Unmarshal into a temporary config to preserve defaults for unset fields
	var tempCfg Config
	if err := yaml.Unmarshal(data, &tempCfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	cfg.Settings.MoveEnabled = tempCfg.Settings.MoveEnabled
	cfg.Settings.RemoveEmptyDirs = tempCfg.Settings.RemoveEmptyDirs
	cfg.Settings.CreateDirs = tempCfg.Settings.CreateDirs
	cfg.Settings.DryRun = tempCfg.Settings.DryRun
	if tempCfg.Settings.LogLevel != "" {
		cfg.Settings.LogLevel = tempCfg.Settings.LogLevel
	}

	if len(tempCfg.Watch.Directories) > 0 {
		cfg.Watch.Directories = tempCfg.Watch.Directories
	}
	if len(tempCfg.Watch.Rules) > 0 {
		cfg.Watch.Rules = tempCfg.Watch.Rules
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration with safe defaults.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Settings.MoveEnabled = true
	cfg.Settings.RemoveEmptyDirs = false
	cfg.Settings.CreateDirs = true
	cfg.Settings.DryRun = true // Safe by default
	cfg.Settings.LogLevel = "info"

	cfg.Watch.Directories = []string{}
	cfg.Watch.Rules = []types.Rule{}

	return cfg
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Settings.LogLevel] {
		return fmt.Errorf("invalid log level: %s", c.Settings.LogLevel)
	}

	for i, rule := range c.Watch.Rules {
		if rule.Match == "" {
			return fmt.Errorf("rule %d: match pattern is required", i)
		}
		if _, err := glob.Compile(rule.Match); err != nil {
			return fmt.Errorf("rule %d: invalid match pattern %q: %w", i, rule.Match, err)
		}
		if rule.Target == "" {
			return fmt.Errorf("rule %d: target directory is required", i)
		}
	}

	for i, dir := range c.Watch.Directories {
		if dir == "" {
			return fmt.Errorf("watch directory %d: path cannot be empty", i)
		}
	}

	return nil
}

// NewTestConfig creates a configuration instance for testing purposes.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Settings.DryRun = false
	cfg.Settings.MoveEnabled = true
	cfg.Settings.RemoveEmptyDirs = true
	cfg.Watch.Rules = []types.Rule{
		{Match: "*.txt", Target: "documents"},
		{Match: "*.jpg", Target: "images"},
	}
	return cfg
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

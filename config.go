package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	appName        = "galactic-todo"
	configFileName = "config.yaml"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config is the server configuration, read from an optional YAML file.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
}

// StorageConfig selects where tasks and the theme are kept.
type StorageConfig struct {
	Backend string `yaml:"backend"` // file, sqlite or memory

	// Path is a directory for the file backend and a database file for sqlite.
	Path     string `yaml:"path"`
	TasksKey string `yaml:"tasks_key"`
	ThemeKey string `yaml:"theme_key"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:  BackendFile,
			Path:     filepath.Join("~", ".config", appName, "data"),
			TasksKey: defaultTasksKey,
			ThemeKey: defaultThemeKey,
		},
	}
}

// DefaultConfigPath returns ~/.config/galactic-todo/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, configFileName), nil
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the backend name and that a path is set where one is needed.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendFile, BackendSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the %s backend", c.Storage.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q, want file, sqlite or memory", c.Storage.Backend)
	}
	return nil
}

// OpenStorage builds the KeyValueStore the config names.
func (c *Config) OpenStorage() (KeyValueStore, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Storage.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		p, err := expandHome(c.Storage.Path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(p)
	default:
		p, err := expandHome(c.Storage.Path)
		if err != nil {
			return nil, err
		}
		return NewFileStore(p)
	}
}

// expandHome resolves a leading ~ to the user's home directory.
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// Package config provides centralized configuration for coursemark.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrInvalidConfig  = errors.New("invalid config")
)

// Source kinds selectable in configuration.
const (
	SourceLocal  = "local"
	SourceStatic = "static"
)

// Config holds application-wide configuration.
type Config struct {
	// ListenAddr is the address the API server binds to.
	ListenAddr string `yaml:"listen_addr"`
	// SchemeDir is the directory holding marking scheme files.
	SchemeDir string `yaml:"scheme_dir"`
	// Source describes where history snapshots come from.
	Source Source `yaml:"source"`
}

// Source selects and parameterizes a snapshot backend.
type Source struct {
	// Kind is the backend to use: "local" opens a git repository on
	// disk, "static" loads a snapshot document.
	Kind string `yaml:"kind"`
	// Path is the repository path for "local" or the snapshot file for
	// "static".
	Path string `yaml:"path"`
	// Branch is the default branch to analyze when none is given.
	Branch string `yaml:"branch"`
}

// Default returns the default configuration, reading overrides from
// environment variables.
func Default() *Config {
	listen := os.Getenv("COURSEMARK_LISTEN_ADDR")
	if listen == "" {
		listen = ":8080"
	}
	schemeDir := os.Getenv("COURSEMARK_SCHEME_DIR")
	if schemeDir == "" {
		schemeDir = "schemes"
	}
	return &Config{
		ListenAddr: listen,
		SchemeDir:  schemeDir,
		Source: Source{
			Kind:   SourceLocal,
			Path:   ".",
			Branch: "master",
		},
	}
}

// Load reads configuration from a YAML file, filling unset fields from
// Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Relative paths resolve against the config file location.
	base := filepath.Dir(path)
	if cfg.SchemeDir != "" && !filepath.IsAbs(cfg.SchemeDir) {
		cfg.SchemeDir = filepath.Join(base, cfg.SchemeDir)
	}
	return cfg, nil
}

// Validate checks fields that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceLocal, SourceStatic:
	default:
		return fmt.Errorf("%w: unknown source kind %q", ErrInvalidConfig, c.Source.Kind)
	}
	if c.Source.Path == "" {
		return fmt.Errorf("%w: source path is required", ErrInvalidConfig)
	}
	return nil
}

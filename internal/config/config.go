// Package config manages wit configuration and the .wit directory structure.
// It locates the repository root and handles loading, saving, and
// initializing the repository configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	WitDir           = ".wit"
	ConfigFile       = "config"
	ImagesDir        = "images"
	StagingDir       = "staging_area"
	LedgerFile       = "references.txt"
	MarkerFile       = "activated.txt"
	DefaultIDRetries = 10
)

// Ancestry modes for merge-base search
const (
	AncestryFirstParent = "first-parent"
	AncestryFull        = "full"
)

// ErrNoRepository is returned when no .wit directory exists in any ancestor.
var ErrNoRepository = errors.New("no wit repository found")

// Config represents the wit repository configuration
type Config struct {
	IDRetries int    `toml:"id_retries"`
	Ancestry  string `toml:"ancestry"`
	LogLevel  string `toml:"log_level"`
	root      string // repository root (directory holding .wit)
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	return &Config{
		IDRetries: DefaultIDRetries,
		Ancestry:  AncestryFirstParent,
		LogLevel:  "warn",
	}
}

// FindRoot finds the repository root by walking up from start.
// When includeStart is false the search begins at start's parent.
func FindRoot(start string, includeStart bool) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}

	if !includeStart {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched from %s)", ErrNoRepository, start)
		}
		dir = parent
	}

	for {
		witPath := filepath.Join(dir, WitDir)
		if info, err := os.Stat(witPath); err == nil && info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w (searched from %s)", ErrNoRepository, start)
		}
		dir = parent
	}
}

// Load loads the configuration of the repository rooted at root.
// A missing config file yields the defaults.
func Load(root string) (*Config, error) {
	cfg := Default()
	cfg.root = root

	data, err := os.ReadFile(filepath.Join(root, WitDir, ConfigFile))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configured values are usable
func (c *Config) Validate() error {
	if c.IDRetries < 0 {
		return fmt.Errorf("invalid config: id_retries must be non-negative, got %d", c.IDRetries)
	}
	switch c.Ancestry {
	case AncestryFirstParent, AncestryFull:
	case "":
		c.Ancestry = AncestryFirstParent
	default:
		return fmt.Errorf("invalid config: unknown ancestry mode %q", c.Ancestry)
	}
	return nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(filepath.Join(c.WitPath(), ConfigFile), data, 0644)
}

// Root returns the repository root directory
func (c *Config) Root() string {
	return c.root
}

// WitPath returns the path to the .wit directory
func (c *Config) WitPath() string {
	return filepath.Join(c.root, WitDir)
}

// Initialize creates the .wit directory under root and writes the default
// configuration. An existing repository is left as is.
func Initialize(root string) (*Config, error) {
	witPath := filepath.Join(root, WitDir)
	if err := os.MkdirAll(witPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .wit directory: %w", err)
	}

	if _, err := os.Stat(filepath.Join(witPath, ConfigFile)); err == nil {
		return Load(root)
	}

	cfg := Default()
	cfg.root = root
	if err := cfg.Save(); err != nil {
		return nil, err
	}

	return cfg, nil
}

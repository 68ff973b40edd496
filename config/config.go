// Package config handles planvm.toml runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is a planvm.toml runtime configuration.
type Config struct {
	Memory   Memory   `toml:"memory"`
	Dispatch Dispatch `toml:"dispatch"`
	Trace    Trace    `toml:"trace"`
	Log      Log      `toml:"log"`

	// Dir is the directory containing the planvm.toml file (set at load time).
	Dir string `toml:"-"`
}

// Memory configures program memory.
type Memory struct {
	Capacity int `toml:"capacity"`
}

// Dispatch configures the remote dispatcher.
type Dispatch struct {
	Target string `toml:"target"`
}

// Trace configures the execution trace store.
type Trace struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Log configures logging verbosity.
type Log struct {
	Verbosity int `toml:"verbosity"`
}

// Default returns the configuration used when no planvm.toml exists.
func Default() *Config {
	return &Config{
		Memory: Memory{Capacity: 1024},
		Trace:  Trace{Path: "planvm-trace.db"},
	}
}

// Load parses a planvm.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "planvm.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	c := Default()
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	c.Dir = dir

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return c, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Memory.Capacity <= 0 {
		return fmt.Errorf("memory.capacity must be positive, got %d", c.Memory.Capacity)
	}
	if c.Trace.Enabled && c.Trace.Path == "" {
		return fmt.Errorf("trace.enabled requires trace.path")
	}
	return nil
}

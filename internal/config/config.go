// Package config loads and validates hlsync configuration from TOML files
// and provides live reload when the file changes on disk.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Standard errors returned by configuration loading.
var (
	// ErrInvalidTransport indicates an unknown backend transport kind.
	ErrInvalidTransport = errors.New("invalid backend transport")

	// ErrInvalidPriority indicates a highlight priority out of range.
	ErrInvalidPriority = errors.New("highlight priority out of range")
)

// Config is the top-level hlsync configuration.
type Config struct {
	Backend   Backend   `toml:"backend"`
	Highlight Highlight `toml:"highlight"`
	Log       Log       `toml:"log"`
}

// Backend configures the command channel to the rendering backend.
type Backend struct {
	// Transport selects the connection kind: "stdio" or "tcp".
	Transport string `toml:"transport"`

	// Address is the host:port for the tcp transport. Ignored for stdio.
	Address string `toml:"address"`

	// MarkerCapable overrides capability detection when set: true forces
	// per-marker deletion, false forces whole-line clears.
	MarkerCapable *bool `toml:"marker_capable"`
}

// Highlight configures reconciliation behavior.
type Highlight struct {
	// Priority is passed with every set-entries command; higher values
	// draw over lower ones on the backend.
	Priority int `toml:"priority"`

	// DebounceMS is the quiet period before a requested refresh runs.
	DebounceMS int `toml:"debounce_ms"`
}

// Log configures logging.
type Log struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: Backend{
			Transport: "stdio",
		},
		Highlight: Highlight{
			Priority:   100,
			DebounceMS: 50,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads configuration from path, layered over the defaults. A missing
// file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	switch c.Backend.Transport {
	case "stdio", "tcp":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTransport, c.Backend.Transport)
	}
	if c.Backend.Transport == "tcp" && c.Backend.Address == "" {
		return errors.New("tcp transport requires backend.address")
	}
	if c.Highlight.Priority < 0 || c.Highlight.Priority > 4096 {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, c.Highlight.Priority)
	}
	if c.Highlight.DebounceMS < 0 {
		return errors.New("highlight.debounce_ms must not be negative")
	}
	return nil
}

// Debounce returns the refresh debounce interval as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Highlight.DebounceMS) * time.Millisecond
}

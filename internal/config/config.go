// Package config defines service configuration and its loader.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/shootout/internal/domain/draw"
	"github.com/okian/shootout/internal/domain/tier"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory settlement queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of settlement workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds how many order ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// CatalogPath points at a YAML catalog. Empty uses the embedded one.
	CatalogPath string `koanf:"catalog_path"`

	// DrawScalar picks the draw scalar: legacy or splitmix.
	DrawScalar string `koanf:"draw_scalar"`

	// MaxOrderQuantity caps the items a single order may draw.
	MaxOrderQuantity int `koanf:"max_order_quantity"`

	// MaxTopLimit caps GET /ledger/top?limit.
	MaxTopLimit int `koanf:"max_top_limit"`

	// Tiers replaces rows of the built-in division table.
	Tiers map[string]tier.Bounds `koanf:"tiers"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		QueueSize:        10_000,
		WorkerCount:      runtime.NumCPU() * 2,
		DedupeSize:       50_000,
		DrawScalar:       "legacy",
		MaxOrderQuantity: 50,
		MaxTopLimit:      100,
	}
}

// Validate checks field ranges and that the tier overrides build a table.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.MaxOrderQuantity < 1:
		return fmt.Errorf("%w: max_order_quantity must be positive, got %d", ErrInvalidConfig, c.MaxOrderQuantity)
	case c.MaxTopLimit < 1:
		return fmt.Errorf("%w: max_top_limit must be positive, got %d", ErrInvalidConfig, c.MaxTopLimit)
	}
	if _, ok := draw.ScalarByName(c.DrawScalar); !ok {
		return fmt.Errorf("%w: unknown draw_scalar %q", ErrInvalidConfig, c.DrawScalar)
	}
	if _, err := c.TierTable(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// TierTable builds the division table with the configured overrides applied.
func (c *Config) TierTable() (*tier.Table, error) {
	overrides := make(map[tier.Division]tier.Bounds, len(c.Tiers))
	for name, b := range c.Tiers {
		d, err := tier.Parse(name)
		if err != nil {
			return nil, err
		}
		overrides[d] = b
	}
	return tier.NewTable(overrides)
}

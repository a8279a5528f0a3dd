package renderer

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/df07/go-sphere-tracer/pkg/integrator"
)

// ErrInvalidConfig is returned by NewSession for unusable render settings
var ErrInvalidConfig = errors.New("invalid render config")

// Config contains configuration for progressive rendering
type Config struct {
	Width        int   // Image width in pixels
	Height       int   // Image height in pixels
	Workers      int   // Number of column bands rendered in parallel (0 = use CPU count)
	MaxDepth     int   // Maximum ray bounce depth
	RefreshEvery int   // Rebuild the display after the first pass and every N passes
	Seed         int64 // Base seed for per-band random generators

	// Integrator overrides the default path tracer built from MaxDepth
	Integrator integrator.Integrator

	// Logger receives this session's records. Nil uses the package logger.
	Logger *slog.Logger
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:        400,
		Height:       225,
		Workers:      0, // Auto-detect CPU count
		MaxDepth:     integrator.DefaultMaxDepth,
		RefreshEvery: 10,
		Seed:         42,
	}
}

// normalize fills in defaults and validates the result
func (c Config) normalize() (Config, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return c, fmt.Errorf("%w: image size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Workers < 0 {
		return c, fmt.Errorf("%w: workers %d must not be negative", ErrInvalidConfig, c.Workers)
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.MaxDepth < 0 {
		return c, fmt.Errorf("%w: max depth %d must not be negative", ErrInvalidConfig, c.MaxDepth)
	}
	if c.RefreshEvery <= 0 {
		return c, fmt.Errorf("%w: refresh cadence %d must be positive", ErrInvalidConfig, c.RefreshEvery)
	}
	if c.Integrator == nil {
		c.Integrator = integrator.NewPathTracingIntegrator(c.MaxDepth)
	}
	if c.Logger == nil {
		c.Logger = Logger()
	}
	return c, nil
}

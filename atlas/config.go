package atlas

import (
	"errors"
	"log/slog"
)

// Sentinel errors for atlas packing.
var (
	// ErrAtlasTooLarge is returned when the packed glyphs need a texture taller
	// than Config.MaxHeight.
	ErrAtlasTooLarge = errors.New("atlas: glyphs do not fit in maximum texture height")

	// ErrGlyphTooWide marks a glyph whose cell is wider than the atlas.
	ErrGlyphTooWide = errors.New("atlas: glyph wider than atlas")

	// ErrNilTexture is returned when a Job has no texture.
	ErrNilTexture = errors.New("atlas: nil texture")

	// ErrNilRasterizer is returned when a Job has no rasterizer.
	ErrNilRasterizer = errors.New("atlas: nil rasterizer")

	// ErrNilRanges is returned when a Job has no range table.
	ErrNilRanges = errors.New("atlas: nil range table")
)

// Config holds packer configuration.
type Config struct {
	// Width is the fixed atlas width in pixels.
	// Default: 512
	Width int

	// InitialHeight is the height allocated before packing starts.
	// The height doubles whenever a row does not fit.
	// Default: 64
	InitialHeight int

	// MaxHeight limits atlas growth.
	// Default: 8192
	MaxHeight int

	// Distance is the padding between glyph cells, horizontally and between rows.
	// Default: 0
	Distance int

	// Logger receives packing diagnostics. Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		Width:         512,
		InitialHeight: 64,
		MaxHeight:     8192,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Width <= 0 {
		return &ConfigError{Field: "Width", Reason: "must be positive"}
	}
	if c.InitialHeight <= 0 {
		return &ConfigError{Field: "InitialHeight", Reason: "must be positive"}
	}
	if c.MaxHeight < c.InitialHeight {
		return &ConfigError{Field: "MaxHeight", Reason: "must be at least InitialHeight"}
	}
	if c.Distance < 0 {
		return &ConfigError{Field: "Distance", Reason: "must be non-negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "atlas: invalid config." + e.Field + ": " + e.Reason
}

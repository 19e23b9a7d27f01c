package fontatlas

import (
	"github.com/gogpu/fontatlas/atlas"
	"github.com/gogpu/fontatlas/outline"
	"github.com/gogpu/fontatlas/texture"
)

// Option configures a Font.
type Option func(*config)

// config holds the scalar configuration of a Font.
type config struct {
	source        string
	size          float64
	resolution    int
	defaultHeight int
	spaceWidth    int
	tabWidth      int
	cursorWidth   int
	distance      int
	offsetHeight  int
	antialias     bool
	atlasWidth    int

	texture    texture.Texture
	rasterizer outline.Rasterizer
}

// defaultConfig returns the default font configuration.
func defaultConfig() config {
	return config{
		cursorWidth: 2,
		atlasWidth:  atlas.DefaultConfig().Width,
	}
}

func (c *config) validate() error {
	switch {
	case c.resolution < 0:
		return &ConfigError{Field: "Resolution", Reason: "must be non-negative"}
	case c.resolution > 0 && c.rasterizer == nil && c.size <= 0:
		return &ConfigError{Field: "Size", Reason: "must be positive for outline fonts"}
	case c.defaultHeight < 0:
		return &ConfigError{Field: "DefaultHeight", Reason: "must be non-negative"}
	case c.spaceWidth < 0:
		return &ConfigError{Field: "SpaceWidth", Reason: "must be non-negative"}
	case c.tabWidth < 0:
		return &ConfigError{Field: "TabWidth", Reason: "must be non-negative"}
	case c.cursorWidth < 0:
		return &ConfigError{Field: "CursorWidth", Reason: "must be non-negative"}
	case c.distance < 0:
		return &ConfigError{Field: "Distance", Reason: "must be non-negative"}
	case c.atlasWidth <= 0:
		return &ConfigError{Field: "AtlasWidth", Reason: "must be positive"}
	}
	return nil
}

// WithSource sets the image path (bitmap fonts) or font path or system font
// name (outline fonts).
func WithSource(source string) Option {
	return func(c *config) {
		c.source = source
	}
}

// WithSize sets the outline font size in points.
func WithSize(size float64) Option {
	return func(c *config) {
		c.size = size
	}
}

// WithResolution sets the outline resolution in DPI.
// Zero selects bitmap mode.
func WithResolution(dpi int) Option {
	return func(c *config) {
		c.resolution = dpi
	}
}

// WithDefaultHeight sets the nominal height of the font in pixels.
func WithDefaultHeight(h int) Option {
	return func(c *config) {
		c.defaultHeight = h
	}
}

// WithSpaceWidth sets the width of the space glyph in pixels.
// Zero derives it from the font.
func WithSpaceWidth(w int) Option {
	return func(c *config) {
		c.spaceWidth = w
	}
}

// WithTabWidth sets the width of the tab glyph in pixels.
// Zero means eight spaces.
func WithTabWidth(w int) Option {
	return func(c *config) {
		c.tabWidth = w
	}
}

// WithCursorWidth sets the width of the cursor glyph in pixels.
// Default: 2
func WithCursorWidth(w int) Option {
	return func(c *config) {
		c.cursorWidth = w
	}
}

// WithDistance sets the padding between generated glyph cells in pixels.
func WithDistance(d int) Option {
	return func(c *config) {
		c.distance = d
	}
}

// WithOffsetHeight moves generated glyphs down inside their cells.
func WithOffsetHeight(h int) Option {
	return func(c *config) {
		c.offsetHeight = h
	}
}

// WithAntialias copies glyph coverage into the colour channels of generated
// glyphs.
func WithAntialias(enabled bool) Option {
	return func(c *config) {
		c.antialias = enabled
	}
}

// WithAtlasWidth sets the width of the generated atlas.
// Default: 512
func WithAtlasWidth(w int) Option {
	return func(c *config) {
		c.atlasWidth = w
	}
}

// WithTexture sets the texture the font maps glyphs onto. The font never
// destroys it.
func WithTexture(t texture.Texture) Option {
	return func(c *config) {
		c.texture = t
	}
}

// WithRasterizer sets the rasterizer used in outline mode instead of loading
// the source file.
func WithRasterizer(r outline.Rasterizer) Option {
	return func(c *config) {
		c.rasterizer = r
	}
}

// Package outline turns scalable font outlines into glyph bitmaps for the
// atlas packer.
//
// The packer only depends on the Rasterizer interface. OpenType is the
// default implementation, built on golang.org/x/image/font/opentype.
package outline

import (
	"errors"
	"image"
)

// ErrGlyphUnavailable is returned when the font has no glyph for a code point.
var ErrGlyphUnavailable = errors.New("outline: glyph unavailable")

// Bitmap is a rasterized glyph cell.
type Bitmap struct {
	// Image holds the cell pixels with bounds starting at (0, 0).
	// May be nil for empty cells.
	Image image.Image

	// Width and Height are the cell size in pixels.
	Width, Height int
}

// Rasterizer produces glyph cells at a fixed size and resolution.
type Rasterizer interface {
	// Rasterize renders the cell for code, or returns an error wrapping
	// ErrGlyphUnavailable when the font cannot produce it.
	Rasterize(code rune) (Bitmap, error)

	// LineHeight returns the height of a cell in pixels.
	LineHeight() int

	// Advance returns the horizontal advance of code in whole pixels.
	Advance(code rune) (int, bool)
}

// Colorize converts an alpha mask into a white NRGBA image. When antialias is
// set the colour channels carry the coverage too, otherwise they are opaque
// white and only alpha varies.
func Colorize(mask *image.Alpha, antialias bool) *image.NRGBA {
	b := mask.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			a := mask.AlphaAt(b.Min.X+x, b.Min.Y+y).A
			c := uint8(0xFF)
			if antialias {
				c = a
			}
			i := out.PixOffset(x, y)
			out.Pix[i+0] = c
			out.Pix[i+1] = c
			out.Pix[i+2] = c
			out.Pix[i+3] = a
		}
	}
	return out
}

package codepoint

import "image"

// Rect is a rectangle in normalized texture space [0, 1].
type Rect struct {
	X, Y float32
	W, H float32
}

// Right returns X + W.
func (r Rect) Right() float32 { return r.X + r.W }

// Bottom returns Y + H.
func (r Rect) Bottom() float32 { return r.Y + r.H }

// Normalize converts a pixel rectangle into texture space by scaling it with
// 1/width and 1/height. Returns the zero Rect if either dimension is not
// positive.
func Normalize(px image.Rectangle, width, height int) Rect {
	if width <= 0 || height <= 0 {
		return Rect{}
	}
	w := float32(width)
	h := float32(height)
	return Rect{
		X: float32(px.Min.X) / w,
		Y: float32(px.Min.Y) / h,
		W: float32(px.Dx()) / w,
		H: float32(px.Dy()) / h,
	}
}

// Glyph describes where a code point lives on the atlas texture.
type Glyph struct {
	// CodePoint is the code point this record was written for.
	// Zero in records that were never written.
	CodePoint rune

	// UV is the glyph cell in normalized texture coordinates.
	UV Rect

	// Aspect is the cell width divided by its height, in pixels.
	Aspect float32
}

// EmptyGlyph returns the record used for slots that hold no glyph.
// Callers cannot tell it apart from real glyphs by content.
func EmptyGlyph() Glyph {
	return Glyph{Aspect: 1}
}

// AspectOf returns width/height, or 1 when height is zero.
func AspectOf(width, height int) float32 {
	if height == 0 {
		return 1
	}
	return float32(width) / float32(height)
}

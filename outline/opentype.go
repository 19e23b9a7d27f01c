package outline

import (
	"errors"
	"fmt"
	"image"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Options configures an OpenType rasterizer.
type Options struct {
	// Size is the font size in points.
	Size float64

	// DPI is the output resolution. Zero means 72.
	DPI int

	// Antialias copies coverage into the colour channels.
	Antialias bool

	// OffsetHeight moves every glyph down by this many pixels inside its cell.
	OffsetHeight int

	// Hinting defaults to font.HintingFull.
	Hinting font.Hinting
}

// OpenType rasterizes glyphs of a TrueType or OpenType font.
//
// OpenType is NOT safe for concurrent use.
type OpenType struct {
	font *opentype.Font
	face font.Face
	buf  sfnt.Buffer
	opts Options

	ascent     int
	lineHeight int
}

// NewOpenType parses data and creates a face at the configured size.
func NewOpenType(data []byte, opts Options) (*OpenType, error) {
	if len(data) == 0 {
		return nil, errors.New("outline: empty font data")
	}
	if opts.Size <= 0 {
		return nil, fmt.Errorf("outline: invalid size %v", opts.Size)
	}
	if opts.DPI <= 0 {
		opts.DPI = 72
	}
	if opts.Hinting == font.HintingNone {
		opts.Hinting = font.HintingFull
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("outline: failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    opts.Size,
		DPI:     float64(opts.DPI),
		Hinting: opts.Hinting,
	})
	if err != nil {
		return nil, fmt.Errorf("outline: failed to create face: %w", err)
	}

	m := face.Metrics()
	return &OpenType{
		font:       f,
		face:       face,
		opts:       opts,
		ascent:     m.Ascent.Ceil(),
		lineHeight: (m.Ascent + m.Descent).Ceil(),
	}, nil
}

// NewOpenTypeFromFile loads a font file and calls NewOpenType.
func NewOpenTypeFromFile(path string, opts Options) (*OpenType, error) {
	// #nosec G304 -- font path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("outline: failed to read font file: %w", err)
	}
	return NewOpenType(data, opts)
}

// Name returns the font family name, or "" if the font has none.
func (o *OpenType) Name() string {
	name, err := o.font.Name(&o.buf, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return name
}

// LineHeight implements Rasterizer.
func (o *OpenType) LineHeight() int {
	return o.lineHeight
}

// Advance implements Rasterizer.
func (o *OpenType) Advance(code rune) (int, bool) {
	adv, ok := o.face.GlyphAdvance(code)
	if !ok {
		return 0, false
	}
	return adv.Ceil(), true
}

// Rasterize implements Rasterizer. The cell is as wide as the glyph advance
// and LineHeight tall, with the baseline at the font ascent plus
// OffsetHeight.
func (o *OpenType) Rasterize(code rune) (Bitmap, error) {
	idx, err := o.font.GlyphIndex(&o.buf, code)
	if err != nil || idx == 0 {
		return Bitmap{}, fmt.Errorf("%w: U+%04X", ErrGlyphUnavailable, code)
	}
	adv, ok := o.face.GlyphAdvance(code)
	if !ok {
		return Bitmap{}, fmt.Errorf("%w: U+%04X has no advance", ErrGlyphUnavailable, code)
	}

	width := adv.Ceil()
	height := o.lineHeight
	if width <= 0 {
		return Bitmap{Width: 0, Height: height}, nil
	}

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	d := &font.Drawer{
		Dst:  mask,
		Src:  image.White,
		Face: o.face,
		Dot:  fixed.P(0, o.ascent+o.opts.OffsetHeight),
	}
	d.DrawString(string(code))

	return Bitmap{
		Image:  Colorize(mask, o.opts.Antialias),
		Width:  width,
		Height: height,
	}, nil
}

// Close releases the face.
func (o *OpenType) Close() error {
	return o.face.Close()
}

package fontatlas

import (
	"image"
	"unicode"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/fontatlas/atlas"
	"github.com/gogpu/fontatlas/codepoint"
	"github.com/gogpu/fontatlas/outline"
	"github.com/gogpu/fontatlas/texture"
)

// Code points with a fixed meaning for fonts.
const (
	CodeSelect     rune = 0x0000
	CodeTab        rune = 0x0009
	CodeLF         rune = 0x000A
	CodeCR         rune = 0x000D
	CodeSpace      rune = 0x0020
	CodeLatinStart rune = 0x0021
	CodeNEL        rune = 0x0085
	CodeLatinEnd   rune = 0x00A6
)

// Alpha values of the synthetic cells painted on generated atlases.
const (
	maskSpace          uint8 = 0x00
	maskCursor         uint8 = 0xFF
	maskSelect         uint8 = 0x88
	maskSelectDeactive uint8 = 0x60
)

// Mode selects how a font obtains its glyphs.
type Mode int

const (
	// ModeBitmap maps glyphs onto a pre-rendered image using coordinates
	// registered with AddGlyph.
	ModeBitmap Mode = iota

	// ModeOutline rasterizes an outline font and packs the glyphs into a
	// generated atlas.
	ModeOutline
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeBitmap:
		return "bitmap"
	case ModeOutline:
		return "outline"
	default:
		return "unknown"
	}
}

// Font maps code points to regions of a single atlas texture.
//
// A Font is configured, then initialized once with Initialize. After that it
// is read-only and GlyphInfo is the hot path used by text renderers. The
// texture is shared with the rendering subsystem and never destroyed by the
// Font.
//
// Font is NOT safe for concurrent use during configuration and
// initialization. Queries after Initialize may run concurrently.
type Font struct {
	name string
	cfg  config

	ranges *codepoint.RangeTable
	hide   codepoint.HideSet
	manual map[rune]image.Rectangle

	space, tab, cursor, sel, selDeactive codepoint.Glyph

	heightPix   int
	report      *atlas.Report
	initialized bool
}

// New creates an uninitialized font.
func New(name string, opts ...Option) *Font {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	empty := codepoint.EmptyGlyph()
	return &Font{
		name:        name,
		cfg:         cfg,
		ranges:      codepoint.NewRangeTable(),
		manual:      make(map[rune]image.Rectangle),
		space:       empty,
		tab:         empty,
		cursor:      empty,
		sel:         empty,
		selDeactive: empty,
	}
}

// Name returns the font name.
func (f *Font) Name() string { return f.name }

// Mode returns ModeOutline when a resolution is set, ModeBitmap otherwise.
func (f *Font) Mode() Mode {
	if f.cfg.resolution != 0 {
		return ModeOutline
	}
	return ModeBitmap
}

// IsOutline reports whether the font is generated from an outline font.
func (f *Font) IsOutline() bool { return f.Mode() == ModeOutline }

// Initialized reports whether Initialize completed successfully.
func (f *Font) Initialized() bool { return f.initialized }

// GlyphInfo returns the glyph for code, or nil when no range covers it.
// A code in a range whose glyph could not be generated returns a record
// with empty content.
func (f *Font) GlyphInfo(code rune) *codepoint.Glyph {
	return f.ranges.Lookup(code)
}

// SpaceGlyphInfo returns the space glyph.
func (f *Font) SpaceGlyphInfo() *codepoint.Glyph { return &f.space }

// TabGlyphInfo returns the tab glyph.
func (f *Font) TabGlyphInfo() *codepoint.Glyph { return &f.tab }

// CursorGlyphInfo returns the text cursor glyph.
func (f *Font) CursorGlyphInfo() *codepoint.Glyph { return &f.cursor }

// SelectGlyphInfo returns the selection highlight glyph.
func (f *Font) SelectGlyphInfo() *codepoint.Glyph { return &f.sel }

// SelectDeactiveGlyphInfo returns the selection highlight glyph used when
// the owning widget is not focused.
func (f *Font) SelectDeactiveGlyphInfo() *codepoint.Glyph { return &f.selDeactive }

// CheckHidePointCode reports whether code falls in a hide range.
func (f *Font) CheckHidePointCode(code rune) bool {
	return f.hide.Contains(code)
}

// AddCodePointRange registers [first, last] for glyph generation.
// Overlapping ranges are allowed; lookups resolve to the earliest range.
func (f *Font) AddCodePointRange(first, last rune) error {
	if err := f.ranges.AddRange(first, last); err != nil {
		return err
	}
	if n := f.ranges.Len(); n > 1 {
		added := f.ranges.Blocks()[n-1].Interval
		for _, b := range f.ranges.Blocks()[:n-1] {
			if b.Overlaps(added) {
				Logger().Warn("fontatlas: overlapping code point ranges",
					"font", f.name, "range", added.String(), "shadowed_by", b.Interval.String())
			}
		}
	}
	return nil
}

// AddHideCodePointRange excludes [first, last] from glyph generation.
func (f *Font) AddHideCodePointRange(first, last rune) error {
	return f.hide.Add(first, last)
}

// AddHideTable excludes every code point of rt, such as unicode.Cc.
func (f *Font) AddHideTable(rt *unicode.RangeTable) {
	f.hide.AddTable(rt)
}

// ClearCodePointRanges removes all code point ranges. Hide ranges and
// manual glyphs are kept.
func (f *Font) ClearCodePointRanges() {
	f.ranges.Clear()
}

// ClearHideCodePointRanges removes all hide ranges.
func (f *Font) ClearHideCodePointRanges() {
	f.hide.Clear()
}

// CodePointRanges returns the registered ranges in registration order.
func (f *Font) CodePointRanges() []codepoint.Interval {
	return f.ranges.Ranges()
}

// AddGlyph maps code to the pixel rectangle px of the texture (bitmap mode).
// Registering the same code again replaces the rectangle. On an initialized
// bitmap font the glyph is available immediately.
func (f *Font) AddGlyph(code rune, px image.Rectangle) {
	f.manual[code] = px
	if !f.initialized || f.Mode() != ModeBitmap {
		return
	}
	w, h := f.cfg.texture.Size()
	f.applyManual(code, px, w, h)
}

// Texture returns the atlas texture, nil before one is set or created.
func (f *Font) Texture() texture.Texture { return f.cfg.texture }

// SetTexture sets the texture used by Initialize.
func (f *Font) SetTexture(t texture.Texture) { f.cfg.texture = t }

// Rasterizer returns the outline rasterizer, nil in bitmap mode before one
// is set.
func (f *Font) Rasterizer() outline.Rasterizer { return f.cfg.rasterizer }

// SetRasterizer sets the rasterizer used by Initialize in outline mode.
func (f *Font) SetRasterizer(r outline.Rasterizer) { f.cfg.rasterizer = r }

// TextureDescriptor describes the GPU texture the atlas should be uploaded
// to. It is the zero Descriptor before a texture is set or created.
func (f *Font) TextureDescriptor() texture.Descriptor {
	if f.cfg.texture == nil {
		return texture.Descriptor{}
	}
	return texture.DescriptorFor(f.cfg.texture)
}

// Upload pushes the atlas pixels to dst when the texture supports uploads,
// as texture.Memory does.
func (f *Font) Upload(dst any) error {
	up, ok := f.cfg.texture.(interface{ Upload(any) error })
	if !ok {
		return ErrNoTexture
	}
	return up.Upload(dst)
}

// CreateTexture makes a GPU texture holding the atlas pixels. The texture
// must be a texture.Memory.
func (f *Font) CreateTexture(creator gpucontext.TextureCreator) (gpucontext.Texture, error) {
	mem, ok := f.cfg.texture.(*texture.Memory)
	if !ok {
		return nil, ErrNoTexture
	}
	return mem.Create(creator)
}

// Report returns the packing report of an initialized outline font, nil
// otherwise.
func (f *Font) Report() *atlas.Report { return f.report }

// HeightPix returns the glyph cell height in pixels, known after Initialize.
func (f *Font) HeightPix() int { return f.heightPix }

// Source returns the font source.
func (f *Font) Source() string { return f.cfg.source }

// SetSource sets the font source.
func (f *Font) SetSource(source string) { f.cfg.source = source }

// Size returns the outline size in points.
func (f *Font) Size() float64 { return f.cfg.size }

// SetSize sets the outline size in points.
func (f *Font) SetSize(size float64) { f.cfg.size = size }

// Resolution returns the outline resolution in DPI, 0 for bitmap fonts.
func (f *Font) Resolution() int { return f.cfg.resolution }

// SetResolution sets the outline resolution in DPI.
func (f *Font) SetResolution(dpi int) { f.cfg.resolution = dpi }

// Antialias reports whether coverage is copied into colour channels.
func (f *Font) Antialias() bool { return f.cfg.antialias }

// SetAntialias sets whether coverage is copied into colour channels.
func (f *Font) SetAntialias(enabled bool) { f.cfg.antialias = enabled }

// DefaultHeight returns the configured nominal height.
func (f *Font) DefaultHeight() int { return f.cfg.defaultHeight }

// SetDefaultHeight sets the nominal height.
func (f *Font) SetDefaultHeight(h int) { f.cfg.defaultHeight = h }

// SpaceWidth returns the space width in pixels. After Initialize a zero
// configuration is replaced by the derived width.
func (f *Font) SpaceWidth() int { return f.cfg.spaceWidth }

// SetSpaceWidth sets the space width in pixels.
func (f *Font) SetSpaceWidth(w int) { f.cfg.spaceWidth = w }

// TabWidth returns the tab width in pixels.
func (f *Font) TabWidth() int { return f.cfg.tabWidth }

// SetTabWidth sets the tab width in pixels.
func (f *Font) SetTabWidth(w int) { f.cfg.tabWidth = w }

// CursorWidth returns the cursor width in pixels.
func (f *Font) CursorWidth() int { return f.cfg.cursorWidth }

// SetCursorWidth sets the cursor width in pixels.
func (f *Font) SetCursorWidth(w int) { f.cfg.cursorWidth = w }

// Distance returns the padding between generated cells in pixels.
func (f *Font) Distance() int { return f.cfg.distance }

// SetDistance sets the padding between generated cells in pixels.
func (f *Font) SetDistance(d int) { f.cfg.distance = d }

// OffsetHeight returns the vertical glyph offset in pixels.
func (f *Font) OffsetHeight() int { return f.cfg.offsetHeight }

// SetOffsetHeight sets the vertical glyph offset in pixels.
func (f *Font) SetOffsetHeight(h int) { f.cfg.offsetHeight = h }

// AtlasWidth returns the width of generated atlases.
func (f *Font) AtlasWidth() int { return f.cfg.atlasWidth }

// SetAtlasWidth sets the width of generated atlases.
func (f *Font) SetAtlasWidth(w int) { f.cfg.atlasWidth = w }

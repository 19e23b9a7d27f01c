// Package fontatlas manages font glyph atlases for immediate-mode GUI text
// rendering.
//
// # Overview
//
// A Font maps Unicode code points to rectangular regions of a single texture.
// Each glyph record carries its normalized UV rectangle and an aspect ratio so
// the text renderer can place quads without knowing the texture size.
//
// Fonts come in two modes:
//   - Outline (resolution > 0): an OpenType/TrueType font is rasterized at a
//     given size and DPI, and the glyphs of every registered code point range
//     are packed into a generated atlas.
//   - Bitmap (resolution == 0): glyph rectangles are registered by hand with
//     AddGlyph against a pre-rendered image.
//
// # Quick Start
//
//	f := fontatlas.New("gui",
//		fontatlas.WithSource("DejaVuSans.ttf"),
//		fontatlas.WithSize(14),
//		fontatlas.WithResolution(96),
//		fontatlas.WithAntialias(true),
//	)
//	_ = f.AddCodePointRange(0x20, 0x7E)
//	_ = f.AddCodePointRange(0x400, 0x4FF)
//	_ = f.AddHideCodePointRange(0x7F, 0x9F)
//	if err := f.Initialize(); err != nil {
//		log.Fatal(err)
//	}
//	g := f.GlyphInfo('A') // nil when no range covers the code point
//
// # Packages
//
//   - codepoint: ranges, hide sets and glyph records
//   - outline: glyph rasterization with golang.org/x/image
//   - atlas: row packer with a growing texture height
//   - texture: the texture abstraction and an in-memory implementation
//
// # Logging
//
// The package is silent by default. Use SetLogger to route diagnostics, such
// as overlapping ranges or glyphs missing from the font, to a slog.Logger.
package fontatlas

package fontatlas

import (
	"fmt"
	"image"
	"io"
	"maps"
	"slices"

	"github.com/gogpu/fontatlas/atlas"
	"github.com/gogpu/fontatlas/codepoint"
	"github.com/gogpu/fontatlas/outline"
	"github.com/gogpu/fontatlas/texture"
)

// Initialize builds the glyph table: it rasterizes and packs an outline font
// when a resolution is set, otherwise it maps the registered manual glyphs
// onto the bitmap texture.
//
// Initialize may only succeed once; later calls return ErrAlreadyInitialized.
// On error the font stays uninitialized. Glyphs an outline font cannot
// produce do not fail initialization: they are listed in Report().Skipped()
// and read back as empty records.
func (f *Font) Initialize() error {
	if f.initialized {
		return ErrAlreadyInitialized
	}
	if err := f.cfg.validate(); err != nil {
		return err
	}

	var err error
	switch f.Mode() {
	case ModeOutline:
		err = f.loadOutline()
	default:
		err = f.loadBitmap()
	}
	if err != nil {
		return err
	}

	f.initialized = true
	w, h := f.cfg.texture.Size()
	Logger().Info("fontatlas: font initialized",
		"font", f.name,
		"mode", f.Mode().String(),
		"ranges", f.ranges.Len(),
		"texture", fmt.Sprintf("%dx%d", w, h),
		"height", f.heightPix)
	return nil
}

func (f *Font) loadOutline() error {
	r := f.cfg.rasterizer
	if r == nil {
		path, err := resolveSource(f.cfg.source)
		if err != nil {
			return err
		}
		ot, err := outline.NewOpenTypeFromFile(path, outline.Options{
			Size:         f.cfg.size,
			DPI:          f.cfg.resolution,
			Antialias:    f.cfg.antialias,
			OffsetHeight: f.cfg.offsetHeight,
		})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		// The face is only needed while packing.
		defer closeRasterizer(ot)
		r = ot
	}

	addedDefault := false
	if f.ranges.Len() == 0 {
		if err := f.ranges.AddRange(CodeLatinStart, CodeLatinEnd); err != nil {
			return err
		}
		addedDefault = true
	}

	heightPix := r.LineHeight()
	spaceWidth := f.cfg.spaceWidth
	if spaceWidth == 0 {
		if adv, ok := r.Advance(CodeSpace); ok && adv > 0 {
			spaceWidth = adv
		} else {
			spaceWidth = max(heightPix/2, 1)
		}
	}
	tabWidth := f.cfg.tabWidth
	if tabWidth == 0 {
		tabWidth = 8 * spaceWidth
	}

	tex := f.cfg.texture
	if tex == nil {
		tex = texture.NewMemory()
	}

	packer, err := atlas.New(atlas.Config{
		Width:         f.cfg.atlasWidth,
		InitialHeight: atlas.DefaultConfig().InitialHeight,
		MaxHeight:     atlas.DefaultConfig().MaxHeight,
		Distance:      f.cfg.distance,
		Logger:        Logger(),
	})
	if err != nil {
		return err
	}

	cellWidth := func(w int) int { return min(w, f.cfg.atlasWidth) }
	report, err := packer.Pack(atlas.Job{
		Ranges:     f.ranges,
		Hide:       &f.hide,
		Rasterizer: r,
		Texture:    tex,
		Synthetic: []atlas.Synthetic{
			{Code: CodeSpace, Width: cellWidth(spaceWidth), Height: heightPix, Fill: maskSpace},
			{Code: CodeTab, Width: cellWidth(tabWidth), Height: heightPix, Fill: maskSpace},
			{Code: CodeSelect, Width: cellWidth(f.cfg.cursorWidth), Height: heightPix, Fill: maskCursor},
			{Code: CodeSelect, Width: cellWidth(max(f.cfg.cursorWidth, 1)), Height: heightPix, Fill: maskSelect},
			{Code: CodeSelect, Width: cellWidth(max(f.cfg.cursorWidth, 1)), Height: heightPix, Fill: maskSelectDeactive},
		},
	})
	if err != nil {
		if addedDefault {
			f.ranges.Clear()
		}
		return fmt.Errorf("fontatlas: pack %q: %w", f.name, err)
	}

	f.space = report.Synthetic[0].Glyph
	f.tab = report.Synthetic[1].Glyph
	f.cursor = report.Synthetic[2].Glyph
	f.sel = report.Synthetic[3].Glyph
	f.selDeactive = report.Synthetic[4].Glyph

	// Cells may be clamped to the atlas width; the aspect keeps the
	// configured advance.
	f.space.Aspect = codepoint.AspectOf(spaceWidth, heightPix)
	f.tab.Aspect = codepoint.AspectOf(tabWidth, heightPix)

	if skipped := len(report.Skipped()); skipped > 0 {
		Logger().Warn("fontatlas: glyphs missing from atlas",
			"font", f.name, "skipped", skipped, "packed", report.Packed)
	}

	f.cfg.texture = tex
	f.cfg.spaceWidth = spaceWidth
	f.cfg.tabWidth = tabWidth
	f.heightPix = heightPix
	f.report = report
	return nil
}

func (f *Font) loadBitmap() error {
	tex := f.cfg.texture
	if tex == nil {
		if f.cfg.source == "" {
			return fmt.Errorf("%w: bitmap font %q has neither texture nor source", ErrNoTexture, f.name)
		}
		m, err := texture.LoadImage(f.cfg.source)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		tex = m
	}
	w, h := tex.Size()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: bitmap font %q texture is %dx%d", ErrNoTexture, f.name, w, h)
	}

	codes := slices.Sorted(maps.Keys(f.manual))
	for _, code := range codes {
		f.applyManual(code, f.manual[code], w, h)
	}

	heightPix := f.cfg.defaultHeight
	if heightPix == 0 && len(codes) > 0 {
		heightPix = f.manual[codes[0]].Dy()
	}

	spaceWidth := f.cfg.spaceWidth
	f.space = codepoint.Glyph{CodePoint: CodeSpace, Aspect: 1}
	if px, ok := f.manual[CodeSpace]; ok {
		f.space = *f.ranges.Lookup(CodeSpace)
		if spaceWidth == 0 {
			spaceWidth = px.Dx()
		}
	} else {
		f.space.Aspect = codepoint.AspectOf(spaceWidth, heightPix)
	}

	tabWidth := f.cfg.tabWidth
	if tabWidth == 0 {
		tabWidth = 8 * spaceWidth
	}
	f.tab = f.space
	f.tab.CodePoint = CodeTab
	f.tab.Aspect = codepoint.AspectOf(tabWidth, heightPix)

	if _, ok := f.manual[CodeSelect]; ok {
		g := *f.ranges.Lookup(CodeSelect)
		f.cursor, f.sel, f.selDeactive = g, g, g
	}

	f.cfg.texture = tex
	f.cfg.spaceWidth = spaceWidth
	f.cfg.tabWidth = tabWidth
	f.heightPix = heightPix
	return nil
}

// applyManual writes a manual glyph against a texture of w x h pixels,
// creating a single code block when no range covers code.
func (f *Font) applyManual(code rune, px image.Rectangle, w, h int) {
	f.ranges.EnsureSingle(code)
	f.ranges.WriteGlyph(code, px, w, h, codepoint.AspectOf(px.Dx(), px.Dy()))
}

func closeRasterizer(r io.Closer) {
	if err := r.Close(); err != nil {
		Logger().Warn("fontatlas: closing rasterizer", "err", err)
	}
}

package atlas

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/gogpu/fontatlas/codepoint"
	"github.com/gogpu/fontatlas/outline"
	"github.com/gogpu/fontatlas/texture"
)

// fakeRasterizer returns fixed-size cells and records every request.
type fakeRasterizer struct {
	width, height int
	sizes         map[rune][2]int // per-code overrides
	missing       map[rune]bool
	requested     []rune
}

func (f *fakeRasterizer) Rasterize(code rune) (outline.Bitmap, error) {
	f.requested = append(f.requested, code)
	if f.missing[code] {
		return outline.Bitmap{}, fmt.Errorf("%w: U+%04X", outline.ErrGlyphUnavailable, code)
	}
	w, h := f.width, f.height
	if s, ok := f.sizes[code]; ok {
		w, h = s[0], s[1]
	}
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	for i := range mask.Pix {
		mask.Pix[i] = 0xFF
	}
	return outline.Bitmap{Image: outline.Colorize(mask, false), Width: w, Height: h}, nil
}

func (f *fakeRasterizer) LineHeight() int { return f.height }

func (f *fakeRasterizer) Advance(rune) (int, bool) { return f.width, true }

// recordingTexture wraps a memory texture and counts calls.
type recordingTexture struct {
	*texture.Memory
	allocs  int
	resizes []int
	blits   int
}

func newRecordingTexture() *recordingTexture {
	return &recordingTexture{Memory: texture.NewMemory()}
}

func (r *recordingTexture) Allocate(w, h int) error {
	r.allocs++
	return r.Memory.Allocate(w, h)
}

func (r *recordingTexture) Resize(w, h int) error {
	r.resizes = append(r.resizes, h)
	return r.Memory.Resize(w, h)
}

func (r *recordingTexture) Blit(src image.Image, x, y int) error {
	r.blits++
	return r.Memory.Blit(src, x, y)
}

func mustPacker(t *testing.T, cfg Config) *Packer {
	t.Helper()
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return p
}

func rangesOf(t *testing.T, ivs ...codepoint.Interval) *codepoint.RangeTable {
	t.Helper()
	tbl := codepoint.NewRangeTable()
	for _, iv := range ivs {
		if err := tbl.AddRange(iv.First, iv.Last); err != nil {
			t.Fatal(err)
		}
	}
	return tbl
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		field string
	}{
		{"default", DefaultConfig(), ""},
		{"zero width", Config{Width: 0, InitialHeight: 8, MaxHeight: 8}, "Width"},
		{"zero height", Config{Width: 8, InitialHeight: 0, MaxHeight: 8}, "InitialHeight"},
		{"max below initial", Config{Width: 8, InitialHeight: 16, MaxHeight: 8}, "MaxHeight"},
		{"negative distance", Config{Width: 8, InitialHeight: 8, MaxHeight: 8, Distance: -1}, "Distance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Field != tt.field {
				t.Errorf("Validate() = %v, want ConfigError on %s", err, tt.field)
			}
		})
	}
}

func TestPack_RowPlacement(t *testing.T) {
	tbl := rangesOf(t, codepoint.Interval{First: 0x41, Last: 0x43})
	r := &fakeRasterizer{width: 10, height: 12}
	tex := newRecordingTexture()

	p := mustPacker(t, Config{Width: 100, InitialHeight: 16, MaxHeight: 1024, Distance: 2})
	report, err := p.Pack(Job{Ranges: tbl, Rasterizer: r, Texture: tex})
	if err != nil {
		t.Fatalf("Pack() = %v", err)
	}

	wantX := []int{0, 12, 24}
	for i, o := range report.Outcomes {
		if !o.Ok() {
			t.Fatalf("outcome %d skipped: %v", i, o.Err)
		}
		if o.Cell != image.Rect(wantX[i], 0, wantX[i]+10, 12) {
			t.Errorf("cell %d = %v, want x=%d y=0 10x12", i, o.Cell, wantX[i])
		}
	}
	if report.Rows != 1 {
		t.Errorf("Rows = %d, want 1", report.Rows)
	}
	if report.Width != 100 || report.Height < 12 {
		t.Errorf("final size = %dx%d, want width 100 and height >= 12", report.Width, report.Height)
	}

	g := tbl.Lookup(0x41)
	if g == nil || g.CodePoint != 0x41 {
		t.Fatalf("Lookup(0x41) = %+v, want written record", g)
	}
	if g.UV.X != 0.0/float32(report.Width) {
		t.Errorf("UV.X = %v, want 0", g.UV.X)
	}
	if got := tbl.Lookup(0x42).UV.X; got != 12/float32(report.Width) {
		t.Errorf("Lookup(0x42).UV.X = %v, want %v", got, 12/float32(report.Width))
	}
	if g.Aspect != float32(10)/float32(12) {
		t.Errorf("Aspect = %v, want %v", g.Aspect, float32(10)/float32(12))
	}
}

func TestPack_NewRowAndGrowth(t *testing.T) {
	// 4 cells of 10 per row with distance 2 in width 48: 0, 12, 24, 36.
	tbl := rangesOf(t, codepoint.Interval{First: 'a', Last: 'z'})
	r := &fakeRasterizer{width: 10, height: 10}
	tex := newRecordingTexture()

	p := mustPacker(t, Config{Width: 48, InitialHeight: 16, MaxHeight: 1024, Distance: 2})
	report, err := p.Pack(Job{Ranges: tbl, Rasterizer: r, Texture: tex})
	if err != nil {
		t.Fatalf("Pack() = %v", err)
	}

	// 26 glyphs, 4 per row -> 7 rows, last row top at 6*12 = 72.
	if report.Rows != 7 {
		t.Errorf("Rows = %d, want 7", report.Rows)
	}
	last := report.Outcomes[len(report.Outcomes)-1]
	if last.Cell.Min != image.Pt(12, 72) {
		t.Errorf("last cell at %v, want (12,72)", last.Cell.Min)
	}
	if report.Height != 128 {
		t.Errorf("Height = %d, want 128", report.Height)
	}
	if len(tex.resizes) != report.Grows || report.Grows == 0 {
		t.Errorf("resizes = %v, Grows = %d", tex.resizes, report.Grows)
	}
	if w, h := tex.Size(); w != 48 || h != 128 {
		t.Errorf("texture size = %dx%d, want 48x128", w, h)
	}

	// Pixels blitted before growth survive the resize.
	if a := tex.Image().NRGBAAt(1, 1).A; a != 0xFF {
		t.Errorf("alpha of first glyph after growth = %#x, want 0xFF", a)
	}

	for code := rune('a'); code <= 'z'; code++ {
		g := tbl.Lookup(code)
		if g.UV.X < 0 || g.UV.Right() > 1 || g.UV.Y < 0 || g.UV.Bottom() > 1 {
			t.Errorf("UV of %q = %+v outside [0,1]", code, g.UV)
		}
	}
}

func TestPack_HiddenNeverRasterized(t *testing.T) {
	tbl := rangesOf(t, codepoint.Interval{First: 0x41, Last: 0x5A})
	var hide codepoint.HideSet
	if err := hide.Add(0x41, 0x41); err != nil {
		t.Fatal(err)
	}
	r := &fakeRasterizer{width: 8, height: 8}

	p := mustPacker(t, DefaultConfig())
	report, err := p.Pack(Job{Ranges: tbl, Hide: &hide, Rasterizer: r, Texture: texture.NewMemory()})
	if err != nil {
		t.Fatalf("Pack() = %v", err)
	}

	for _, code := range r.requested {
		if code == 0x41 {
			t.Fatal("hidden code point U+0041 was rasterized")
		}
	}
	if report.Hidden != 1 || report.Packed != 25 {
		t.Errorf("Hidden = %d, Packed = %d, want 1 and 25", report.Hidden, report.Packed)
	}
	if g := tbl.Lookup(0x41); g.CodePoint != 0 {
		t.Errorf("Lookup(0x41) = %+v, want unwritten record", g)
	}
	if g := tbl.Lookup(0x42); g == nil || g.CodePoint != 0x42 {
		t.Errorf("Lookup(0x42) = %+v, want written record", g)
	}
}

func TestPack_BestEffortSkips(t *testing.T) {
	tbl := rangesOf(t, codepoint.Interval{First: '0', Last: '9'})
	r := &fakeRasterizer{
		width:   6,
		height:  9,
		missing: map[rune]bool{'3': true, '7': true},
		sizes:   map[rune][2]int{'5': {500, 9}},
	}

	p := mustPacker(t, Config{Width: 64, InitialHeight: 16, MaxHeight: 256})
	report, err := p.Pack(Job{Ranges: tbl, Rasterizer: r, Texture: texture.NewMemory()})
	if err != nil {
		t.Fatalf("Pack() = %v, want success despite skipped glyphs", err)
	}

	skipped := report.Skipped()
	if len(skipped) != 3 {
		t.Fatalf("len(Skipped()) = %d, want 3", len(skipped))
	}
	reasons := map[rune]error{}
	for _, o := range skipped {
		reasons[o.Code] = o.Err
	}
	if !errors.Is(reasons['3'], outline.ErrGlyphUnavailable) {
		t.Errorf("skip reason for '3' = %v, want ErrGlyphUnavailable", reasons['3'])
	}
	if !errors.Is(reasons['5'], ErrGlyphTooWide) {
		t.Errorf("skip reason for '5' = %v, want ErrGlyphTooWide", reasons['5'])
	}
	if report.Packed != 7 {
		t.Errorf("Packed = %d, want 7", report.Packed)
	}

	// A skipped glyph reads back as the empty record.
	if g := tbl.Lookup('3'); g == nil || *g != codepoint.EmptyGlyph() {
		t.Errorf("Lookup('3') = %+v, want empty record", g)
	}
}

func TestPack_ZeroSizedGlyph(t *testing.T) {
	tbl := rangesOf(t, codepoint.Interval{First: 0x300, Last: 0x302})
	r := &fakeRasterizer{width: 8, height: 10, sizes: map[rune][2]int{0x301: {0, 10}}}

	p := mustPacker(t, Config{Width: 64, InitialHeight: 16, MaxHeight: 64, Distance: 3})
	report, err := p.Pack(Job{Ranges: tbl, Rasterizer: r, Texture: texture.NewMemory()})
	if err != nil {
		t.Fatal(err)
	}

	want := []int{0, 11, 14}
	for i, o := range report.Outcomes {
		if o.Cell.Min.X != want[i] {
			t.Errorf("cell %d x = %d, want %d", i, o.Cell.Min.X, want[i])
		}
	}
	if g := tbl.Lookup(0x301); g.CodePoint != 0x301 || g.UV.W != 0 {
		t.Errorf("Lookup(U+0301) = %+v, want written zero-width record", g)
	}
}

func TestPack_ShadowedCodesPackedOnce(t *testing.T) {
	tbl := rangesOf(t,
		codepoint.Interval{First: 0x30, Last: 0x39},
		codepoint.Interval{First: 0x35, Last: 0x44},
	)
	r := &fakeRasterizer{width: 4, height: 4}

	p := mustPacker(t, DefaultConfig())
	report, err := p.Pack(Job{Ranges: tbl, Rasterizer: r, Texture: texture.NewMemory()})
	if err != nil {
		t.Fatal(err)
	}
	if report.Shadowed != 5 {
		t.Errorf("Shadowed = %d, want 5", report.Shadowed)
	}
	if len(r.requested) != 21 {
		t.Errorf("rasterized %d code points, want 21", len(r.requested))
	}
	if got := tbl.Lookup(0x37); got != tbl.Blocks()[0].Glyph(0x37) || got.CodePoint != 0x37 {
		t.Errorf("Lookup(0x37) = %+v, want record of first block", got)
	}
}

func TestPack_TooLarge(t *testing.T) {
	tbl := rangesOf(t, codepoint.Interval{First: 0, Last: 99})
	r := &fakeRasterizer{width: 10, height: 10}

	p := mustPacker(t, Config{Width: 20, InitialHeight: 16, MaxHeight: 64})
	_, err := p.Pack(Job{Ranges: tbl, Rasterizer: r, Texture: texture.NewMemory()})
	if !errors.Is(err, ErrAtlasTooLarge) {
		t.Fatalf("Pack() = %v, want ErrAtlasTooLarge", err)
	}
	if g := tbl.Lookup(0); g.CodePoint != 0 || g.UV != (codepoint.Rect{}) {
		t.Errorf("Lookup(0) = %+v, want no record written on failure", g)
	}
}

func TestPack_Synthetic(t *testing.T) {
	tbl := rangesOf(t, codepoint.Interval{First: 'A', Last: 'B'})
	r := &fakeRasterizer{width: 10, height: 16}
	tex := texture.NewMemory()

	p := mustPacker(t, Config{Width: 64, InitialHeight: 16, MaxHeight: 256, Distance: 1})
	report, err := p.Pack(Job{
		Ranges:     tbl,
		Rasterizer: r,
		Texture:    tex,
		Synthetic: []Synthetic{
			{Code: 0x20, Width: 5, Height: 16, Fill: 0x00},
			{Code: 0, Width: 2, Height: 16, Fill: 0xFF},
			{Code: 0, Width: 3, Height: 16, Fill: 0x88},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Synthetic) != 3 {
		t.Fatalf("len(Synthetic) = %d, want 3", len(report.Synthetic))
	}

	space := report.Synthetic[0]
	if space.Cell != image.Rect(22, 0, 27, 16) {
		t.Errorf("space cell = %v, want (22,0)-(27,16)", space.Cell)
	}
	if space.Glyph.CodePoint != 0x20 || space.Glyph.Aspect != float32(5)/16 {
		t.Errorf("space glyph = %+v", space.Glyph)
	}

	cursor := report.Synthetic[1]
	if a := tex.Image().NRGBAAt(cursor.Cell.Min.X, cursor.Cell.Min.Y).A; a != 0xFF {
		t.Errorf("cursor alpha = %#x, want 0xFF", a)
	}
	sel := report.Synthetic[2]
	if a := tex.Image().NRGBAAt(sel.Cell.Min.X+1, sel.Cell.Min.Y+1).A; a != 0x88 {
		t.Errorf("selection alpha = %#x, want 0x88", a)
	}
	if sel.Glyph.UV != codepoint.Normalize(sel.Cell, report.Width, report.Height) {
		t.Errorf("selection UV = %+v not normalized against final size", sel.Glyph.UV)
	}
}

func TestPack_Deterministic(t *testing.T) {
	run := func() (*codepoint.RangeTable, *Report) {
		tbl := rangesOf(t,
			codepoint.Interval{First: 0x20, Last: 0x7E},
			codepoint.Interval{First: 0x400, Last: 0x44F},
		)
		r := &fakeRasterizer{width: 7, height: 13, sizes: map[rune][2]int{'W': {12, 13}, 'i': {3, 13}}}
		p := mustPacker(t, Config{Width: 128, InitialHeight: 32, MaxHeight: 4096, Distance: 1})
		report, err := p.Pack(Job{Ranges: tbl, Rasterizer: r, Texture: texture.NewMemory()})
		if err != nil {
			t.Fatal(err)
		}
		return tbl, report
	}

	t1, r1 := run()
	t2, r2 := run()
	if r1.Width != r2.Width || r1.Height != r2.Height {
		t.Fatalf("sizes differ: %dx%d vs %dx%d", r1.Width, r1.Height, r2.Width, r2.Height)
	}
	for _, b := range t1.Blocks() {
		for code := b.First; code <= b.Last; code++ {
			if *t1.Lookup(code) != *t2.Lookup(code) {
				t.Fatalf("records for U+%04X differ: %+v vs %+v", code, *t1.Lookup(code), *t2.Lookup(code))
			}
		}
	}
}

func TestPack_InvalidJob(t *testing.T) {
	p := mustPacker(t, DefaultConfig())
	tbl := codepoint.NewRangeTable()
	r := &fakeRasterizer{width: 1, height: 1}

	tests := []struct {
		name string
		job  Job
		want error
	}{
		{"nil ranges", Job{Rasterizer: r, Texture: texture.NewMemory()}, ErrNilRanges},
		{"nil rasterizer", Job{Ranges: tbl, Texture: texture.NewMemory()}, ErrNilRasterizer},
		{"nil texture", Job{Ranges: tbl, Rasterizer: r}, ErrNilTexture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.Pack(tt.job); !errors.Is(err, tt.want) {
				t.Errorf("Pack() = %v, want %v", err, tt.want)
			}
		})
	}
}

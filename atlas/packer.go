// Package atlas packs rasterized glyph cells into a single texture.
//
// Cells are laid out row by row, left to right, in the order of the range
// table: range by range in registration order, ascending code points inside
// each range. The atlas width is fixed and its height doubles whenever a row
// does not fit. UV rectangles are computed once packing is over, against the
// final texture size.
package atlas

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/fontatlas/codepoint"
	"github.com/gogpu/fontatlas/outline"
	"github.com/gogpu/fontatlas/texture"
)

// Job is the input of one packing run.
type Job struct {
	// Ranges receives the glyph records. Its blocks drive packing order.
	Ranges *codepoint.RangeTable

	// Hide lists code points that are never rasterized. May be nil.
	Hide *codepoint.HideSet

	// Rasterizer produces the glyph cells.
	Rasterizer outline.Rasterizer

	// Texture is allocated, grown and written by the packer.
	Texture texture.Texture

	// Synthetic cells are packed after all ranges, in order.
	Synthetic []Synthetic
}

// Synthetic is a solid cell that is not backed by a font glyph, such as the
// cursor or the selection highlight.
type Synthetic struct {
	// Code is stored as the CodePoint of the resulting glyph record.
	Code rune

	// Width and Height are the cell size in pixels.
	Width, Height int

	// Fill is the alpha value painted over the whole cell.
	Fill uint8
}

// SyntheticResult is the placement of a Synthetic cell.
type SyntheticResult struct {
	Synthetic
	Cell  image.Rectangle
	Glyph codepoint.Glyph
}

// Outcome is the result of one glyph generation attempt: either a placed
// cell, or a skip with its reason.
type Outcome struct {
	Code rune
	Cell image.Rectangle
	Err  error
}

// Ok reports whether the glyph was placed.
func (o Outcome) Ok() bool {
	return o.Err == nil
}

// Report summarizes a packing run.
type Report struct {
	// Width and Height are the final texture dimensions.
	Width, Height int

	// Packed is the number of glyph cells placed, synthetic cells excluded.
	Packed int

	// Hidden counts code points skipped because they are in the hide set.
	Hidden int

	// Shadowed counts code points skipped because an earlier range owns them.
	Shadowed int

	// Rows is the number of rows used.
	Rows int

	// Grows counts texture resizes during packing.
	Grows int

	// Outcomes holds one entry per rasterization attempt, in packing order.
	Outcomes []Outcome

	// Synthetic holds the synthetic placements in Job order.
	Synthetic []SyntheticResult
}

// Skipped returns the outcomes that did not produce a cell.
func (r *Report) Skipped() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Ok() {
			out = append(out, o)
		}
	}
	return out
}

// Packer lays glyph cells out in rows on a texture of growing height.
//
// Packer is NOT safe for concurrent use.
type Packer struct {
	cfg Config
	log *slog.Logger

	// Packing cursor
	x, y      int
	rowHeight int
	rows      int
	height    int
}

// New creates a packer. Returns a *ConfigError if cfg is invalid.
func New(cfg Config) (*Packer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Packer{cfg: cfg, log: log}, nil
}

// Pack rasterizes every non-hidden code point of job.Ranges, places the cells
// on job.Texture and writes the resulting glyph records.
//
// A glyph the rasterizer cannot produce, or that is wider than the atlas, is
// recorded as a skipped Outcome and packing continues. Errors are returned
// only for invalid jobs, texture failures, or when the atlas would exceed
// Config.MaxHeight; in that case no glyph record is written.
func (p *Packer) Pack(job Job) (*Report, error) {
	switch {
	case job.Ranges == nil:
		return nil, ErrNilRanges
	case job.Rasterizer == nil:
		return nil, ErrNilRasterizer
	case job.Texture == nil:
		return nil, ErrNilTexture
	}

	p.reset()
	if err := job.Texture.Allocate(p.cfg.Width, p.height); err != nil {
		return nil, fmt.Errorf("atlas: allocate texture: %w", err)
	}

	report := &Report{}
	for _, b := range job.Ranges.Blocks() {
		for code := b.First; code <= b.Last; code++ {
			if job.Hide != nil && job.Hide.Contains(code) {
				report.Hidden++
				continue
			}
			if job.Ranges.Lookup(code) != b.Glyph(code) {
				report.Shadowed++
				continue
			}

			out, err := p.packGlyph(job, code, report)
			if err != nil {
				return nil, err
			}
			report.Outcomes = append(report.Outcomes, out)
			if out.Ok() {
				report.Packed++
			} else {
				p.log.Debug("atlas: glyph skipped",
					"code", fmt.Sprintf("U+%04X", code),
					"name", outline.RuneName(code),
					"reason", out.Err)
			}
		}
	}

	for _, s := range job.Synthetic {
		if s.Width > p.cfg.Width {
			return nil, fmt.Errorf("%w: synthetic cell U+%04X is %d wide", ErrGlyphTooWide, s.Code, s.Width)
		}
		cell, err := p.place(job.Texture, s.Width, s.Height, report)
		if err != nil {
			return nil, err
		}
		if err := job.Texture.Blit(solidCell(s.Width, s.Height, s.Fill), cell.Min.X, cell.Min.Y); err != nil {
			return nil, fmt.Errorf("atlas: blit synthetic cell: %w", err)
		}
		report.Synthetic = append(report.Synthetic, SyntheticResult{Synthetic: s, Cell: cell})
	}

	// UV pass against the final dimensions.
	report.Width, report.Height = p.cfg.Width, p.height
	report.Rows = p.rows
	for _, o := range report.Outcomes {
		if !o.Ok() {
			continue
		}
		job.Ranges.WriteGlyph(o.Code, o.Cell, report.Width, report.Height,
			codepoint.AspectOf(o.Cell.Dx(), o.Cell.Dy()))
	}
	for i := range report.Synthetic {
		s := &report.Synthetic[i]
		s.Glyph = codepoint.Glyph{
			CodePoint: s.Code,
			UV:        codepoint.Normalize(s.Cell, report.Width, report.Height),
			Aspect:    codepoint.AspectOf(s.Width, s.Height),
		}
	}

	p.log.Debug("atlas: packed",
		"width", report.Width,
		"height", report.Height,
		"glyphs", report.Packed,
		"skipped", len(report.Outcomes)-report.Packed,
		"rows", report.Rows,
		"grows", report.Grows)
	return report, nil
}

// packGlyph rasterizes and places one code point. Per-glyph failures are
// returned inside the Outcome; the error result is reserved for failures
// that abort packing.
func (p *Packer) packGlyph(job Job, code rune, report *Report) (Outcome, error) {
	bm, err := job.Rasterizer.Rasterize(code)
	if err != nil {
		return Outcome{Code: code, Err: err}, nil
	}
	if bm.Width > p.cfg.Width {
		return Outcome{Code: code, Err: fmt.Errorf("%w: %d > %d", ErrGlyphTooWide, bm.Width, p.cfg.Width)}, nil
	}

	cell, err := p.place(job.Texture, bm.Width, bm.Height, report)
	if err != nil {
		return Outcome{}, err
	}
	if bm.Image != nil && !cell.Empty() {
		if err := job.Texture.Blit(bm.Image, cell.Min.X, cell.Min.Y); err != nil {
			return Outcome{}, fmt.Errorf("atlas: blit U+%04X: %w", code, err)
		}
	}
	return Outcome{Code: code, Cell: cell}, nil
}

// place reserves a w x h cell at the cursor, starting a new row when the
// cell does not fit horizontally and growing the texture when it does not
// fit vertically.
func (p *Packer) place(tex texture.Texture, w, h int, report *Report) (image.Rectangle, error) {
	if p.x+w > p.cfg.Width {
		p.y += p.rowHeight + p.cfg.Distance
		p.x = 0
		p.rowHeight = 0
		p.rows++
	}
	if p.rows == 0 {
		p.rows = 1
	}

	if p.y+h > p.height {
		if err := p.grow(tex, p.y+h, report); err != nil {
			return image.Rectangle{}, err
		}
	}

	cell := image.Rect(p.x, p.y, p.x+w, p.y+h)
	p.x += w + p.cfg.Distance
	p.rowHeight = max(p.rowHeight, h)
	return cell, nil
}

// grow doubles the atlas height until need fits and resizes the texture.
func (p *Packer) grow(tex texture.Texture, need int, report *Report) error {
	h := p.height
	for h < need {
		h *= 2
	}
	if h > p.cfg.MaxHeight {
		return fmt.Errorf("%w: need %d, max %d", ErrAtlasTooLarge, need, p.cfg.MaxHeight)
	}
	if err := tex.Resize(p.cfg.Width, h); err != nil {
		return fmt.Errorf("atlas: resize texture to %dx%d: %w", p.cfg.Width, h, err)
	}
	p.log.Debug("atlas: texture grown", "from", p.height, "to", h)
	p.height = h
	report.Grows++
	return nil
}

func (p *Packer) reset() {
	p.x, p.y = 0, 0
	p.rowHeight = 0
	p.rows = 0
	p.height = p.cfg.InitialHeight
}

// solidCell returns a white w x h cell with uniform alpha.
func solidCell(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = 0xFF
		img.Pix[i+1] = 0xFF
		img.Pix[i+2] = 0xFF
		img.Pix[i+3] = alpha
	}
	return img
}

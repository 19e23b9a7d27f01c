// Command atlasgen rasterizes an outline font into a glyph atlas PNG and
// prints the glyph table.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"text/tabwriter"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/fontatlas"
	"github.com/gogpu/fontatlas/codepoint"
	"github.com/gogpu/fontatlas/outline"
	"github.com/gogpu/fontatlas/texture"
)

// params holds the parsed command line.
type params struct {
	fontPath  string
	size      float64
	dpi       int
	include   []codepoint.Interval
	exclude   []codepoint.Interval
	width     int
	distance  int
	antialias bool
}

func main() {
	var (
		fontPath  = flag.String("font", "", "font file or system font name (default: Go Regular)")
		size      = flag.Float64("size", 16, "font size in points")
		dpi       = flag.Int("dpi", 72, "resolution in DPI")
		ranges    = flag.String("ranges", "0x20-0x7E", "code point ranges, e.g. 0x20-0x7E,U+0400-U+04FF")
		hide      = flag.String("hide", "0x7F-0x9F", "code point ranges to leave out")
		width     = flag.Int("width", 512, "atlas width")
		distance  = flag.Int("distance", 1, "padding between glyph cells")
		antialias = flag.Bool("antialias", true, "copy coverage into colour channels")
		output    = flag.String("output", "atlas.png", "output file")
		table     = flag.Bool("table", false, "print the glyph table")
		verbose   = flag.Bool("v", false, "log packing details")
	)
	flag.Parse()

	if *verbose {
		fontatlas.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	include, err := codepoint.ParseIntervals(*ranges)
	if err != nil {
		log.Fatalf("Invalid -ranges: %v", err)
	}
	exclude, err := codepoint.ParseIntervals(*hide)
	if err != nil {
		log.Fatalf("Invalid -hide: %v", err)
	}

	f, err := buildAtlas(params{
		fontPath:  *fontPath,
		size:      *size,
		dpi:       *dpi,
		include:   include,
		exclude:   exclude,
		width:     *width,
		distance:  *distance,
		antialias: *antialias,
	})
	if err != nil {
		log.Fatalf("Failed to build atlas: %v", err)
	}

	if err := savePNG(f, *output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	rep := f.Report()
	d := f.TextureDescriptor()
	log.Printf("Atlas saved to %s (%dx%d %s, %d bytes, %d glyphs, %d skipped)\n",
		*output, d.Width, d.Height, d.Format, d.ByteSize(), rep.Packed, len(rep.Skipped()))

	if *table {
		printTable(f)
	}
}

// buildAtlas configures and initializes a font from p. A built-in Go Regular
// face is used when no font path is given.
func buildAtlas(p params) (*fontatlas.Font, error) {
	opts := []fontatlas.Option{
		fontatlas.WithSize(p.size),
		fontatlas.WithResolution(p.dpi),
		fontatlas.WithAtlasWidth(p.width),
		fontatlas.WithDistance(p.distance),
		fontatlas.WithAntialias(p.antialias),
	}
	name := p.fontPath
	if name == "" {
		name = "goregular"
		r, err := outline.NewOpenType(goregular.TTF, outline.Options{Size: p.size, DPI: p.dpi, Antialias: p.antialias})
		if err != nil {
			return nil, fmt.Errorf("load Go Regular: %w", err)
		}
		defer func() { _ = r.Close() }()
		opts = append(opts, fontatlas.WithRasterizer(r))
		reportCoverage(goregular.TTF, p.include)
	} else {
		opts = append(opts, fontatlas.WithSource(p.fontPath))
		// #nosec G304 -- path comes from the command line
		if data, err := os.ReadFile(p.fontPath); err == nil {
			reportCoverage(data, p.include)
		}
	}

	f := fontatlas.New(name, opts...)
	for _, iv := range p.include {
		if err := f.AddCodePointRange(iv.First, iv.Last); err != nil {
			return nil, fmt.Errorf("add range %v: %w", iv, err)
		}
	}
	for _, iv := range p.exclude {
		if err := f.AddHideCodePointRange(iv.First, iv.Last); err != nil {
			return nil, fmt.Errorf("add hide range %v: %w", iv, err)
		}
	}
	if err := f.Initialize(); err != nil {
		return nil, err
	}
	return f, nil
}

func reportCoverage(data []byte, intervals []codepoint.Interval) {
	cov, err := outline.Coverage(data, intervals)
	if err != nil {
		log.Printf("Coverage unavailable: %v", err)
		return
	}
	for _, c := range cov {
		if !c.Complete() {
			log.Printf("Range %v: %d of %d code points in font", c.Interval, c.Covered, c.Interval.Len())
		}
	}
}

func savePNG(f *fontatlas.Font, path string) error {
	mem, ok := f.Texture().(*texture.Memory)
	if !ok {
		return fmt.Errorf("texture %T has no pixels to save", f.Texture())
	}
	// #nosec G304 -- path comes from the command line
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, mem.Image()); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func printTable(f *fontatlas.Font) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CODE\tNAME\tU\tV\tW\tH\tASPECT")
	for _, iv := range f.CodePointRanges() {
		for code := iv.First; code <= iv.Last; code++ {
			if f.CheckHidePointCode(code) {
				continue
			}
			g := f.GlyphInfo(code)
			_, _ = fmt.Fprintf(w, "U+%04X\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.3f\n",
				code, outline.RuneName(code), g.UV.X, g.UV.Y, g.UV.W, g.UV.H, g.Aspect)
		}
	}
	_ = w.Flush()
}

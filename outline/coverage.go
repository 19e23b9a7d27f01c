package outline

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	"golang.org/x/text/unicode/runenames"

	"github.com/gogpu/fontatlas/codepoint"
)

// IntervalCoverage reports how many code points of an interval the font maps
// to a glyph through its cmap.
type IntervalCoverage struct {
	Interval codepoint.Interval
	Covered  int
	Missing  []rune
}

// Complete reports whether every code point of the interval is covered.
func (c IntervalCoverage) Complete() bool {
	return len(c.Missing) == 0
}

// Coverage probes the cmap of the font in data for every code point of the
// given intervals. The result has one entry per interval, in order.
func Coverage(data []byte, intervals []codepoint.Interval) ([]IntervalCoverage, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("outline: failed to parse font for coverage: %w", err)
	}

	out := make([]IntervalCoverage, len(intervals))
	for i, iv := range intervals {
		out[i].Interval = iv
		for r := iv.First; r <= iv.Last; r++ {
			if _, ok := face.NominalGlyph(r); ok {
				out[i].Covered++
			} else {
				out[i].Missing = append(out[i].Missing, r)
			}
		}
	}
	return out, nil
}

// RuneName returns the Unicode name of r, or its U+ notation when unnamed.
func RuneName(r rune) string {
	if name := runenames.Name(r); name != "" {
		return name
	}
	return fmt.Sprintf("U+%04X", r)
}

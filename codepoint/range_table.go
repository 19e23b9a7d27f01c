package codepoint

import "image"

// Block is a contiguous range of glyph records.
type Block struct {
	Interval
	records []Glyph
}

func newBlock(iv Interval) *Block {
	records := make([]Glyph, iv.Len())
	for i := range records {
		records[i] = EmptyGlyph()
	}
	return &Block{Interval: iv, records: records}
}

// Glyph returns the record for code, or nil if code is outside the block.
func (b *Block) Glyph(code rune) *Glyph {
	if !b.Contains(code) {
		return nil
	}
	return &b.records[code-b.First]
}

// RangeTable maps code points to glyph records through an ordered list of
// blocks. Lookup is first-match-wins in registration order.
//
// RangeTable is not safe for concurrent mutation. After the atlas is built it
// is only read.
type RangeTable struct {
	blocks []*Block
}

// NewRangeTable creates an empty table.
func NewRangeTable() *RangeTable {
	return &RangeTable{}
}

// AddRange appends an empty block covering [first, last].
// Returns an *IntervalError and leaves the table unchanged if last < first.
func (t *RangeTable) AddRange(first, last rune) error {
	iv, err := NewInterval(first, last)
	if err != nil {
		return err
	}
	t.blocks = append(t.blocks, newBlock(iv))
	return nil
}

// EnsureSingle appends a [code, code] block unless a block already covers code.
// Reports whether a block was added.
func (t *RangeTable) EnsureSingle(code rune) bool {
	if t.Contains(code) {
		return false
	}
	t.blocks = append(t.blocks, newBlock(Interval{First: code, Last: code}))
	return true
}

// Clear discards all blocks.
func (t *RangeTable) Clear() {
	t.blocks = nil
}

// Len returns the number of blocks.
func (t *RangeTable) Len() int {
	return len(t.blocks)
}

// Blocks returns the blocks in registration order.
// The returned slice must not be modified.
func (t *RangeTable) Blocks() []*Block {
	return t.blocks
}

// Ranges returns a copy of the block intervals in registration order.
func (t *RangeTable) Ranges() []Interval {
	out := make([]Interval, len(t.blocks))
	for i, b := range t.blocks {
		out[i] = b.Interval
	}
	return out
}

// Contains reports whether any block covers code.
func (t *RangeTable) Contains(code rune) bool {
	return t.block(code) != nil
}

// Lookup returns the record for code from the first block that covers it,
// or nil when no block does.
func (t *RangeTable) Lookup(code rune) *Glyph {
	b := t.block(code)
	if b == nil {
		return nil
	}
	return b.Glyph(code)
}

// WriteGlyph stores the pixel rectangle px, normalized against the final
// atlas dimensions, and aspect into the record for code.
// Returns false without writing if no block covers code or the atlas
// dimensions are not positive.
func (t *RangeTable) WriteGlyph(code rune, px image.Rectangle, atlasWidth, atlasHeight int, aspect float32) bool {
	if atlasWidth <= 0 || atlasHeight <= 0 {
		return false
	}
	g := t.Lookup(code)
	if g == nil {
		return false
	}
	*g = Glyph{
		CodePoint: code,
		UV:        Normalize(px, atlasWidth, atlasHeight),
		Aspect:    aspect,
	}
	return true
}

// Overlapping returns index pairs (i < j) of blocks whose intervals overlap.
// Codes in an overlap resolve to block i.
func (t *RangeTable) Overlapping() [][2]int {
	var out [][2]int
	for i := 0; i < len(t.blocks); i++ {
		for j := i + 1; j < len(t.blocks); j++ {
			if t.blocks[i].Overlaps(t.blocks[j].Interval) {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

func (t *RangeTable) block(code rune) *Block {
	for _, b := range t.blocks {
		if b.Contains(code) {
			return b
		}
	}
	return nil
}

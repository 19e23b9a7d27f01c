// Package codepoint holds the code point data model of a glyph atlas.
//
// A RangeTable is an ordered list of blocks. Each block covers one Interval
// of code points and owns a dense slice of Glyph records addressed by
// code-First. Lookup scans blocks in registration order and the first block
// containing the code wins, so overlapping ranges shadow each other instead
// of being merged.
//
// A HideSet marks code points that never receive a generated atlas cell,
// typically control characters:
//
//	var hide codepoint.HideSet
//	hide.AddTable(unicode.Cc)
//	if hide.Contains(r) {
//	    // skip
//	}
package codepoint

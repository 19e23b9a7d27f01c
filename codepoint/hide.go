package codepoint

import (
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// HideSet is a set of intervals whose code points never receive a generated
// atlas cell. The zero value is an empty set.
type HideSet struct {
	intervals []Interval
}

// Add appends the interval [first, last].
// Returns an *IntervalError and leaves the set unchanged if last < first.
func (h *HideSet) Add(first, last rune) error {
	iv, err := NewInterval(first, last)
	if err != nil {
		return err
	}
	h.intervals = append(h.intervals, iv)
	return nil
}

// AddTable appends one interval per run of consecutive code points in rt.
func (h *HideSet) AddTable(rt *unicode.RangeTable) {
	if rt == nil {
		return
	}
	var (
		cur  Interval
		open bool
	)
	// Visit walks code points in ascending order.
	rangetable.Visit(rt, func(r rune) {
		if open && r == cur.Last+1 {
			cur.Last = r
			return
		}
		if open {
			h.intervals = append(h.intervals, cur)
		}
		cur = Interval{First: r, Last: r}
		open = true
	})
	if open {
		h.intervals = append(h.intervals, cur)
	}
}

// Clear removes all intervals.
func (h *HideSet) Clear() {
	h.intervals = nil
}

// Contains reports whether any interval covers code.
func (h *HideSet) Contains(code rune) bool {
	for _, iv := range h.intervals {
		if iv.Contains(code) {
			return true
		}
	}
	return false
}

// Len returns the number of intervals.
func (h *HideSet) Len() int {
	return len(h.intervals)
}

// Intervals returns a copy of the intervals in insertion order.
func (h *HideSet) Intervals() []Interval {
	out := make([]Interval, len(h.intervals))
	copy(out, h.intervals)
	return out
}

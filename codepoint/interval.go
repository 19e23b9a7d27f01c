package codepoint

import (
	"fmt"
	"unicode"
)

// Interval is an inclusive range of code points.
type Interval struct {
	First rune
	Last  rune
}

// IntervalError is returned when an interval has Last < First or reaches
// outside [0, unicode.MaxRune].
type IntervalError struct {
	First  rune
	Last   rune
	Reason string
}

func (e *IntervalError) Error() string {
	return fmt.Sprintf("codepoint: invalid interval [%#x, %#x]: %s", e.First, e.Last, e.Reason)
}

// NewInterval returns the interval [first, last] or an *IntervalError.
func NewInterval(first, last rune) (Interval, error) {
	iv := Interval{First: first, Last: last}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

// Validate checks that 0 <= First <= Last <= unicode.MaxRune.
func (iv Interval) Validate() error {
	switch {
	case iv.Last < iv.First:
		return &IntervalError{First: iv.First, Last: iv.Last, Reason: "last precedes first"}
	case iv.First < 0 || iv.Last > unicode.MaxRune:
		return &IntervalError{First: iv.First, Last: iv.Last, Reason: "outside the Unicode code space"}
	}
	return nil
}

// Contains reports whether code lies within the interval.
func (iv Interval) Contains(code rune) bool {
	return code >= iv.First && code <= iv.Last
}

// Len returns the number of code points covered.
func (iv Interval) Len() int {
	return int(iv.Last) - int(iv.First) + 1
}

// Overlaps reports whether the two intervals share at least one code point.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.First <= other.Last && other.First <= iv.Last
}

func (iv Interval) String() string {
	if iv.First == iv.Last {
		return fmt.Sprintf("U+%04X", iv.First)
	}
	return fmt.Sprintf("U+%04X-U+%04X", iv.First, iv.Last)
}

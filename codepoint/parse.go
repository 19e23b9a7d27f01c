package codepoint

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIntervals parses a comma separated list of code points and ranges.
// Each item is either a single code point or two code points joined by '-'.
// Code points are decimal, 0x-prefixed hex, or U+ hex:
//
//	"0x20-0x7E,U+00A0-U+00FF,8364"
func ParseIntervals(s string) ([]Interval, error) {
	var out []Interval
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(item, "-")
		first, err := parseCode(lo)
		if err != nil {
			return nil, err
		}
		last := first
		if isRange {
			if last, err = parseCode(hi); err != nil {
				return nil, err
			}
		}
		iv, err := NewInterval(first, last)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}

func parseCode(s string) (rune, error) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "U+"), strings.HasPrefix(s, "u+"):
		s, base = s[2:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("codepoint: bad code point %q: %w", s, err)
	}
	if v > 0x10FFFF {
		return 0, fmt.Errorf("codepoint: code point %#x out of range", v)
	}
	return rune(v), nil
}

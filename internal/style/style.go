// Package style resolves named timing tokens from the page's style
// configuration into durations.
package style

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Source exposes raw token values, e.g. "--transition-speed" -> "0.6s".
type Source interface {
	Lookup(name string) (string, bool)
}

// MapSource is a fixed token set, mostly useful in tests.
type MapSource map[string]string

func (m MapSource) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// Reader resolves timing tokens. Nothing is cached: every call reads the
// source again so live edits are picked up.
type Reader struct {
	src Source
}

func NewReader(src Source) *Reader {
	return &Reader{src: src}
}

// Ms returns the token value in milliseconds, or fallback when the token is
// absent, empty or not numeric.
func (r *Reader) Ms(name string, fallback float64) float64 {
	if r == nil || r.src == nil {
		return fallback
	}
	raw, ok := r.src.Lookup(name)
	if !ok {
		return fallback
	}
	return ParseMs(raw, fallback)
}

// Duration is Ms expressed as a time.Duration. Values beyond the range of
// time.Duration saturate.
func (r *Reader) Duration(name string, fallback time.Duration) time.Duration {
	ns := r.Ms(name, float64(fallback)/float64(time.Millisecond)) * float64(time.Millisecond)
	switch {
	case ns >= math.MaxInt64:
		return time.Duration(math.MaxInt64)
	case ns <= math.MinInt64:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(ns)
}

// ParseMs converts a raw token value to milliseconds. Values ending in "s"
// (but not "ms") are seconds.
func ParseMs(raw string, fallback float64) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, ok := leadingFloat(raw)
	if !ok {
		return fallback
	}
	if strings.HasSuffix(raw, "s") && !strings.HasSuffix(raw, "ms") {
		return n * 1000
	}
	return n
}

// leadingFloat parses the longest numeric prefix of s, ignoring whatever
// unit follows it.
func leadingFloat(s string) (float64, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	// Exponent only counts when it is followed by at least one digit.
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		if exp < len(s) && isDigit(s[exp]) {
			for exp < len(s) && isDigit(s[exp]) {
				exp++
			}
			end = exp
		}
	}
	n, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

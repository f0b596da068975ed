package generic

import (
	"iter"
	"math"
)

// SaturatingAdd returns a+b clamped to [math.MinInt, math.MaxInt].
func SaturatingAdd(a, b int) int {
	s := a + b
	switch {
	case b > 0 && s < a:
		return math.MaxInt
	case b < 0 && s > a:
		return math.MinInt
	}
	return s
}

// Window returns the inclusive bounds [c-radius, c+radius], clamped to the
// int range. radius must not be negative.
func Window(c, radius int) (lo, hi int) {
	return SaturatingAdd(c, -radius), SaturatingAdd(c, radius)
}

// Span yields every int from lo to hi inclusive, and nothing when lo > hi.
// hi may be math.MaxInt.
func Span(lo, hi int) iter.Seq[int] {
	return func(yield func(int) bool) {
		if lo > hi {
			return
		}
		for k := lo; ; k++ {
			if !yield(k) || k == hi {
				return
			}
		}
	}
}

// SpanLen returns how many values Span(lo, hi) yields. The full int range
// does not fit and saturates to math.MaxUint64.
func SpanLen(lo, hi int) uint64 {
	if lo > hi {
		return 0
	}
	d := uint64(hi) - uint64(lo)
	if d == math.MaxUint64 {
		return d
	}
	return d + 1
}

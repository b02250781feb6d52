package common

import "github.com/chewxy/math32"

// Coalesce returns the first non-zero value, or the zero value if all are zero.
// Used to fill unset configuration fields from their defaults.
//
// Parameters:
//   - values: candidates in priority order
//
// Returns:
//   - T: the first non-zero candidate
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float32) float32 {
	if math32.IsNaN(v) {
		return lo
	}
	return math32.Max(lo, math32.Min(hi, v))
}

package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// Percent maps loaded/total onto [0, 100]. A non-positive total yields 0,
// which is what the viewer shows for non-length-computable progress.
func Percent[T constraints.Integer](loaded, total T) float64 {
	if total <= 0 {
		return 0
	}
	p := float64(loaded) / float64(total) * 100.0
	return Clamp(p, 0.0, 100.0)
}

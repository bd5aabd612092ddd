package common

import "math"

// Lerp interpolates between a and b with t clamped to [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + Clamp01(t)*(b-a)
}

// LerpUnclamped interpolates between a and b without clamping t.
func LerpUnclamped(a, b, t float64) float64 {
	return a + t*(b-a)
}

// InverseLerp returns where v sits between a and b, clamped to [0, 1].
// A degenerate range yields 0.
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// Repeat wraps t into [0, length).
func Repeat(t, length float64) float64 {
	if length <= 0 {
		return 0
	}
	return Clamp(t-math.Floor(t/length)*length, 0, length)
}

func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

package util

import "math"

// Clamp01 clamps v into the [0.0, 1.0] range.
// AI providers occasionally return confidence values outside the
// documented range; persisted scores must always be in range.
func Clamp01(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package utils

import (
	"math"
)

// UniformStep returns the common spacing of times and whether every step
// matches it to within a relative 1e-9.
func UniformStep(times []float64) (dt float64, ok bool) {
	if len(times) < 2 {
		return 0, false
	}
	dt = times[1] - times[0]
	if dt <= 0 {
		return 0, false
	}
	for i := 2; i < len(times); i++ {
		if math.Abs(times[i]-times[i-1]-dt) > 1e-9*dt {
			return dt, false
		}
	}
	return dt, true
}

// Increasing reports whether times is non-empty, finite and strictly increasing.
func Increasing(times []float64) bool {
	if len(times) == 0 {
		return false
	}
	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return false
		}
		if i > 0 && t <= times[i-1] {
			return false
		}
	}
	return true
}

// Package utils contains small numeric, string and file helpers shared by the rigid-body packages.
package utils

import (
	"math"
)

// DefaultEpsilon is the tolerance used when comparing computed floats.
const DefaultEpsilon = 1e-9

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

package geom

import "math"

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a - b) < epsilon
}

func vectorEqual(a, b Vector) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

// Package geom provides shared geometry functionality for use by workers and the master.
package geom

import (
	"errors"
	"math"
)

// ErrZeroLength is returned when a zero-length vector is normalized.
var ErrZeroLength = errors.New("zero-length vector has no direction")

// Vector represents a vector in 3-dimensional space.
type Vector struct {
	X float64
	Y float64
	Z float64
}

// Point is a Vector used as a position.
type Point = Vector

// Add returns the sum of vectors a and b.
func (a Vector) Add(b Vector) Vector {
	return Vector{X: a.X + b.X, Y: a.Y + b.Y, Z: a.Z + b.Z}
}

// Sub returns the difference of vectors a and b.
func (a Vector) Sub(b Vector) Vector {
	return Vector{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z}
}

// Scale returns the vector a multiplied by the scalar s.
func (a Vector) Scale(s float64) Vector {
	return Vector{X: s * a.X, Y: s * a.Y, Z: s * a.Z}
}

// Mul returns the scalar s multiplied by the vector a.
// Mul(s, a) is always identical to a.Scale(s).
func Mul(s float64, a Vector) Vector {
	return a.Scale(s)
}

// Div returns the vector a divided by the scalar s, computed as a scaled by 1/s.
// Dividing by zero is not an error: the components follow IEEE-754 and become infinite (or NaN for zero components).
func (a Vector) Div(s float64) Vector {
	return a.Scale(1.0 / s)
}

// Dot returns the dot product of the vectors a and b.
func (a Vector) Dot(b Vector) float64 {
	return a.X * b.X + a.Y * b.Y + a.Z * b.Z
}

// Cross returns the cross product of the vectors a and b.
func (a Vector) Cross(b Vector) Vector {
	return Vector{X: a.Y * b.Z - a.Z * b.Y, Y: a.Z * b.X - a.X * b.Z, Z: a.X * b.Y - a.Y * b.X}
}

// Dot returns the dot product of the vectors a and b.
func Dot(a, b Vector) float64 {
	return a.Dot(b)
}

// Cross returns the (right-handed) cross product of the vectors a and b.
func Cross(a, b Vector) Vector {
	return a.Cross(b)
}

// Zero returns whether the vector a is a zero vector.
func (a Vector) Zero() bool {
	return a.X == 0.0 && a.Y == 0.0 && a.Z == 0.0
}

// Norm returns the normalized form of the vector a.
// A zero vector cannot be normalized, so ErrZeroLength is returned for it instead of a vector of NaNs.
func (a Vector) Norm() (Vector, error) {
	if a.Zero() {
		return Vector{}, ErrZeroLength
	}

	// Components this small square to zero.
	mag := a.Len()
	if mag == 0.0 {
		return Vector{}, ErrZeroLength
	}
	return a.Div(mag), nil
}

// Len returns the length of the vector a.
func (a Vector) Len() float64 {
	return math.Sqrt(a.Dot(a))
}

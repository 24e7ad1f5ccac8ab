// Package geom provides shared geometry functionality for use by workers and the master.
package geom

// Ray represents a half-line starting at Origin and heading along Dir.
// Dir does not need to be normalized.
type Ray struct {
	Origin Point
	Dir Vector
}

// At returns the point Origin + t * Dir.
func (r Ray) At(t float64) Point {
	return r.Origin.Add(r.Dir.Scale(t))
}

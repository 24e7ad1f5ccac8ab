// Package geom provides shared geometry functionality for use by workers and the master.
package geom

// Sphere represents a sphere in 3-dimensional space.
type Sphere struct {
	Center Point
	Radius float64
}

// Hit returns whether the ray r passes through the sphere s.
// A ray which only grazes the sphere (a single point of contact) is not a hit.
func (s Sphere) Hit(r Ray) bool {
	// Substitute the ray's parametric form into the sphere's equation, giving a*t^2 + b*t + c = 0.
	oc := r.Origin.Sub(s.Center)
	a := r.Dir.Dot(r.Dir)
	b := 2.0 * r.Dir.Dot(oc)
	c := oc.Dot(oc) - s.Radius * s.Radius

	// Two distinct real roots means the ray enters and leaves the sphere.
	discriminant := b * b - 4.0 * a * c
	return discriminant > 0.0
}

// HitsSphere returns whether the ray r passes through the sphere with the given center and radius.
func HitsSphere(center Point, radius float64, r Ray) bool {
	return Sphere{Center: center, Radius: radius}.Hit(r)
}

// Package state provides shared state information for use by workers and the master.
package state

import "github.com/mwindels/sphere-tracer/shared/geom"

// Camera represents a pinhole camera looking down the -Z axis through a rectangular viewport.
type Camera struct {
	Origin geom.Point
	Horizontal, Vertical geom.Vector	// The full width and height of the viewport.
	LowerLeftCorner geom.Point

	Width, Height int	// The size of the image in pixels.
}

// NewCamera derives a camera from a configuration.
// If the configuration is invalid, an error wrapping ErrInvalidConfig is returned.
func NewCamera(cfg Config) (Camera, error) {
	if err := cfg.Validate(); err != nil {
		return Camera{}, err
	}

	viewportWidth := cfg.AspectRatio * cfg.ViewportHeight

	origin := geom.Point{X: 0, Y: 0, Z: 0}
	horizontal := geom.Vector{X: viewportWidth, Y: 0, Z: 0}
	vertical := geom.Vector{X: 0, Y: cfg.ViewportHeight, Z: 0}
	lowerLeftCorner := origin.Sub(horizontal.Div(2)).Sub(vertical.Div(2)).Sub(geom.Vector{X: 0, Y: 0, Z: cfg.FocalLength})

	return Camera{
		Origin: origin,
		Horizontal: horizontal,
		Vertical: vertical,
		LowerLeftCorner: lowerLeftCorner,
		Width: cfg.ImageWidth,
		Height: cfg.ImageHeight(),
	}, nil
}

// RayThrough returns the ray from the camera through the viewport point (u, v).
// (0, 0) is the viewport's lower left corner, and (1, 1) is its upper right corner.
func (cam Camera) RayThrough(u, v float64) geom.Ray {
	dir := cam.LowerLeftCorner.Add(geom.Mul(u, cam.Horizontal)).Add(geom.Mul(v, cam.Vertical)).Sub(cam.Origin)
	return geom.Ray{Origin: cam.Origin, Dir: dir}
}

// PixelRay returns the ray through the pixel (i, j).
// The parameters i and j must be in the range [0, Width) and [0, Height) respectively, with j = 0 at the bottom of the viewport.
func (cam Camera) PixelRay(i, j int) geom.Ray {
	u := float64(i) / float64(cam.Width - 1)
	v := float64(j) / float64(cam.Height - 1)
	return cam.RayThrough(u, v)
}

// Row returns the image row (counted from the top) in which the pixel (i, j) is stored.
func (cam Camera) Row(j int) int {
	return cam.Height - 1 - j
}

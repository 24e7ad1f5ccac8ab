// Package tracer provides ray-tracing functionality shared by the distributed and sequential workers.
package tracer

import (
	"github.com/mwindels/sphere-tracer/shared/geom"
	"github.com/mwindels/sphere-tracer/shared/colour"
	"github.com/mwindels/sphere-tracer/shared/state"
)

// sky calculates the colour of the background in the direction of a ray.
// The colour blends from sky blue (straight down) to white (straight up).
func sky(r geom.Ray) (colour.RGB, error) {
	unitDir, err := r.Dir.Norm()
	if err != nil {
		return colour.RGB{}, err
	}

	// Scale the y component to be between 0 and 1.
	t := 0.5 * (unitDir.Y + 1.0)
	return colour.Lerp(colour.SkyBlue, colour.White, t), nil
}

// Shade calculates the colour seen along a single ray.
// Rays that hit the sphere are red, and every other ray sees the sky.
// An error is returned only if the ray's direction is a zero vector.
func Shade(r geom.Ray, s geom.Sphere) (colour.RGB8, error) {
	if s.Hit(r) {
		return colour.Red, nil
	}

	background, err := sky(r)
	if err != nil {
		return colour.RGB8{}, err
	}
	return background.RGB8(), nil
}

// Trace traces a single ray through the pixel (i, j) and into a scene.
// The parameters i and j must be in the ranges [0, width) and [0, height) respectively, with j = 0 at the bottom of the image.
func Trace(i, j int, env *state.Environment) (colour.RGB8, error) {
	return Shade(env.Cam.PixelRay(i, j), env.Sphere)
}

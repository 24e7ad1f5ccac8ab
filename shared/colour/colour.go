// Package colour provides shared colour objects for use by workers and the master.
package colour

import (
	"github.com/mwindels/sphere-tracer/shared/geom"
	"image/color"
	"math"
)

// These colours are used by the shader.
var (
	Red = RGB8{R: 0xFF, G: 0x00, B: 0x00}
	White = NewRGBFromFloats(1.0, 1.0, 1.0)
	SkyBlue = NewRGBFromFloats(0.5, 0.7, 1.0)
)

// RGB represents a colour with red, green, and blue channels.
// All channels are expected to be within the range [0, 1].
type RGB struct {
	r, g, b float64
}

// NewRGBFromFloats returns a new RGB object with the specified colours.
func NewRGBFromFloats(r, g, b float64) RGB {
	return RGB{r: r, g: g, b: b}
}

// NewRGBFromVector returns a new RGB object whose channels are the components of v.
func NewRGBFromVector(v geom.Vector) RGB {
	return RGB{r: v.X, g: v.Y, b: v.Z}
}

// Vector returns the channels of an RGB object as a vector, so they can be blended with vector arithmetic.
func (rgb RGB) Vector() geom.Vector {
	return geom.Vector{X: rgb.r, Y: rgb.g, Z: rgb.b}
}

// Lerp blends the RGB objects a and b, returning (1 - t) * a + t * b.
func Lerp(a, b RGB, t float64) RGB {
	return NewRGBFromVector(geom.Mul(1.0 - t, a.Vector()).Add(geom.Mul(t, b.Vector())))
}

// RGB8 converts an RGB object to 8-bit channels.
// Channels are truncated rather than rounded, so 0.999 maps to 254, and only 1.0 maps to 255.
// Channels outside of [0, 1] are clamped first.
func (rgb RGB) RGB8() RGB8 {
	return RGB8{R: channel(rgb.r), G: channel(rgb.g), B: channel(rgb.b)}
}

// channel converts a single [0, 1] channel to the range [0, 255].
func channel(c float64) uint8 {
	return uint8(math.Floor(math.Max(0.0, math.Min(c, 1.0)) * 255.0))
}

// RGB8 represents a colour with 8-bit red, green, and blue channels.
type RGB8 struct {
	R, G, B uint8
}

// RGBA returns the alpha-premultiplied channels of an RGB8 object, which is always opaque.
// This function allows RGB8 objects to be used with the Color (image/color) interface.
func (c RGB8) RGBA() (uint32, uint32, uint32, uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}.RGBA()
}

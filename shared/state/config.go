// Package state provides shared state information for use by workers and the master.
package state

import (
	"github.com/mwindels/sphere-tracer/shared/geom"
	"encoding/json"
	"errors"
	"math"
	"fmt"
	"os"
)

// ErrInvalidConfig is returned (wrapped) when a configuration cannot produce a render.
var ErrInvalidConfig = errors.New("invalid config")

// MaxPixels is the largest number of pixels an image may have.
// It keeps a whole frame allocatable and every dimension within a work order's uint32 fields.
const MaxPixels = 1 << 30

// Config holds every parameter of a render.
type Config struct {
	AspectRatio float64		`json:"aspect_ratio"`
	ImageWidth int			`json:"image_width"`
	ViewportHeight float64	`json:"viewport_height"`
	FocalLength float64		`json:"focal_length"`
	SphereCenter geom.Point	`json:"sphere_center"`
	SphereRadius float64	`json:"sphere_radius"`
	Output string			`json:"output"`
}

// DefaultConfig returns the configuration of the reference render: a 400x225 image of a red sphere.
func DefaultConfig() Config {
	return Config{
		AspectRatio: 16.0 / 9.0,
		ImageWidth: 400,
		ViewportHeight: 2.0,
		FocalLength: 1.0,
		SphereCenter: geom.Point{X: 0, Y: 0, Z: -1},
		SphereRadius: 0.5,
		Output: "result.png",
	}
}

// ImageHeight returns the height of the image in pixels, derived from its width and aspect ratio.
func (c Config) ImageHeight() int {
	return int(float64(c.ImageWidth) / c.AspectRatio)
}

// Sphere returns the configured sphere.
func (c Config) Sphere() geom.Sphere {
	return geom.Sphere{Center: c.SphereCenter, Radius: c.SphereRadius}
}

// Validate checks that a configuration describes a non-degenerate camera and sphere.
func (c Config) Validate() error {
	for _, field := range []struct{
		name string
		v float64
	}{
		{"aspect_ratio", c.AspectRatio},
		{"viewport_height", c.ViewportHeight},
		{"focal_length", c.FocalLength},
		{"sphere_radius", c.SphereRadius},
		{"sphere_center.x", c.SphereCenter.X},
		{"sphere_center.y", c.SphereCenter.Y},
		{"sphere_center.z", c.SphereCenter.Z},
	} {
		if math.IsNaN(field.v) || math.IsInf(field.v, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidConfig, field.name)
		}
	}

	switch {
	case c.AspectRatio <= 0:
		return fmt.Errorf("%w: aspect_ratio must be positive, got %g", ErrInvalidConfig, c.AspectRatio)
	case c.ViewportHeight <= 0:
		return fmt.Errorf("%w: viewport_height must be positive, got %g", ErrInvalidConfig, c.ViewportHeight)
	case c.FocalLength == 0:
		return fmt.Errorf("%w: focal_length must be non-zero", ErrInvalidConfig)
	case c.SphereRadius < 0:
		return fmt.Errorf("%w: sphere_radius must not be negative, got %g", ErrInvalidConfig, c.SphereRadius)
	case c.ImageWidth < 2:
		return fmt.Errorf("%w: image_width must be at least 2, got %d", ErrInvalidConfig, c.ImageWidth)
	case c.ImageWidth > MaxPixels / 2:
		return fmt.Errorf("%w: image_width must be at most %d, got %d", ErrInvalidConfig, MaxPixels / 2, c.ImageWidth)
	case float64(c.ImageWidth) / c.AspectRatio > MaxPixels / 2:
		// Checked in floating point so the conversion to int cannot overflow.
		return fmt.Errorf("%w: image height must be at most %d, got %g", ErrInvalidConfig, MaxPixels / 2, float64(c.ImageWidth) / c.AspectRatio)
	case c.ImageHeight() < 2:
		// u and v divide by (width - 1) and (height - 1).
		return fmt.Errorf("%w: image height must be at least 2, got %d", ErrInvalidConfig, c.ImageHeight())
	case c.ImageWidth > MaxPixels / c.ImageHeight():
		return fmt.Errorf("%w: %dx%d image exceeds %d pixels", ErrInvalidConfig, c.ImageWidth, c.ImageHeight(), MaxPixels)
	}
	return nil
}

// ConfigFromFile reads a JSON configuration file.
// Fields missing from the file keep their default values.
func ConfigFromFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err = json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config \"%s\": %w", path, err)
	}

	return cfg, nil
}

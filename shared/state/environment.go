// Package state provides shared state information for use by workers and the master.
package state

import "github.com/mwindels/sphere-tracer/shared/geom"

// Environment represents a 3-dimensional space containing a single sphere, as seen by a camera.
// An environment is read-only once built.
type Environment struct {
	Sphere geom.Sphere
	Cam Camera
}

// NewEnvironment builds the environment described by a configuration.
func NewEnvironment(cfg Config) (Environment, error) {
	cam, err := NewCamera(cfg)
	if err != nil {
		return Environment{}, err
	}

	return Environment{Sphere: cfg.Sphere(), Cam: cam}, nil
}

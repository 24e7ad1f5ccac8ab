// Package options provides the command line flags shared by the rendering programs.
package options

import (
	"github.com/mwindels/sphere-tracer/shared/state"
	"github.com/urfave/cli"
)

// These are the names of the render configuration flags.
const (
	ConfigFlag = "config"
	WidthFlag = "width"
	AspectFlag = "aspect"
	ViewportHeightFlag = "viewport-height"
	FocalLengthFlag = "focal-length"
	OutputFlag = "output"
	SphereXFlag = "sphere-x"
	SphereYFlag = "sphere-y"
	SphereZFlag = "sphere-z"
	SphereRadiusFlag = "sphere-radius"
)

// ConfigFlags returns the flags which override a render configuration.
func ConfigFlags() []cli.Flag {
	defaults := state.DefaultConfig()
	return []cli.Flag{
		cli.StringFlag{
			Name:  ConfigFlag,
			Usage: "path to a JSON render configuration",
		},
		cli.IntFlag{
			Name:  WidthFlag,
			Usage: "image width in pixels",
			Value: defaults.ImageWidth,
		},
		cli.Float64Flag{
			Name:  AspectFlag,
			Usage: "image aspect ratio (width / height)",
			Value: defaults.AspectRatio,
		},
		cli.Float64Flag{
			Name:  ViewportHeightFlag,
			Usage: "viewport height in world units",
			Value: defaults.ViewportHeight,
		},
		cli.Float64Flag{
			Name:  FocalLengthFlag,
			Usage: "distance from the camera to the viewport",
			Value: defaults.FocalLength,
		},
		cli.StringFlag{
			Name:  OutputFlag,
			Usage: "path of the PNG file to write",
			Value: defaults.Output,
		},
		cli.Float64Flag{
			Name:  SphereXFlag,
			Usage: "x coordinate of the sphere's centre",
			Value: defaults.SphereCenter.X,
		},
		cli.Float64Flag{
			Name:  SphereYFlag,
			Usage: "y coordinate of the sphere's centre",
			Value: defaults.SphereCenter.Y,
		},
		cli.Float64Flag{
			Name:  SphereZFlag,
			Usage: "z coordinate of the sphere's centre",
			Value: defaults.SphereCenter.Z,
		},
		cli.Float64Flag{
			Name:  SphereRadiusFlag,
			Usage: "radius of the sphere",
			Value: defaults.SphereRadius,
		},
	}
}

// Config builds a render configuration from the defaults, the --config file (if any), then any flags set explicitly.
func Config(c *cli.Context) (state.Config, error) {
	cfg := state.DefaultConfig()
	if path := c.String(ConfigFlag); path != "" {
		var err error
		if cfg, err = state.ConfigFromFile(path); err != nil {
			return state.Config{}, err
		}
	}

	if c.IsSet(WidthFlag) {
		cfg.ImageWidth = c.Int(WidthFlag)
	}
	if c.IsSet(AspectFlag) {
		cfg.AspectRatio = c.Float64(AspectFlag)
	}
	if c.IsSet(ViewportHeightFlag) {
		cfg.ViewportHeight = c.Float64(ViewportHeightFlag)
	}
	if c.IsSet(FocalLengthFlag) {
		cfg.FocalLength = c.Float64(FocalLengthFlag)
	}
	if c.IsSet(OutputFlag) {
		cfg.Output = c.String(OutputFlag)
	}
	if c.IsSet(SphereXFlag) {
		cfg.SphereCenter.X = c.Float64(SphereXFlag)
	}
	if c.IsSet(SphereYFlag) {
		cfg.SphereCenter.Y = c.Float64(SphereYFlag)
	}
	if c.IsSet(SphereZFlag) {
		cfg.SphereCenter.Z = c.Float64(SphereZFlag)
	}
	if c.IsSet(SphereRadiusFlag) {
		cfg.SphereRadius = c.Float64(SphereRadiusFlag)
	}

	return cfg, cfg.Validate()
}

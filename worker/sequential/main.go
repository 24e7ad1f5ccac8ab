package main

import (
	"github.com/veandco/go-sdl2/sdl"
	"github.com/mwindels/sphere-tracer/shared/state"
	"github.com/mwindels/sphere-tracer/shared/screen"
	"github.com/mwindels/sphere-tracer/shared/input"
	"github.com/mwindels/sphere-tracer/shared/raster"
	"github.com/mwindels/sphere-tracer/shared/options"
	"github.com/mwindels/sphere-tracer/worker/shared/tracer"
	"github.com/urfave/cli"
	"context"
	"runtime"
	"image"
	"time"
	"log"
	"os"
)

// SDL2 must only be used from the main thread.
func init() {
	runtime.LockOSThread()
}

// preview shows an image in a window until the window is closed or escape is pressed.
func preview(img image.Image) error {
	bounds := img.Bounds()

	// Start the screen.
	window, surface, err := screen.StartScreen("Sequential Ray-Tracer", bounds.Dx(), bounds.Dy())
	if err != nil {
		return err
	}
	defer screen.StopScreen(window)

	if err = screen.Draw(window, surface, img); err != nil {
		return err
	}

	// Wait for the user to close the window.
	for input.HandleInputs() {
		sdl.Delay(screen.MsPerFrame)
	}
	return nil
}

// render traces a whole image on this goroutine, writes it out, and optionally previews it.
func render(cfg state.Config, show bool) error {
	env, err := state.NewEnvironment(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	frame, err := tracer.Render(context.Background(), &env)
	if err != nil {
		return err
	}
	log.Printf("Traced %dx%d pixels in %v.\n", frame.Width, frame.Height, time.Since(start))

	if err = raster.WritePNG(cfg.Output, frame); err != nil {
		return err
	}
	log.Printf("Wrote \"%s\".\n", cfg.Output)

	if show {
		return preview(raster.Image(frame))
	}
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "sequential"
	app.Usage = "trace a red sphere against the sky on a single goroutine"
	app.Flags = append(options.ConfigFlags(),
		cli.BoolFlag{
			Name:  "preview",
			Usage: "show the finished image in a window",
		},
	)
	app.Action = func(c *cli.Context) error {
		cfg, err := options.Config(c)
		if err != nil {
			return err
		}
		return render(cfg, c.Bool("preview"))
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("Could not render: %v.\n", err)
	}
}

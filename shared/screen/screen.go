// Package screen provides screen-related functionality for previewing renders.
package screen

import (
	"github.com/veandco/go-sdl2/sdl"
	"image"
)

// These constants are timing values related to screen-updating.
const (
	FPS uint32 = 30
	MsPerFrame uint32 = 1000 / FPS
)

// StartScreen initializes SDL2 and a new window.
func StartScreen(name string, width, height int) (*sdl.Window, *sdl.Surface, error) {
	complete := false

	// Start SDL2.
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, nil, err
	}
	defer func() {
		if !complete {
			sdl.Quit()	// Only want to call Quit if this function doesn't complete.
		}
	}()

	// Create new window.
	window, err := sdl.CreateWindow(name, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(width), int32(height), sdl.WINDOW_SHOWN)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if !complete {
			window.Destroy()	// Again, only want to call if this function doesn't complete.
		}
	}()

	// Get the screen from the new window.
	surface, err := window.GetSurface()
	if err != nil {
		return nil, nil, err
	}

	complete = true
	return window, surface, nil
}

// Draw copies an image onto a window's surface and shows it.
// Pixels of img outside of the surface are ignored.
func Draw(window *sdl.Window, surface *sdl.Surface, img image.Image) error {
	// Clear the screen.
	surface.FillRect(nil, 0)

	bounds := img.Bounds()
	for i := 0; i < bounds.Dx() && i < int(surface.W); i++ {
		for j := 0; j < bounds.Dy() && j < int(surface.H); j++ {
			surface.Set(i, j, img.At(bounds.Min.X + i, bounds.Min.Y + j))
		}
	}

	// Update the screen.
	return window.UpdateSurface()
}

// StopScreen closes SDL2 and some window.
func StopScreen(window *sdl.Window) {
	window.Destroy()
	sdl.Quit()
}

// Package input provides functionality for event parsing.
package input

import "github.com/veandco/go-sdl2/sdl"

// HandleInputs parses all input events waiting in the queue.
// This function returns whether the window should stay open.
func HandleInputs() bool {
	running := true	// We assume this to be true.

	// Pull every event out of the queue and evaluate it.
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			running = false
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				running = false
			}
		}
	}
	return running
}

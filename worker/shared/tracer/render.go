// Package tracer provides ray-tracing functionality shared by the distributed and sequential workers.
package tracer

import (
	"github.com/mwindels/sphere-tracer/shared/colour"
	"github.com/mwindels/sphere-tracer/shared/state"
	"context"
	"fmt"
)

// Frame is a grid of pixels stored row by row, with row 0 at the top of the image.
type Frame struct {
	Width, Height int
	Pix []colour.RGB8
}

// NewFrame returns a black frame of the given size.
func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height, Pix: make([]colour.RGB8, width * height)}
}

// At returns the pixel in column x of row y.
func (f *Frame) At(x, y int) colour.RGB8 {
	return f.Pix[y * f.Width + x]
}

// Set sets the pixel in column x of row y.
func (f *Frame) Set(x, y int, c colour.RGB8) {
	f.Pix[y * f.Width + x] = c
}

// Render traces every pixel of an environment's image.
func Render(ctx context.Context, env *state.Environment) (*Frame, error) {
	return RenderRegion(ctx, env, 0, 0, env.Cam.Width, env.Cam.Height)
}

// RenderRegion traces the pixels of the rectangle with its top left corner in column x of row y.
// Rows are traced from the top of the image down, and pixels from left to right, on the calling goroutine.
// The returned frame is the size of the rectangle.
func RenderRegion(ctx context.Context, env *state.Environment, x, y, width, height int) (*Frame, error) {
	if x < 0 || y < 0 || width < 0 || height < 0 || x + width > env.Cam.Width || y + height > env.Cam.Height {
		return nil, fmt.Errorf("region %dx%d at (%d, %d) is outside of the %dx%d image", width, height, x, y, env.Cam.Width, env.Cam.Height)
	}

	frame := NewFrame(width, height)
	for row := 0; row < height; row++ {
		// Make sure the render hasn't been cancelled.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Image rows count down from the top, while j counts up from the bottom of the viewport.
		j := env.Cam.Row(y + row)
		for col := 0; col < width; col++ {
			i := x + col
			c, err := Trace(i, j, env)
			if err != nil {
				return nil, fmt.Errorf("could not trace pixel (%d, %d): %w", i, j, err)
			}
			frame.Set(col, row, c)
		}
	}

	return frame, nil
}

// Paste copies the frame src into f, with the top left corner of src landing in column x of row y.
func (f *Frame) Paste(src *Frame, x, y int) error {
	if x < 0 || y < 0 || x + src.Width > f.Width || y + src.Height > f.Height {
		return fmt.Errorf("%dx%d frame does not fit at (%d, %d) in a %dx%d frame", src.Width, src.Height, x, y, f.Width, f.Height)
	}

	for row := 0; row < src.Height; row++ {
		copy(f.Pix[(y + row) * f.Width + x:(y + row) * f.Width + x + src.Width], src.Pix[row * src.Width:(row + 1) * src.Width])
	}
	return nil
}

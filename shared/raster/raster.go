// Package raster provides conversion of traced frames to images, and image output.
package raster

import (
	"github.com/mwindels/sphere-tracer/worker/shared/tracer"
	"image/png"
	"image"
	"io"
	"os"
)

// Image copies a frame into an opaque RGBA image of the same size.
func Image(frame *tracer.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			c := frame.At(x, y)
			offset := img.PixOffset(x, y)
			img.Pix[offset + 0] = c.R
			img.Pix[offset + 1] = c.G
			img.Pix[offset + 2] = c.B
			img.Pix[offset + 3] = 0xFF
		}
	}
	return img
}

// EncodePNG writes a frame to w in the PNG format.
func EncodePNG(w io.Writer, frame *tracer.Frame) error {
	return png.Encode(w, Image(frame))
}

// WritePNG writes a frame to the PNG file at path, replacing any existing file.
func WritePNG(path string, frame *tracer.Frame) (err error) {
	outfile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := outfile.Close(); err == nil {
			err = closeErr
		}
	}()

	return EncodePNG(outfile, frame)
}

package raster

import (
	"github.com/mwindels/sphere-tracer/shared/colour"
	"github.com/mwindels/sphere-tracer/worker/shared/tracer"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"os"
)

func TestWritePNGRoundTrip(t *testing.T) {
	frame := tracer.NewFrame(3, 2)
	frame.Set(0, 0, colour.Red)
	frame.Set(2, 1, colour.RGB8{R: 10, G: 20, B: 30})

	path := filepath.Join(t.TempDir(), "result.png")
	if err := WritePNG(path, frame); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("decoded image is %v", b)
	}

	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 0, color.RGBA{255, 0, 0, 255}},
		{2, 1, color.RGBA{10, 20, 30, 255}},
		{1, 0, color.RGBA{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		if got := color.RGBAModel.Convert(img.At(tt.x, tt.y)).(color.RGBA); got != tt.want {
			t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestWritePNGBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "result.png")
	if err := WritePNG(path, tracer.NewFrame(2, 2)); err == nil {
		t.Error("expected an error writing into a missing directory")
	}
}

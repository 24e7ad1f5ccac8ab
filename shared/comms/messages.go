// Package comms provides the gRPC services used by the master and its workers.
//
// Messages travel inside protobuf well-known types: work orders and scene state are gob-encoded into
// BytesValue envelopes, and traced pixels are packed into a BytesValue as consecutive R, G, B bytes.
package comms

import (
	"github.com/mwindels/sphere-tracer/shared/colour"
	"github.com/mwindels/sphere-tracer/shared/state"
	"github.com/mwindels/sphere-tracer/worker/shared/tracer"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"encoding/gob"
	"bytes"
	"fmt"
)

// MasterState is sent to a worker when it registers.
type MasterState struct {
	Config state.Config
}

// WorkOrder asks a worker to trace a rectangle of the image.
// X and Y locate the rectangle's top left corner, with Y counted in rows from the top of the image.
type WorkOrder struct {
	X, Y uint32
	Width, Height uint32
}

// encode gob-encodes v into a BytesValue.
func encode(v interface{}) (*wrapperspb.BytesValue, error) {
	writer := bytes.Buffer{}
	if err := gob.NewEncoder(&writer).Encode(v); err != nil {
		return nil, err
	}
	return wrapperspb.Bytes(writer.Bytes()), nil
}

// decode gob-decodes a BytesValue into v.
func decode(msg *wrapperspb.BytesValue, v interface{}) error {
	if msg.GetValue() == nil {
		return fmt.Errorf("no data received")
	}
	return gob.NewDecoder(bytes.NewBuffer(msg.GetValue())).Decode(v)
}

// PackFrame packs the pixels of a frame into consecutive R, G, B bytes, row by row.
func PackFrame(frame *tracer.Frame) []byte {
	data := make([]byte, 0, 3 * len(frame.Pix))
	for _, c := range frame.Pix {
		data = append(data, c.R, c.G, c.B)
	}
	return data
}

// UnpackFrame rebuilds a width x height frame from packed pixels.
func UnpackFrame(data []byte, width, height int) (*tracer.Frame, error) {
	if len(data) != 3 * width * height {
		return nil, fmt.Errorf("expected %d bytes for a %dx%d frame, got %d", 3 * width * height, width, height, len(data))
	}

	frame := tracer.NewFrame(width, height)
	for k := range frame.Pix {
		frame.Pix[k] = colour.RGB8{R: data[3 * k], G: data[3 * k + 1], B: data[3 * k + 2]}
	}
	return frame, nil
}

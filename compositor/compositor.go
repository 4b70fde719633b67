// Package compositor assembles generated animation frames into a single
// horizontal sprite sheet.
package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/jpeg"
	_ "image/png"

	"github.com/fogleman/gg"
)

// ErrNoFrames rejects stitching an empty frame sequence.
var ErrNoFrames = errors.New("no frames to stitch")

// CompositionError reports a frame that failed to decode during stitching.
type CompositionError struct {
	Frame int
	Err   error
}

func (e *CompositionError) Error() string {
	return fmt.Sprintf("decode frame %d: %v", e.Frame, e.Err)
}

func (e *CompositionError) Unwrap() error { return e.Err }

// Stitch lays frames out left to right into one PNG. Cell size is the first
// frame's dimensions; frames of a different size are placed at the first
// frame's width offset without rescaling, which may clip or misalign them.
// Output order is strictly the input sequence order. All frames are decoded
// before anything is drawn.
func Stitch(frames [][]byte) ([]byte, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	decoded := make([]image.Image, len(frames))
	for i, frame := range frames {
		img, _, err := image.Decode(bytes.NewReader(frame))
		if err != nil {
			return nil, &CompositionError{Frame: i, Err: err}
		}
		decoded[i] = img
	}

	cellW := decoded[0].Bounds().Dx()
	cellH := decoded[0].Bounds().Dy()

	dc := gg.NewContext(cellW*len(decoded), cellH)
	for i, img := range decoded {
		dc.DrawImage(img, i*cellW, 0)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode sheet: %w", err)
	}
	return buf.Bytes(), nil
}

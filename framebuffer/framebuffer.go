// Package framebuffer provides the page-major monochrome frame that screens are rendered
// into, composed from and flushed to the display.
//
// A frame is Pages × Columns bytes. Byte page*Columns+column holds 8 vertically stacked
// pixels of that column, bit 0 being the topmost pixel of the page. This is the wire
// format of SSD1306 class controllers, so a frame can be pushed to the device as is.
package framebuffer

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/BeatGlow/oled/pixel"
)

// ErrGeometry is returned when a frame does not match the expected geometry.
var ErrGeometry = errors.New("framebuffer: geometry mismatch")

// PageHeight is the number of pixel rows packed in one byte.
const PageHeight = 8

// Geometry is the size of a frame in columns and pages.
type Geometry struct {
	Columns int
	Pages   int
}

// Default is the 128×64 geometry of the reference device.
var Default = Geometry{Columns: 128, Pages: 8}

// GeometryFor returns the geometry for a display of w×h pixels.
func GeometryFor(w, h int) Geometry {
	return Geometry{Columns: w, Pages: (h + PageHeight - 1) / PageHeight}
}

// Size is the frame size in bytes.
func (g Geometry) Size() int { return g.Columns * g.Pages }

// Width in pixels.
func (g Geometry) Width() int { return g.Columns }

// Height in pixels.
func (g Geometry) Height() int { return g.Pages * PageHeight }

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d (%d pages)", g.Width(), g.Height(), g.Pages)
}

// FrameBuffer is a fixed size page-major monochrome frame.
type FrameBuffer struct {
	Geometry

	// Pix holds exactly Geometry.Size() bytes.
	Pix []byte
}

// New returns an all-zero frame.
func New(g Geometry) *FrameBuffer {
	return &FrameBuffer{
		Geometry: g,
		Pix:      make([]byte, g.Size()),
	}
}

// Validate checks that the frame holds exactly as many bytes as its geometry requires and
// that its geometry equals want.
func (fb *FrameBuffer) Validate(want Geometry) error {
	if fb == nil {
		return fmt.Errorf("%w: nil frame", ErrGeometry)
	}
	if fb.Geometry != want {
		return fmt.Errorf("%w: frame is %s, expected %s", ErrGeometry, fb.Geometry, want)
	}
	if len(fb.Pix) != want.Size() {
		return fmt.Errorf("%w: frame holds %d bytes, expected %d", ErrGeometry, len(fb.Pix), want.Size())
	}
	return nil
}

// Len is the number of bytes in the frame.
func (fb *FrameBuffer) Len() int { return len(fb.Pix) }

// Clear turns all pixels off.
func (fb *FrameBuffer) Clear() {
	for i := range fb.Pix {
		fb.Pix[i] = 0
	}
}

// Page returns the bytes of page p, sharing storage with the frame.
func (fb *FrameBuffer) Page(p int) []byte {
	off := p * fb.Columns
	return fb.Pix[off : off+fb.Columns : off+fb.Columns]
}

// CopyFrom overwrites the frame with src. Both frames must have the same size.
func (fb *FrameBuffer) CopyFrom(src *FrameBuffer) {
	copy(fb.Pix, src.Pix)
}

// CopyColumns copies columns [x0, x1) of every page from src.
func (fb *FrameBuffer) CopyColumns(src *FrameBuffer, x0, x1 int) {
	if x0 < 0 {
		x0 = 0
	}
	if x1 > fb.Columns {
		x1 = fb.Columns
	}
	if x0 >= x1 {
		return
	}
	for p := 0; p < fb.Pages; p++ {
		off := p * fb.Columns
		copy(fb.Pix[off+x0:off+x1], src.Pix[off+x0:off+x1])
	}
}

// Equal reports whether both frames hold the same bytes.
func (fb *FrameBuffer) Equal(other *FrameBuffer) bool {
	return bytes.Equal(fb.Pix, other.Pix)
}

// Image returns a drawable view of the frame. Drawing into the view changes the frame.
func (fb *FrameBuffer) Image() *pixel.MonoVerticalLSBImage {
	return &pixel.MonoVerticalLSBImage{
		Buffer: pixel.Buffer{
			Rect:   image.Rect(0, 0, fb.Width(), fb.Height()),
			Pix:    fb.Pix,
			Stride: fb.Columns,
		},
	}
}

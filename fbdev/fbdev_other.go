//go:build !linux

package fbdev

import (
	"github.com/BeatGlow/oled/framebuffer"
)

// Device is not available on this platform.
type Device struct{}

// Open returns ErrNotSupported.
func Open(_ string) (*Device, error) {
	return nil, ErrNotSupported
}

func (*Device) String() string                       { return "fbdev (not supported)" }
func (*Device) Close() error                         { return nil }
func (*Device) Geometry() framebuffer.Geometry       { return framebuffer.Geometry{} }
func (*Device) Flush(*framebuffer.FrameBuffer) error { return ErrNotSupported }
func (*Device) Show(bool) error                      { return ErrNotSupported }
func (*Device) SetContrast(uint8) error              { return ErrNotSupported }

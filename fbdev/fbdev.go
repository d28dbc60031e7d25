// Package fbdev flushes frames to a monochrome Linux framebuffer device such as the one
// created by the ssd1307fb kernel driver.
package fbdev

import (
	"errors"

	"github.com/BeatGlow/oled/framebuffer"
	"github.com/BeatGlow/oled/pixel"
)

// Errors
var (
	ErrNotSupported = errors.New("fbdev: not supported")
	ErrFormat       = errors.New("fbdev: unsupported pixel format")
)

// blit converts a page-major frame into the row-major, least significant bit first
// memory of a 1bpp framebuffer. Pixels outside either image are left alone. When invert
// is set a lit pixel is stored as 0.
func blit(dst *pixel.MonoImage, src *framebuffer.FrameBuffer, invert bool) {
	var (
		w = min(dst.Rect.Dx(), src.Width())
		h = min(dst.Rect.Dy(), src.Height())
	)
	for y := 0; y < h; y++ {
		var (
			page = src.Page(y / framebuffer.PageHeight)
			bit  = byte(1) << uint(y%framebuffer.PageHeight)
			row  = dst.Pix[y*dst.Stride:]
		)
		for x := 0; x < w; x++ {
			on := page[x]&bit != 0
			if on != invert {
				row[x>>3] |= 1 << uint(x&7)
			} else {
				row[x>>3] &^= 1 << uint(x&7)
			}
		}
	}
}

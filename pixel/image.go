package pixel

import (
	"image"
	"image/color"

	"github.com/BeatGlow/oled/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// Buffer holds the pixel values and is shared by the image formats in this package.
type Buffer struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []byte

	// Stride is the Pix stride (in bytes) between rows of storage. For row-major images
	// that is one pixel row, for vertical images one page (8 pixel rows).
	Stride int
}

func (p *Buffer) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Buffer) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0x00
	}
}

func (p *Buffer) fill(c color.Color) {
	var value byte
	if monoModel(c).(Mono).On {
		value = 0xff
	}
	for i := range p.Pix {
		p.Pix[i] = value
	}
}

// MonoImage is a 1-bit per pixel row-major image, least significant bit first.
//
// This is the memory layout of Linux monochrome framebuffers such as ssd1307fb.
type MonoImage struct {
	Buffer
}

func NewMonoImage(w, h int) *MonoImage {
	stride := (w + 7) / 8 // round up to whole bytes
	return &MonoImage{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    make([]byte, stride*h),
			Stride: stride,
		},
	}
}

func (p *MonoImage) ColorModel() color.Model {
	return MonoModel
}

func (p *MonoImage) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)/8
}

func (p *MonoImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	bit := byte(1) << uint((x-p.Rect.Min.X)&7)
	return Mono{On: p.Pix[p.PixOffset(x, y)]&bit != 0}
}

func (p *MonoImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	var (
		pos = p.PixOffset(x, y)
		bit = byte(1) << uint((x-p.Rect.Min.X)&7)
	)
	if monoModel(c).(Mono).On {
		p.Pix[pos] |= bit
	} else {
		p.Pix[pos] &^= bit
	}
}

func (p *MonoImage) Fill(c color.Color) {
	p.fill(c)
}

// MonoVerticalLSBImage is a 1-bit per pixel image stored in pages of 8 pixel rows.
//
// Each byte holds 8 vertically stacked pixels of one column, bit 0 being the top pixel
// of the page. Byte index is page*Stride + column. This is the GDDRAM layout of the
// SSD1306 and SH1106 OLED controllers.
type MonoVerticalLSBImage struct {
	Buffer
}

func NewMonoVerticalLSBImage(w, h int) *MonoVerticalLSBImage {
	pages := (h + 7) / 8 // round up to whole pages
	return &MonoVerticalLSBImage{
		Buffer: Buffer{
			Rect:   image.Rect(0, 0, w, h),
			Pix:    make([]byte, pages*w),
			Stride: w,
		},
	}
}

func (p *MonoVerticalLSBImage) ColorModel() color.Model {
	return MonoModel
}

// PixOffset returns the index of the byte holding pixel (x, y).
func (p *MonoVerticalLSBImage) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)/8*p.Stride + (x - p.Rect.Min.X)
}

func (p *MonoVerticalLSBImage) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	bit := byte(1) << uint((y-p.Rect.Min.Y)&7)
	return Mono{On: p.Pix[p.PixOffset(x, y)]&bit != 0}
}

func (p *MonoVerticalLSBImage) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	var (
		pos = p.PixOffset(x, y)
		bit = byte(1) << uint((y-p.Rect.Min.Y)&7)
	)
	if monoModel(c).(Mono).On {
		p.Pix[pos] |= bit
	} else {
		p.Pix[pos] &^= bit
	}
}

func (p *MonoVerticalLSBImage) Fill(c color.Color) {
	p.fill(c)
}

// Interface checks.
var (
	_ Image = (*MonoImage)(nil)
	_ Image = (*MonoVerticalLSBImage)(nil)
)

package draw

import (
	"image"
	"image/color"
)

// Line draws a line between two points, both inclusive.
func Line(dst Image, a, b image.Point, c color.Color) {
	bresenham(dst, a.X, a.Y, b.X, b.Y, c)
}

// HorizontalLine draws a line between (x,y) and (x+w-1,y).
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	for i := 0; i < w; i++ {
		dst.Set(x+i, y, c)
	}
}

// VerticalLine draws a line between (x,y) and (x,y+h-1).
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	for i := 0; i < h; i++ {
		dst.Set(x, y+i, c)
	}
}

// Rectangle draws the one pixel outline of rect. Max is exclusive.
func Rectangle(dst Image, rect image.Rectangle, c color.Color) {
	rect = rect.Canon()
	if rect.Empty() {
		return
	}
	var (
		w = rect.Dx()
		h = rect.Dy()
	)
	HorizontalLine(dst, rect.Min.X, rect.Min.Y, w, c)
	HorizontalLine(dst, rect.Min.X, rect.Max.Y-1, w, c)
	VerticalLine(dst, rect.Min.X, rect.Min.Y, h, c)
	VerticalLine(dst, rect.Max.X-1, rect.Min.Y, h, c)
}

// Box draws a filled rectangle. Max is exclusive.
func Box(dst Image, rect image.Rectangle, c color.Color) {
	rect = rect.Canon()
	for x := rect.Min.X; x < rect.Max.X; x++ {
		VerticalLine(dst, x, rect.Min.Y, rect.Dy(), c)
	}
}

// Bar draws a progress bar: an outlined rect with an inner fill of percent (0-100) of its
// width, inset by inset pixels on every side.
func Bar(dst Image, rect image.Rectangle, inset int, percent float64, c color.Color) {
	Rectangle(dst, rect, c)
	switch {
	case percent != percent: // NaN
		return
	case percent < 0:
		percent = 0
	case percent > 100:
		percent = 100
	}
	inner := rect.Inset(inset)
	fill := int(percent / 100 * float64(inner.Dx()))
	if fill > 0 {
		inner.Max.X = inner.Min.X + fill
		Box(dst, inner, c)
	}
}

func bresenham(dst Image, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		dst.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Package pixel implements the monochrome color model and the packed 1-bit images used
// by page-addressed OLED controllers.
//
// The images are compatible with Go's native [color.Color] and [image.Image] /
// [draw.Image] interfaces, so text and shapes can be drawn straight into a frame.
package pixel

// Package oled contains drivers for page addressed monochrome OLED displays.
//
// Every driver accepts page-major frames (see package framebuffer) and pushes them to the
// controller as is, one page at a time.
package oled

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BeatGlow/oled/framebuffer"
	"github.com/BeatGlow/oled/internal/logger"
)

// Errors
var (
	ErrSize     = errors.New("oled: unsupported display size")
	ErrRotation = errors.New("oled: unsupported rotation")
)

// DebugEnv enables debug logging to stderr when set to a non-empty value.
const DebugEnv = "OLED_DEBUG"

// SetLogger sets the logger used by all packages of this module. The default logger
// discards everything; nil restores it.
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

// Logger returns the logger in use.
func Logger() *slog.Logger {
	return logger.Get()
}

// LoggerFromEnv returns a text logger on stderr logging at debug level if [DebugEnv] is
// set, at info level otherwise.
func LoggerFromEnv() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv(DebugEnv) != "" {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Rotation defines pixel rotation.
type Rotation uint8

// Rotations. The controllers only remap segments and COM scan direction in hardware, so
// only NoRotation and Rotate180 are supported by the drivers.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// ParseRotation parses a rotation as accepted on the command line.
func ParseRotation(s string) (Rotation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no", "0":
		return NoRotation, nil
	case "90", "right", "cw":
		return Rotate90, nil
	case "180", "flip":
		return Rotate180, nil
	case "270", "left", "ccw":
		return Rotate270, nil
	default:
		return NoRotation, fmt.Errorf("%w: %q", ErrRotation, s)
	}
}

// Display is a monochrome display accepting page-major frames.
type Display interface {
	fmt.Stringer

	// Close the display driver.
	Close() error

	// Geometry of the frames accepted by Flush.
	Geometry() framebuffer.Geometry

	// Flush pushes a frame to the display. The frame must match Geometry.
	Flush(*framebuffer.FrameBuffer) error

	// Show toggles the display on or off.
	Show(bool) error

	// SetContrast adjusts the contrast level.
	SetContrast(level uint8) error
}

// Config is the display configuration.
type Config struct {
	// Width of the display in pixels.
	Width int

	// Height of the display in pixels.
	Height int

	// Rotation of the display.
	Rotation Rotation

	// Contrast level after initialisation, zero selects the controller default.
	Contrast uint8
}

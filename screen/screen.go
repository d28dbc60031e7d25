// Package screen defines the screens the device cycles through, the data snapshot they
// are rendered from and the renderer contract.
package screen

import (
	"fmt"
	"strings"

	"github.com/BeatGlow/oled/framebuffer"
)

// ID identifies a screen.
type ID int

// Screens in canonical cycling order.
const (
	Time ID = iota
	Weather
	AirQuality
	Crypto
	PCMonitor
)

// Count is the number of screens.
const Count = 5

// Order lists all screens in canonical order.
var Order = [Count]ID{Time, Weather, AirQuality, Crypto, PCMonitor}

var names = [Count]string{"time", "weather", "air-quality", "crypto", "pc-monitor"}

func (id ID) String() string {
	if id < 0 || int(id) >= Count {
		return fmt.Sprintf("screen(%d)", int(id))
	}
	return names[id]
}

// Valid reports whether id is one of the known screens.
func (id ID) Valid() bool {
	return id >= 0 && int(id) < Count
}

// Parse returns the screen with the given name.
func Parse(name string) (ID, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return ID(i), nil
		}
	}
	return 0, fmt.Errorf("screen: unknown screen %q", name)
}

// Renderer draws a screen into a frame.
//
// Render must be a pure function of its inputs: the same id and snapshot produce a byte
// identical frame. The frame is cleared by the caller. Missing data is never an error,
// a placeholder frame is drawn instead.
type Renderer interface {
	Render(id ID, snap *Snapshot, fb *framebuffer.FrameBuffer)
}

// RendererFunc is an adapter to use an ordinary function as a [Renderer].
type RendererFunc func(id ID, snap *Snapshot, fb *framebuffer.FrameBuffer)

func (f RendererFunc) Render(id ID, snap *Snapshot, fb *framebuffer.FrameBuffer) {
	f(id, snap, fb)
}

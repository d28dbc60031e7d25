package transition

import (
	"time"

	"github.com/BeatGlow/oled/framebuffer"
)

const (
	slideStep      = 8 // columns per horizontal slide frame
	verticalDelay  = 10 * time.Millisecond
	curtainStep    = 4 // columns added to the curtain radius per frame
	numBlinds      = 8
	blindsStep     = 2 // columns revealed per blind per frame
	blindsDelay    = 5 * time.Millisecond
	numDissolveMix = 8
)

// dissolveMasks select which bits of every byte come from the new frame. Bit 7 is the
// bottom pixel of a page, so the bottom rows appear first. The fourth mask brings in row 2
// ahead of rows 3 and 4.
var dissolveMasks = [numDissolveMix]byte{
	0b10000000,
	0b11000000,
	0b11100000,
	0b11100100,
	0b11110100,
	0b11111100,
	0b11111110,
	0b11111111,
}

// sequence is the composition strategy of one effect.
type sequence struct {
	// frames is the number of frames flushed for the geometry.
	frames func(g framebuffer.Geometry) int

	// compose writes frame i into dst. It overwrites every byte of dst and never
	// modifies old or new.
	compose func(dst, old, new *framebuffer.FrameBuffer, i int)

	// delay is the pause after flushing frame i.
	delay func(i int) time.Duration
}

var sequences = [NumEffects]sequence{
	None: {
		frames:  func(framebuffer.Geometry) int { return 1 },
		compose: func(dst, _, new *framebuffer.FrameBuffer, _ int) { dst.CopyFrom(new) },
		delay:   noDelay,
	},
	SlideHorizontal: {
		frames:  slideFrames,
		compose: composeSlideHorizontal,
		delay:   noDelay,
	},
	SlideVertical: {
		frames:  func(g framebuffer.Geometry) int { return g.Pages + 1 },
		compose: composeSlideVertical,
		delay:   func(int) time.Duration { return verticalDelay },
	},
	Dissolve: {
		frames:  func(framebuffer.Geometry) int { return numDissolveMix },
		compose: composeDissolve,
		delay:   noDelay,
	},
	Curtain: {
		frames:  curtainFrames,
		compose: composeCurtain,
		delay:   noDelay,
	},
	Blinds: {
		frames:  blindsFrames,
		compose: composeBlinds,
		delay: func(i int) time.Duration {
			if i == 0 {
				return 0
			}
			return blindsDelay
		},
	},
}

func noDelay(int) time.Duration { return 0 }

func lookup(effect Effect) sequence {
	if int(effect) >= NumEffects {
		return sequences[None]
	}
	return sequences[effect]
}

// Frames returns the number of frames the effect flushes for the geometry.
func Frames(effect Effect, g framebuffer.Geometry) int {
	return lookup(effect).frames(g)
}

// Compose writes frame i of the effect into dst. Frame 0 is the first frame flushed and
// frame Frames(effect)-1 equals new.
func Compose(effect Effect, dst, old, new *framebuffer.FrameBuffer, i int) {
	lookup(effect).compose(dst, old, new, i)
}

// Delay returns the pause after frame i of the effect.
func Delay(effect Effect, i int) time.Duration {
	return lookup(effect).delay(i)
}

// Horizontal slide: the old frame scrolls left by offset columns while the new frame
// enters from the right. Offsets are 0, 8, ... up to the width.

func slideFrames(g framebuffer.Geometry) int {
	return (g.Columns+slideStep-1)/slideStep + 1
}

func composeSlideHorizontal(dst, old, new *framebuffer.FrameBuffer, i int) {
	offset := min(i*slideStep, dst.Columns)
	for p := 0; p < dst.Pages; p++ {
		row := dst.Page(p)
		copy(row, old.Page(p)[offset:])
		copy(row[dst.Columns-offset:], new.Page(p)[:offset])
	}
}

// Vertical slide: page p shows old page p+i, or new page p+i-Pages once past the bottom.

func composeSlideVertical(dst, old, new *framebuffer.FrameBuffer, i int) {
	for p := 0; p < dst.Pages; p++ {
		if src := p + i; src < dst.Pages {
			copy(dst.Page(p), old.Page(src))
		} else {
			copy(dst.Page(p), new.Page(src-dst.Pages))
		}
	}
}

// Dissolve: every byte mixes new and old through the same bit mask.

func composeDissolve(dst, old, new *framebuffer.FrameBuffer, i int) {
	mask := dissolveMasks[i]
	for j := range dst.Pix {
		dst.Pix[j] = new.Pix[j]&mask | old.Pix[j]&^mask
	}
}

// Curtain: a band of whole columns [center-r, center+r) shows the new frame. The radius
// grows by 4 up to 5/8 of the width (80 for 128 columns).

func curtainRadius(g framebuffer.Geometry) int {
	return g.Columns * 5 / 8
}

// Narrow geometries still get a final frame that opens the whole width.
func curtainFrames(g framebuffer.Geometry) int {
	return max((curtainRadius(g)+curtainStep-1)/curtainStep+1, 2)
}

func composeCurtain(dst, old, new *framebuffer.FrameBuffer, i int) {
	var (
		center = dst.Columns / 2
		radius = i * curtainStep
	)
	dst.CopyFrom(old)
	dst.CopyColumns(new, center-radius, center+radius)
}

// Blinds: frame 0 is the old frame, then 8 blinds open in lockstep, two columns per frame.
// The last blind absorbs columns left over when the width is not a multiple of 8, and
// below 8 columns the blinds are empty and the last frame copies the whole width.

func blindWidth(g framebuffer.Geometry) int {
	return g.Columns / numBlinds
}

func blindsFrames(g framebuffer.Geometry) int {
	return max((blindWidth(g)+blindsStep-1)/blindsStep+1, 2)
}

func composeBlinds(dst, old, new *framebuffer.FrameBuffer, i int) {
	dst.CopyFrom(old)
	if i == 0 {
		return
	}
	var (
		width    = blindWidth(dst.Geometry)
		revealed = i * blindsStep
		last     = i == blindsFrames(dst.Geometry)-1
	)
	for b := 0; b < numBlinds; b++ {
		start, end := b*width, (b+1)*width
		if b == numBlinds-1 {
			end = dst.Columns
		}
		if !last {
			end = min(start+revealed, end)
		}
		dst.CopyColumns(new, start, end)
	}
}

package oled

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/oled/framebuffer"
	"github.com/BeatGlow/oled/internal/logger"
)

// resetPulse is the time the reset line is held low.
const resetPulse = 10 * time.Millisecond

// monoDisplay implements the parts shared by the page addressed controllers.
type monoDisplay struct {
	c        Conn
	name     string
	geometry framebuffer.Geometry
	rotation Rotation
	halted   bool

	// page sends the addressing commands before the data of page p.
	page func(p int) error
}

func (d *monoDisplay) init(config *Config) error {
	if config.Rotation != NoRotation && config.Rotation != Rotate180 {
		return fmt.Errorf("%w: %s does not support %s", ErrRotation, d.name, config.Rotation)
	}
	if config.Height%framebuffer.PageHeight != 0 {
		return fmt.Errorf("%w: %s height %d is not a multiple of %d", ErrSize, d.name, config.Height, framebuffer.PageHeight)
	}
	d.geometry = framebuffer.GeometryFor(config.Width, config.Height)
	d.rotation = config.Rotation
	return nil
}

// reset pulses the reset line of the controller.
func (d *monoDisplay) reset() error {
	if err := d.c.Reset(gpio.High); err != nil {
		return err
	}
	time.Sleep(time.Millisecond)
	if err := d.c.Reset(gpio.Low); err != nil {
		return err
	}
	time.Sleep(resetPulse)
	return d.c.Reset(gpio.High)
}

func (d *monoDisplay) command(command byte, args ...byte) error {
	return d.c.Command(command, args...)
}

// remap returns the segment remap and COM scan direction commands for the rotation.
func (d *monoDisplay) remap() (segment, scan byte) {
	if d.rotation == Rotate180 {
		return setSegmentRemapNormal, setComScanInc
	}
	return setSegmentRemap, setComScanDec
}

func (d *monoDisplay) String() string {
	return fmt.Sprintf("%s OLED %dx%d", d.name, d.geometry.Width(), d.geometry.Height())
}

func (d *monoDisplay) Geometry() framebuffer.Geometry {
	return d.geometry
}

// Flush sends the frame one page at a time.
func (d *monoDisplay) Flush(fb *framebuffer.FrameBuffer) error {
	if err := fb.Validate(d.geometry); err != nil {
		return fmt.Errorf("oled: %s: %w", d.name, err)
	}
	for p := 0; p < d.geometry.Pages; p++ {
		if err := d.page(p); err != nil {
			return err
		}
		if err := d.c.Data(fb.Page(p)...); err != nil {
			return err
		}
	}
	return nil
}

func (d *monoDisplay) Close() error {
	if !d.halted {
		if err := d.Show(false); err != nil {
			_ = d.c.Close()
			return err
		}
		d.halted = true
	}
	logger.Get().Debug("oled: closed", "display", d.String())
	return d.c.Close()
}

func (d *monoDisplay) Show(show bool) error {
	if show {
		return d.command(setDisplayOn)
	}
	return d.command(setDisplayOff)
}

func (d *monoDisplay) SetContrast(level uint8) error {
	return d.command(setContrast, level)
}

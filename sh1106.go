package oled

import (
	"fmt"

	"github.com/BeatGlow/oled/internal/logger"
)

const (
	sh1106DefaultWidth    = 128
	sh1106DefaultHeight   = 64
	sh1106DefaultContrast = 0x7F

	// The SH1106 has 132 columns of RAM, 128 wide panels are wired to columns 2..129.
	sh1106ColumnOffset = 2
)

type sh1106 struct {
	monoDisplay
}

// SH1106 is a driver for the Sino Wealth SH1106 OLED controller.
//
// Supported sizes are 128×32 and 128×64 (the default).
func SH1106(conn Conn, config *Config) (Display, error) {
	if config == nil {
		config = new(Config)
	}
	d := &sh1106{
		monoDisplay: monoDisplay{
			c:    conn,
			name: "SH1106",
		},
	}
	d.page = d.setPage

	if config.Width == 0 {
		config.Width = sh1106DefaultWidth
	}
	if config.Height == 0 {
		config.Height = sh1106DefaultHeight
	}

	if err := d.init(config); err != nil {
		return nil, err
	}

	logger.Get().Debug("oled: initialised", "display", d.String(), "conn", conn.String(), "rotation", d.rotation)
	return d, nil
}

func (d *sh1106) init(config *Config) (err error) {
	var (
		multiplexRatio byte
		displayOffset  byte
	)
	switch {
	case config.Width == 128 && config.Height == 32:
		multiplexRatio, displayOffset = 0x1f, 0x0f
	case config.Width == 128 && config.Height == 64:
		multiplexRatio, displayOffset = 0x3f, 0x00
	default:
		return fmt.Errorf("%w: SH1106 %dx%d", ErrSize, config.Width, config.Height)
	}

	if err = d.monoDisplay.init(config); err != nil {
		return
	}
	if err = d.reset(); err != nil {
		return
	}

	segment, scan := d.remap()
	for _, command := range [][]byte{
		{setDisplayOff},
		{setMemoryMode, pageAddressing},
		{setPageStart},
		{scan},
		{setLowColumn},
		{setHighColumn},
		{setStartLine},
		{segment},
		{setNormalDisplay},
		{setMultiplexRatio, multiplexRatio},
		{setDisplayAllOnResume},
		{setDisplayOffset, displayOffset},
		{setDisplayClockDiv, 0xF0},
		{setPrecharge, 0x22},
		{setComPins, 0x12},
		{setVComDetect, 0x20},
		{setDCDC, 0x8B},
	} {
		if err = d.command(command[0], command[1:]...); err != nil {
			return
		}
	}

	contrast := config.Contrast
	if contrast == 0 {
		contrast = sh1106DefaultContrast
	}
	if err = d.SetContrast(contrast); err != nil {
		return
	}
	return d.Show(true)
}

// setPage addresses the start of the page. The SH1106 has no horizontal addressing mode.
func (d *sh1106) setPage(page int) error {
	return d.command(setPageStart|byte(page&0x07),
		setLowColumn|sh1106ColumnOffset&0x0f,
		setHighColumn|sh1106ColumnOffset>>4)
}

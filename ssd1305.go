package oled

import (
	"fmt"

	"github.com/BeatGlow/oled/internal/logger"
)

const (
	ssd1305DefaultWidth    = 128
	ssd1305DefaultHeight   = 32
	ssd1305DefaultContrast = 0x7F

	ssd1305SetLUT          = 0x91
	ssd1305SetMasterConfig = 0xAD
	ssd1305SetAreaColor    = 0xD8
)

type ssd1305 struct {
	monoDisplay
	colStart byte
}

// SSD1305 is a driver for the Solomon Systech SSD1305 OLED controller.
//
// Supported sizes are 128×32 (the default) and 128×64.
func SSD1305(conn Conn, config *Config) (Display, error) {
	if config == nil {
		config = new(Config)
	}
	d := &ssd1305{
		monoDisplay: monoDisplay{
			c:    conn,
			name: "SSD1305",
		},
	}
	d.page = d.setPage

	if config.Width == 0 {
		config.Width = ssd1305DefaultWidth
	}
	if config.Height == 0 {
		config.Height = ssd1305DefaultHeight
	}

	if err := d.init(config); err != nil {
		return nil, err
	}

	logger.Get().Debug("oled: initialised", "display", d.String(), "conn", conn.String(), "rotation", d.rotation)
	return d, nil
}

func (d *ssd1305) init(config *Config) (err error) {
	if config.Width != 128 || (config.Height != 32 && config.Height != 64) {
		return fmt.Errorf("%w: SSD1305 %dx%d", ErrSize, config.Width, config.Height)
	}
	// The controller has 132 columns of RAM, 128 wide panels start at column 4.
	d.colStart = 4

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
		{setLowColumn},
		{setHighColumn},
		{setStartLine},
		{segment},
		{setNormalDisplay},
		{setMultiplexRatio, byte(config.Height - 1)},
		{ssd1305SetMasterConfig, 0x8E},
		{scan},
		{setDisplayOffset, 0x00},
		{setDisplayClockDiv, 0xF0},
		{ssd1305SetAreaColor, 0x05},
		{setPrecharge, 0xF1},
		{setComPins, 0x12},
		{ssd1305SetLUT, 0x3F, 0x3F, 0x3F, 0x3F},
		{setDisplayAllOnResume},
	} {
		if err = d.command(command[0], command[1:]...); err != nil {
			return
		}
	}

	contrast := config.Contrast
	if contrast == 0 {
		contrast = ssd1305DefaultContrast
	}
	if err = d.SetContrast(contrast); err != nil {
		return
	}
	return d.Show(true)
}

func (d *ssd1305) setPage(page int) error {
	return d.command(setPageStart|byte(page&0x07),
		setLowColumn|d.colStart&0x0f,
		setHighColumn|d.colStart>>4)
}

package oled

import (
	"fmt"

	"github.com/BeatGlow/oled/internal/logger"
)

const (
	ssd1306DefaultWidth    = 128
	ssd1306DefaultHeight   = 64
	ssd1306DefaultContrast = 0xCF
)

type ssd1306 struct {
	monoDisplay
	colStart byte
	colEnd   byte
}

// SSD1306 is a driver for the Solomon Systech SSD1306 OLED controller.
//
// Supported sizes are 64×32, 64×48, 96×16, 128×32 and 128×64 (the default).
func SSD1306(conn Conn, config *Config) (Display, error) {
	if config == nil {
		config = new(Config)
	}
	d := &ssd1306{
		monoDisplay: monoDisplay{
			c:    conn,
			name: "SSD1306",
		},
	}
	d.page = d.setPage

	if config.Width == 0 {
		config.Width = ssd1306DefaultWidth
	}
	if config.Height == 0 {
		config.Height = ssd1306DefaultHeight
	}

	if err := d.init(config); err != nil {
		return nil, err
	}

	logger.Get().Debug("oled: initialised", "display", d.String(), "conn", conn.String(), "rotation", d.rotation)
	return d, nil
}

func (d *ssd1306) init(config *Config) (err error) {
	var (
		displayClockDiv byte
		comPins         byte
		colStart        byte
	)
	switch {
	case config.Width == 64 && config.Height == 32:
		displayClockDiv, comPins, colStart = 0x80, 0x12, 32
	case config.Width == 64 && config.Height == 48:
		displayClockDiv, comPins, colStart = 0x80, 0x12, 32
	case config.Width == 96 && config.Height == 16:
		displayClockDiv, comPins, colStart = 0x60, 0x02, 0
	case config.Width == 128 && config.Height == 32:
		displayClockDiv, comPins, colStart = 0x80, 0x02, 0
	case config.Width == 128 && config.Height == 64:
		displayClockDiv, comPins, colStart = 0x80, 0x12, 0
	default:
		return fmt.Errorf("%w: SSD1306 %dx%d", ErrSize, config.Width, config.Height)
	}

	if err = d.monoDisplay.init(config); err != nil {
		return
	}
	d.colStart = colStart
	d.colEnd = colStart + byte(config.Width)

	if err = d.reset(); err != nil {
		return
	}

	segment, scan := d.remap()
	for _, command := range [][]byte{
		{setDisplayOff},
		{setDisplayClockDiv, displayClockDiv},
		{setMultiplexRatio, byte(config.Height - 1)},
		{setDisplayOffset, 0x00},
		{setStartLine},
		{setChargePump, 0x14},
		{setMemoryMode, horizontalAddressing},
		{segment},
		{scan},
		{setComPins, comPins},
		{setPrecharge, 0xF1},
		{setVComDetect, 0x40},
		{setDisplayAllOnResume},
		{setNormalDisplay},
	} {
		if err = d.command(command[0], command[1:]...); err != nil {
			return
		}
	}

	contrast := config.Contrast
	if contrast == 0 {
		contrast = ssd1306DefaultContrast
	}
	if err = d.SetContrast(contrast); err != nil {
		return
	}
	return d.Show(true)
}

func (d *ssd1306) setPage(page int) error {
	return d.command(setColumnAddr, d.colStart, d.colEnd-1,
		setPageAddr, byte(page), byte(page))
}

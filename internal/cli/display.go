// Package cli holds the command line plumbing shared by the commands.
package cli

import (
	"flag"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/oled"
	"github.com/BeatGlow/oled/fbdev"
)

// DisplayFlags select and configure the display.
type DisplayFlags struct {
	Width     *int
	Height    *int
	I2CDevice *int
	I2CAddr   *uint
	SPIBus    *int
	SPIDevice *int
	SPISpeed  *uint
	ResetPin  *string
	DCPin     *string
	CEPin     *string
	Rotate    *string
	Contrast  *uint
}

// RegisterDisplayFlags defines the display flags on fs.
func RegisterDisplayFlags(fs *flag.FlagSet) *DisplayFlags {
	return &DisplayFlags{
		Width:     fs.Int("width", 0, "Display width (default: driver default)"),
		Height:    fs.Int("height", 0, "Display height (default: driver default)"),
		I2CDevice: fs.Int("i2c-dev", oled.DefaultI2CConfig.Device, "I²C device number (default: use first available)"),
		I2CAddr:   fs.Uint("i2c-addr", uint(oled.DefaultI2CConfig.Addr), "I²C device address"),
		SPIBus:    fs.Int("spi-bus", 0, "SPI bus"),
		SPIDevice: fs.Int("spi-dev", 0, "SPI device"),
		SPISpeed:  fs.Uint("spi-speed", uint(oled.DefaultSPIConfig.SpeedHz), "SPI speed in Hz"),
		ResetPin:  fs.String("reset", "GPIO25", "Reset GPIO pin"),
		DCPin:     fs.String("dc", "GPIO24", "Data/Command GPIO pin (DC)"),
		CEPin:     fs.String("ce", "GPIO8", "Chip enable GPIO pin"),
		Rotate:    fs.String("rotate", "", "Display rotation (0 or 180)"),
		Contrast:  fs.Uint("contrast", 0, "Contrast level (default: controller default)"),
	}
}

// Open opens the display. bus is i2c, spi or fbdev; driver is the controller name, or the
// framebuffer device for fbdev.
func (f *DisplayFlags) Open(bus, driver string) (oled.Display, error) {
	if bus == "fbdev" {
		d, err := fbdev.Open(driver)
		if err != nil {
			return nil, err
		}
		return d, nil
	}

	rotation, err := oled.ParseRotation(*f.Rotate)
	if err != nil {
		return nil, err
	}
	if _, err = host.Init(); err != nil {
		return nil, err
	}

	var c oled.Conn
	switch bus {
	case "i2c":
		c, err = oled.OpenI2C(&oled.I2CConfig{
			Device: *f.I2CDevice,
			Addr:   uint8(*f.I2CAddr),
			Reset:  gpioreg.ByName(*f.ResetPin),
		})
	case "spi":
		c, err = oled.OpenSPI(&oled.SPIConfig{
			Bus:     *f.SPIBus,
			Device:  *f.SPIDevice,
			SpeedHz: uint32(*f.SPISpeed),
			Reset:   gpioreg.ByName(*f.ResetPin),
			DC:      gpioreg.ByName(*f.DCPin),
			CE:      gpioreg.ByName(*f.CEPin),
		})
	default:
		err = fmt.Errorf("unsupported bus type %q", bus)
	}
	if err != nil {
		return nil, err
	}
	oled.Logger().Info("using connection", "conn", c)

	var (
		config = &oled.Config{
			Width:    *f.Width,
			Height:   *f.Height,
			Rotation: rotation,
			Contrast: uint8(*f.Contrast),
		}
		output oled.Display
	)
	switch name := strings.ToLower(driver); name {
	case "sh1106":
		output, err = oled.SH1106(c, config)
	case "ssd1305":
		output, err = oled.SSD1305(c, config)
	case "ssd1306":
		output, err = oled.SSD1306(c, config)
	default:
		err = fmt.Errorf("unsupported driver %q", name)
	}
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return output, nil
}

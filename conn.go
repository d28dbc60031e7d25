package oled

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"

	"github.com/BeatGlow/oled/conn"
	"github.com/BeatGlow/oled/internal/logger"
)

// Conn errors.
var (
	ErrResetPin = errors.New("oled: reset GPIO pin is invalid")
	ErrDCPin    = errors.New("oled: data/command (DC) GPIO pin is invalid")
)

// Conn is the connection interface for communicating with hardware.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset pin to the provided level. Connections without a reset pin
	// ignore the call.
	Reset(gpio.Level) error

	// Command sends a command byte followed by its arguments, all in command mode.
	Command(byte, ...byte) error

	// Data sends display RAM data.
	Data(...byte) error
}

// I²C control bytes: Co = 0, D/C# selects the command or data stream.
const (
	i2cCommandStream = 0x00
	i2cDataStream    = 0x40
)

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Device is the I²C device, use -1 to use the first available device.
	Device int

	// Addr is the I²C address.
	Addr uint8

	// Reset pin, optional.
	Reset gpio.PinOut
}

// DefaultI2CConfig are the default configuration values.
var DefaultI2CConfig = I2CConfig{
	Device: -1,
	Addr:   0x3c,
}

type i2cConn struct {
	*conn.I2C
	reset gpio.PinOut
}

// OpenI2C opens the I²C bus described by config, or [DefaultI2CConfig] if nil.
func OpenI2C(config *I2CConfig) (Conn, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}

	c, err := conn.OpenI2C(config.Device, config.Addr)
	if err != nil {
		return nil, err
	}
	return &i2cConn{
		I2C:   c,
		reset: config.Reset,
	}, nil
}

// NewI2C returns a connection to the device at addr on an already opened bus.
func NewI2C(bus i2c.Bus, addr uint8, reset gpio.PinOut) Conn {
	return &i2cConn{
		I2C:   conn.NewI2C(bus, uint16(addr)),
		reset: reset,
	}
}

func (c *i2cConn) Command(cmnd byte, args ...byte) (err error) {
	_, err = c.I2C.Write(append([]byte{i2cCommandStream, cmnd}, args...))
	return
}

func (c *i2cConn) Data(data ...byte) (err error) {
	_, err = c.I2C.Write(append([]byte{i2cDataStream}, data...))
	return
}

func (c *i2cConn) Reset(level gpio.Level) error {
	if c.reset == nil || c.reset == gpio.INVALID {
		return nil
	}
	return c.reset.Out(level)
}

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	Bus       int
	Device    int
	Mode      conn.SPIMode
	SpeedHz   uint32
	BatchSize uint
	Reset     gpio.PinOut
	DC        gpio.PinOut
	CE        gpio.PinOut
}

// DefaultSPIConfig are the default configuration values.
var DefaultSPIConfig = SPIConfig{
	Bus:       0,
	Device:    0,
	Mode:      conn.SPIMode0,
	SpeedHz:   8_000_000,
	BatchSize: 4096,
	Reset:     gpioreg.ByName("GPIO25"),
	DC:        gpioreg.ByName("GPIO24"),
}

// ValidSPISpeeds are the SPI bus speeds accepted by OpenSPI. The SSD1306 is specified up
// to 10MHz, most modules work well beyond that.
var ValidSPISpeeds = []uint32{
	500_000,
	1_000_000,
	2_000_000,
	4_000_000,
	8_000_000,
	10_000_000,
	16_000_000,
}

// SPIBus is the byte stream of a SPI device.
type SPIBus interface {
	String() string
	Write([]byte) (int, error)
	Close() error
}

type spiConn struct {
	bus       SPIBus
	reset     gpio.PinOut
	dc        gpio.PinOut
	dcLevel   gpio.Level
	dcValid   bool
	cs        gpio.PinOut
	batchSize uint
}

// OpenSPI opens the spidev device described by config, or [DefaultSPIConfig] if nil.
// Unlike I²C, a SPI connection needs both a reset and a data/command pin.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}

	if config.Reset == nil || config.Reset == gpio.INVALID {
		return nil, ErrResetPin
	}
	if config.DC == nil || config.DC == gpio.INVALID {
		return nil, ErrDCPin
	}
	if config.SpeedHz == 0 {
		config.SpeedHz = DefaultSPIConfig.SpeedHz
	}

	var valid bool
	for _, speed := range ValidSPISpeeds {
		if valid = speed == config.SpeedHz; valid {
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("oled: invalid SPI speed %dHz", config.SpeedHz)
	}

	c, err := conn.OpenSPI(config.Bus, config.Device)
	if err != nil {
		return nil, err
	}
	if err = c.SetMode(config.Mode); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err = c.SetMaxSpeed(int(config.SpeedHz)); err != nil {
		_ = c.Close()
		return nil, err
	}

	return NewSPI(c, config), nil
}

// NewSPI returns a connection over an already configured SPI device.
func NewSPI(bus SPIBus, config *SPIConfig) Conn {
	batchSize := config.BatchSize
	if batchSize == 0 {
		batchSize = DefaultSPIConfig.BatchSize
	}
	return &spiConn{
		bus:       bus,
		batchSize: batchSize,
		reset:     config.Reset,
		dc:        config.DC,
		cs:        config.CE,
	}
}

func (c *spiConn) String() string {
	return fmt.Sprintf("SPI bus %s", c.bus)
}

func (c *spiConn) Close() error {
	return c.bus.Close()
}

func (c *spiConn) Reset(level gpio.Level) error {
	return c.reset.Out(level)
}

// updateDC drives the data/command pin: low for commands, high for data.
func (c *spiConn) updateDC(level gpio.Level) error {
	if !c.dcValid || c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return err
		}
		c.dcLevel, c.dcValid = level, true
	}
	return nil
}

func (c *spiConn) updateCS(level gpio.Level) error {
	if c.cs == nil || c.cs == gpio.INVALID {
		return nil
	}
	return c.cs.Out(level)
}

func (c *spiConn) Command(cmnd byte, args ...byte) error {
	return c.send(gpio.Low, append([]byte{cmnd}, args...))
}

func (c *spiConn) Data(data ...byte) error {
	if len(data) == 0 {
		return nil
	}
	return c.send(gpio.High, data)
}

func (c *spiConn) send(dc gpio.Level, data []byte) (err error) {
	if err = c.updateDC(dc); err != nil {
		return
	}
	if err = c.updateCS(gpio.Low); err != nil {
		return
	}
	if err = c.writeChunked(data); err != nil {
		_ = c.updateCS(gpio.High)
		return
	}
	return c.updateCS(gpio.High)
}

func (c *spiConn) writeChunked(data []byte) (err error) {
	size := int(c.batchSize)
	if len(data) > size {
		logger.Get().Debug("oled: chunked SPI write", "bytes", len(data), "chunks", (len(data)+size-1)/size)
	}
	for len(data) > 0 {
		n := min(len(data), size)
		if _, err = c.bus.Write(data[:n]); err != nil {
			return
		}
		data = data[n:]
	}
	return
}

// Package conn provides the byte streams the display drivers talk over.
package conn

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// I2C is a write-mostly stream to one device on an I²C bus.
type I2C struct {
	bus  i2c.Bus
	conn conn.Conn
}

// OpenI2C opens the numbered I²C bus, or the first available bus if device is negative.
func OpenI2C(device int, addr uint8) (*I2C, error) {
	name := ""
	if device >= 0 {
		name = strconv.Itoa(device)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("conn: can't open I²C bus %q: %w", name, err)
	}
	return NewI2C(bus, uint16(addr)), nil
}

// NewI2C returns a stream to the device at addr on bus.
func NewI2C(bus i2c.Bus, addr uint16) *I2C {
	return &I2C{
		bus:  bus,
		conn: &i2c.Dev{Bus: bus, Addr: addr},
	}
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s", c.bus)
}

// Close closes the bus if it was opened by [OpenI2C].
func (c *I2C) Close() error {
	if closer, ok := c.bus.(i2c.BusCloser); ok {
		return closer.Close()
	}
	return nil
}

func (c *I2C) Read(p []byte) (int, error) {
	return len(p), c.conn.Tx(nil, p)
}

func (c *I2C) Write(p []byte) (int, error) {
	return len(p), c.conn.Tx(p, nil)
}

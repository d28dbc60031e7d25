//go:build !unix

package conn

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned by OpenSPI on platforms without spidev.
var ErrNotSupported = errors.New("conn: SPI is not supported on this platform")

// SPI is not available on this platform.
type SPI struct{}

// OpenSPI returns ErrNotSupported.
func OpenSPI(bus, device int) (*SPI, error) {
	return nil, fmt.Errorf("%w: bus %d device %d", ErrNotSupported, bus, device)
}

func (*SPI) String() string              { return "SPI (not supported)" }
func (*SPI) Close() error                { return nil }
func (*SPI) SetMode(SPIMode) error       { return ErrNotSupported }
func (*SPI) SetMaxSpeed(int) error       { return ErrNotSupported }
func (*SPI) Write(b []byte) (int, error) { return 0, ErrNotSupported }

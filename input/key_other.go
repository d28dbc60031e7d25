//go:build !linux

package input

import (
	"context"
	"fmt"
)

// Key is not available on this platform.
type Key struct{}

// FindDevice returns ErrNotSupported.
func FindDevice(name string) (string, error) {
	return "", fmt.Errorf("%w: input device %q", ErrNotSupported, name)
}

// OpenKey returns ErrNotSupported.
func OpenKey(path, key string) (*Key, error) {
	return nil, fmt.Errorf("%w: input device %s", ErrNotSupported, path)
}

func (*Key) String() string { return "key (not supported)" }

// Run returns ErrNotSupported.
func (*Key) Run(context.Context, chan<- struct{}) error { return ErrNotSupported }

// Close does nothing.
func (*Key) Close() error { return nil }

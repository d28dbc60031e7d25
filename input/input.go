// Package input turns hardware key presses into manual advance signals.
//
// Sources only send on a channel; the goroutine owning the cycle controller acts on it.
package input

import (
	"context"
	"errors"
)

// ErrNotSupported is returned for input sources not available on this platform.
var ErrNotSupported = errors.New("input: not supported")

// Source reports presses until its context is cancelled.
type Source interface {
	Run(ctx context.Context, presses chan<- struct{}) error
}

// send delivers a press without blocking; a press arriving while the previous one is
// still pending is dropped.
func send(presses chan<- struct{}) bool {
	select {
	case presses <- struct{}{}:
		return true
	default:
		return false
	}
}

package input

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/BeatGlow/oled/internal/logger"
)

// pollTimeout bounds the wait for an edge so cancellation is noticed.
const pollTimeout = 100 * time.Millisecond

// ButtonConfig describes how a push button is wired.
type ButtonConfig struct {
	// Pull is the pull resistor to enable, gpio.PullUp for a button to ground.
	Pull gpio.Pull

	// ActiveLow is set when a pressed button reads low.
	ActiveLow bool

	// Debounce ignores presses closer together than this.
	Debounce time.Duration
}

// DefaultButtonConfig is a button between the pin and ground.
var DefaultButtonConfig = ButtonConfig{
	Pull:      gpio.PullUp,
	ActiveLow: true,
	Debounce:  200 * time.Millisecond,
}

// Button reports presses of a push button on a GPIO pin.
type Button struct {
	pin    gpio.PinIn
	config ButtonConfig
	now    func() time.Time
}

// NewButton configures pin as an input with edge detection.
func NewButton(pin gpio.PinIn, config ButtonConfig) (*Button, error) {
	if pin == nil || pin == gpio.INVALID {
		return nil, fmt.Errorf("input: invalid button pin")
	}
	if err := pin.In(config.Pull, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("input: can't configure button pin %s: %w", pin, err)
	}
	return &Button{
		pin:    pin,
		config: config,
		now:    time.Now,
	}, nil
}

func (b *Button) String() string {
	return fmt.Sprintf("button on %s", b.pin)
}

func (b *Button) pressed(level gpio.Level) bool {
	return level != gpio.Level(b.config.ActiveLow)
}

// Run sends one signal per press until ctx is done.
func (b *Button) Run(ctx context.Context, presses chan<- struct{}) error {
	var (
		log  = logger.Get()
		last time.Time
		down = b.pressed(b.pin.Read())
	)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !b.pin.WaitForEdge(pollTimeout) {
			continue
		}
		level := b.pin.Read()
		if !b.pressed(level) {
			down = false
			continue
		}
		if down {
			continue
		}
		down = true
		now := b.now()
		if !last.IsZero() && now.Sub(last) < b.config.Debounce {
			log.Debug("input: bounce", "source", b.String())
			continue
		}
		last = now
		if !send(presses) {
			log.Debug("input: press dropped", "source", b.String())
		}
	}
}

package input

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/holoplot/go-evdev"

	"github.com/BeatGlow/oled/internal/logger"
)

// Key values of EV_KEY events.
const (
	keyReleased = 0
	keyPressed  = 1
)

// Key reports presses of one key on a Linux input device.
type Key struct {
	dev       *evdev.InputDevice
	path      string
	name      string
	code      evdev.EvCode
	closeOnce sync.Once
}

// ParseKeyCode returns the code of a key name such as KEY_POWER or power.
func ParseKeyCode(name string) (evdev.EvCode, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(name, "KEY_") && !strings.HasPrefix(name, "BTN_") {
		name = "KEY_" + name
	}
	code, ok := evdev.KEYFromString[name]
	if !ok {
		return 0, fmt.Errorf("input: unknown key %q", name)
	}
	return code, nil
}

// FindDevice returns the path of the input device with the given name.
func FindDevice(name string) (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("input: can't list devices: %w", err)
	}
	for _, p := range paths {
		if p.Name == name {
			return p.Path, nil
		}
	}
	return "", fmt.Errorf("input: no device named %q", name)
}

// OpenKey opens the input device at path and grabs it for exclusive access. Presses of
// the named key are reported by Run.
func OpenKey(path, key string) (*Key, error) {
	code, err := ParseKeyCode(key)
	if err != nil {
		return nil, err
	}
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("input: can't open %s: %w", path, err)
	}
	k := &Key{
		dev:  dev,
		path: path,
		code: code,
	}
	k.name, _ = dev.Name()
	if err = dev.Grab(); err != nil {
		logger.Get().Warn("input: can't grab device", "device", path, "error", err)
	}
	logger.Get().Debug("input: using device", "device", path, "name", k.name, "key", key)
	return k, nil
}

func (k *Key) String() string {
	return fmt.Sprintf("%s (%s)", k.path, k.name)
}

// isPress reports whether ev is the key going down.
func (k *Key) isPress(ev *evdev.InputEvent) bool {
	return ev.Type == evdev.EV_KEY && ev.Code == k.code && ev.Value == keyPressed
}

// Run sends one signal per key press until ctx is done. The device is closed when Run
// returns.
func (k *Key) Run(ctx context.Context, presses chan<- struct{}) error {
	stop := context.AfterFunc(ctx, func() { _ = k.Close() })
	defer stop()

	log := logger.Get()
	for {
		ev, err := k.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			_ = k.Close()
			return fmt.Errorf("input: read from %s: %w", k.path, err)
		}
		if k.isPress(ev) && !send(presses) {
			log.Debug("input: press dropped", "source", k.String())
		}
	}
}

// Close releases the device.
func (k *Key) Close() (err error) {
	k.closeOnce.Do(func() {
		_ = k.dev.Ungrab()
		err = k.dev.Close()
	})
	return
}

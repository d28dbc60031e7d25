// Package cycle decides which screen is shown and when to move on to the next one.
package cycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BeatGlow/oled/screen"
	"github.com/BeatGlow/oled/transition"
)

var (
	// ErrNoScreens is returned when a configuration enables no screen.
	ErrNoScreens = errors.New("cycle: no screen enabled")

	// ErrInterval is returned for a non-positive cycle interval.
	ErrInterval = errors.New("cycle: invalid interval")
)

// MinInterval is the shortest auto cycle interval.
const MinInterval = time.Second

// Set is a set of screens.
type Set uint8

// AllScreens enables every screen.
const AllScreens = Set(1<<screen.Count - 1)

// SetOf returns the set holding ids. Unknown ids are ignored.
func SetOf(ids ...screen.ID) Set {
	var s Set
	for _, id := range ids {
		if id.Valid() {
			s |= 1 << id
		}
	}
	return s
}

// Has reports whether id is in the set.
func (s Set) Has(id screen.ID) bool {
	return id.Valid() && s&(1<<id) != 0
}

// With returns the set with id added or removed.
func (s Set) With(id screen.ID, enabled bool) Set {
	if !id.Valid() {
		return s
	}
	if enabled {
		return s | 1<<id
	}
	return s &^ (1 << id)
}

// IDs lists the screens in canonical order.
func (s Set) IDs() []screen.ID {
	var out []screen.ID
	for _, id := range screen.Order {
		if s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// First returns the first screen in canonical order.
func (s Set) First() (screen.ID, bool) {
	for _, id := range screen.Order {
		if s.Has(id) {
			return id, true
		}
	}
	return 0, false
}

// Next returns the first screen after id in canonical order, wrapping around. It returns
// id itself when no other screen is in the set.
func (s Set) Next(id screen.ID) screen.ID {
	for i := 1; i <= screen.Count; i++ {
		next := screen.ID((int(id) + i) % screen.Count)
		if s.Has(next) {
			return next
		}
	}
	return id
}

func (s Set) String() string {
	var names []string
	for _, id := range s.IDs() {
		names = append(names, id.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Config controls the cycling. It is treated as immutable once handed to a [Controller].
type Config struct {
	// Enabled screens; at least one is required.
	Enabled Set

	// AutoCycle advances on a timer when set. Manual advances work either way.
	AutoCycle bool

	// Interval between automatic advances.
	Interval time.Duration

	// Mask of the transition effects to pick from.
	Mask transition.Mask
}

// DefaultConfig is the factory configuration.
var DefaultConfig = Config{
	Enabled:   AllScreens,
	AutoCycle: true,
	Interval:  15 * time.Second,
	Mask:      transition.AllEffects,
}

// Validate checks the configuration and returns it with the interval raised to
// [MinInterval] if shorter.
func (c Config) Validate() (Config, error) {
	if c.Enabled&AllScreens == 0 {
		return c, ErrNoScreens
	}
	if c.Interval <= 0 {
		return c, fmt.Errorf("%w: %s", ErrInterval, c.Interval)
	}
	c.Enabled &= AllScreens
	c.Interval = max(c.Interval, MinInterval)
	return c, nil
}

// Package transition composes animated transitions between two rendered frames and
// pushes every intermediate frame to a display.
package transition

import (
	"fmt"
	"strings"
)

// Effect is a transition effect.
type Effect uint8

// Supported effects. The numeric value is the bit position in a [Mask].
const (
	None Effect = iota
	SlideHorizontal
	SlideVertical
	Dissolve
	Curtain
	Blinds
)

// NumEffects is the number of effects including None.
const NumEffects = 6

var effectNames = [NumEffects]string{"none", "slide-horizontal", "slide-vertical", "dissolve", "curtain", "blinds"}

func (e Effect) String() string {
	if int(e) >= NumEffects {
		return fmt.Sprintf("effect(%d)", uint8(e))
	}
	return effectNames[e]
}

// ParseEffect returns the effect with the given name.
func ParseEffect(name string) (Effect, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range effectNames {
		if n == name {
			return Effect(i), nil
		}
	}
	return None, fmt.Errorf("transition: unknown effect %q", name)
}

// Mask is a set of enabled effects: bit i enables effect i. Bit 0 is ignored.
type Mask uint16

// AllEffects enables every animated effect. This is the factory default (62).
const AllEffects = Mask(1<<SlideHorizontal | 1<<SlideVertical | 1<<Dissolve | 1<<Curtain | 1<<Blinds)

// MaskOf returns the mask enabling the given effects.
func MaskOf(effects ...Effect) Mask {
	var m Mask
	for _, e := range effects {
		m |= 1 << e
	}
	return m
}

// Has reports whether e is enabled in the mask.
func (m Mask) Has(e Effect) bool {
	return e != None && int(e) < NumEffects && m&(1<<e) != 0
}

// Effects lists the enabled animated effects in ascending order.
func (m Mask) Effects() []Effect {
	var out []Effect
	for e := SlideHorizontal; e <= Blinds; e++ {
		if m.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

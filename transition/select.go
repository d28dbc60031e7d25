package transition

import "math/rand/v2"

// IntN returns a uniformly distributed number in [0, n).
type IntN func(n int) int

// Select picks one of the effects enabled in mask uniformly at random. It returns None
// when the mask enables no effect. Repeating the previous pick is allowed.
func Select(mask Mask, intn IntN) Effect {
	enabled := mask.Effects()
	if len(enabled) == 0 {
		return None
	}
	if intn == nil {
		intn = rand.IntN
	}
	return enabled[intn(len(enabled))]
}

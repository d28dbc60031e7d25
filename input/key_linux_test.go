package input

import (
	"testing"

	"github.com/holoplot/go-evdev"
)

func TestParseKeyCode(t *testing.T) {
	tests := []struct {
		name string
		want evdev.EvCode
	}{
		{"KEY_POWER", evdev.KEY_POWER},
		{"power", evdev.KEY_POWER},
		{" key_enter ", evdev.KEY_ENTER},
		{"space", evdev.KEY_SPACE},
	}
	for _, test := range tests {
		got, err := ParseKeyCode(test.name)
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Errorf("%q: expected %d, got %d", test.name, test.want, got)
		}
	}
	if _, err := ParseKeyCode("no-such-key"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestKeyIsPress(t *testing.T) {
	k := &Key{code: evdev.KEY_POWER}
	tests := []struct {
		name string
		ev   evdev.InputEvent
		want bool
	}{
		{"press", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_POWER, Value: keyPressed}, true},
		{"release", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_POWER, Value: keyReleased}, false},
		{"repeat", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_POWER, Value: 2}, false},
		{"other key", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_ENTER, Value: keyPressed}, false},
		{"sync", evdev.InputEvent{Type: evdev.EV_SYN, Code: 0, Value: 0}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := k.isPress(&test.ev); got != test.want {
				t.Errorf("expected %t, got %t", test.want, got)
			}
		})
	}
}

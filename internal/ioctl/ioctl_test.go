//go:build unix

package ioctl

import "testing"

func TestEncode(t *testing.T) {
	var (
		mode  uint8
		speed uint32
	)
	tests := []struct {
		name    string
		command Command
		want    Command
		str     string
	}{
		// _IOR('k', 1, __u8) and _IOW('k', 4, __u32) from <linux/spi/spidev.h>
		{"spi read mode", Pointer(Read, &mode, 0x6b01), 0x80016b01, "ioctl read (1 bytes) 0x6b01"},
		{"spi write speed", Pointer(Write, &speed, 0x6b04), 0x40046b04, "ioctl write (4 bytes) 0x6b04"},
		{"plain", Encode(None, 0, 0x4600), 0x4600, "ioctl (0 bytes) 0x4600"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.command != test.want {
				t.Errorf("expected %#x, got %#x", uintptr(test.want), uintptr(test.command))
			}
			if s := test.command.String(); s != test.str {
				t.Errorf("expected %q, got %q", test.str, s)
			}
		})
	}
}

package transition

import "testing"

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		mask Mask
		pick int
		want Effect
	}{
		{"empty", 0, 0, None},
		{"none bit only", 1, 0, None},
		{"unknown bits", 1 << 9, 0, None},
		{"single", MaskOf(SlideHorizontal), 0, SlideHorizontal},
		{"first of two", MaskOf(SlideVertical, Curtain), 0, SlideVertical},
		{"second of two", MaskOf(SlideVertical, Curtain), 1, Curtain},
		{"last of all", AllEffects, 4, Blinds},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Select(test.mask, func(n int) int {
				if test.pick >= n {
					t.Fatalf("pick %d out of range %d", test.pick, n)
				}
				return test.pick
			})
			if got != test.want {
				t.Errorf("expected %s, got %s", test.want, got)
			}
		})
	}
}

func TestSelectEmptyMaskSkipsRandom(t *testing.T) {
	Select(0, func(int) int {
		t.Fatal("intn called for an empty mask")
		return 0
	})
}

func TestSelectDistribution(t *testing.T) {
	mask := Mask(0b10100) // slide-vertical and curtain
	seen := make(map[Effect]int)
	for i := 0; i < 1000; i++ {
		seen[Select(mask, nil)]++
	}
	for effect := range seen {
		if effect != SlideVertical && effect != Curtain {
			t.Fatalf("selected %s which is not in the mask", effect)
		}
	}
	if seen[SlideVertical] == 0 || seen[Curtain] == 0 {
		t.Errorf("expected both effects to be selected, got %v", seen)
	}
}

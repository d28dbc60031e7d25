package transition

import (
	"testing"

	"github.com/BeatGlow/oled/framebuffer"
)

var testGeometries = []framebuffer.Geometry{
	framebuffer.Default,
	{Columns: 128, Pages: 4},
	{Columns: 96, Pages: 2},
	{Columns: 64, Pages: 6},
	{Columns: 64, Pages: 4},
}

var allEffects = []Effect{None, SlideHorizontal, SlideVertical, Dissolve, Curtain, Blinds}

// pattern returns a frame where every byte differs from its neighbours.
func pattern(g framebuffer.Geometry, seed int) *framebuffer.FrameBuffer {
	fb := framebuffer.New(g)
	for i := range fb.Pix {
		fb.Pix[i] = byte(i*seed + seed>>1 + 1)
	}
	return fb
}

func filled(g framebuffer.Geometry, v byte) *framebuffer.FrameBuffer {
	fb := framebuffer.New(g)
	for i := range fb.Pix {
		fb.Pix[i] = v
	}
	return fb
}

// litColumns reports for each column whether all its bytes are 0xff.
func litColumns(fb *framebuffer.FrameBuffer) []bool {
	lit := make([]bool, fb.Columns)
	for x := range lit {
		lit[x] = true
		for p := 0; p < fb.Pages; p++ {
			if fb.Page(p)[x] != 0xff {
				lit[x] = false
			}
		}
	}
	return lit
}

func TestFrames(t *testing.T) {
	tests := []struct {
		effect Effect
		want   int
	}{
		{None, 1},
		{SlideHorizontal, 17},
		{SlideVertical, 9},
		{Dissolve, 8},
		{Curtain, 21},
		{Blinds, 9},
		{Effect(42), 1},
	}
	for _, test := range tests {
		t.Run(test.effect.String(), func(t *testing.T) {
			if got := Frames(test.effect, framebuffer.Default); got != test.want {
				t.Errorf("expected %d frames, got %d", test.want, got)
			}
		})
	}
}

func TestComposeLastFrameIsNew(t *testing.T) {
	for _, g := range testGeometries {
		for _, effect := range allEffects {
			t.Run(g.String()+"/"+effect.String(), func(t *testing.T) {
				var (
					old = pattern(g, 7)
					new = pattern(g, 13)
					dst = filled(g, 0x5a)
				)
				Compose(effect, dst, old, new, Frames(effect, g)-1)
				if !dst.Equal(new) {
					t.Error("last frame differs from the new frame")
				}
			})
		}
	}
}

func TestComposeNarrowGeometry(t *testing.T) {
	for _, g := range []framebuffer.Geometry{{Columns: 4, Pages: 8}, {Columns: 2, Pages: 1}, {Columns: 1, Pages: 1}} {
		for _, effect := range allEffects {
			t.Run(g.String()+"/"+effect.String(), func(t *testing.T) {
				var (
					old = filled(g, 0x00)
					new = filled(g, 0xff)
					dst = framebuffer.New(g)
					n   = Frames(effect, g)
				)
				if effect != None && effect != Dissolve && n < 2 {
					t.Fatalf("expected at least 2 frames, got %d", n)
				}
				for i := 0; i < n; i++ {
					Compose(effect, dst, old, new, i)
				}
				if !dst.Equal(new) {
					t.Error("last frame differs from the new frame")
				}
			})
		}
	}
}

func TestComposeFirstFrameIsOld(t *testing.T) {
	for _, effect := range []Effect{SlideHorizontal, SlideVertical, Curtain, Blinds} {
		t.Run(effect.String(), func(t *testing.T) {
			var (
				g   = framebuffer.Default
				old = pattern(g, 7)
				new = pattern(g, 13)
				dst = framebuffer.New(g)
			)
			Compose(effect, dst, old, new, 0)
			if !dst.Equal(old) {
				t.Error("first frame differs from the old frame")
			}
		})
	}
}

func TestComposeLeavesSourcesAlone(t *testing.T) {
	g := framebuffer.Default
	for _, effect := range allEffects {
		t.Run(effect.String(), func(t *testing.T) {
			var (
				old     = pattern(g, 7)
				new     = pattern(g, 13)
				oldCopy = pattern(g, 7)
				newCopy = pattern(g, 13)
				dst     = framebuffer.New(g)
			)
			for i := 0; i < Frames(effect, g); i++ {
				Compose(effect, dst, old, new, i)
			}
			if !old.Equal(oldCopy) || !new.Equal(newCopy) {
				t.Error("compose modified its inputs")
			}
		})
	}
}

// movesContent reports whether the effect shifts pixels to other positions on the way.
func movesContent(effect Effect) bool {
	return effect == SlideHorizontal || effect == SlideVertical
}

func TestComposeSameFrames(t *testing.T) {
	g := framebuffer.Default
	for _, effect := range allEffects {
		t.Run(effect.String(), func(t *testing.T) {
			var (
				fb     = pattern(g, 11)
				dst    = framebuffer.New(g)
				frames = Frames(effect, g)
			)
			for i := 0; i < frames; i++ {
				Compose(effect, dst, fb, fb, i)
				if !movesContent(effect) && !dst.Equal(fb) {
					t.Fatalf("frame %d differs", i)
				}
			}
			if !dst.Equal(fb) {
				t.Errorf("last frame differs")
			}
		})
	}
}

func TestSlideHorizontal(t *testing.T) {
	var (
		g   = framebuffer.Default
		old = pattern(g, 7)
		new = pattern(g, 13)
		dst = framebuffer.New(g)
	)
	for i := 0; i < Frames(SlideHorizontal, g); i++ {
		offset := i * 8
		Compose(SlideHorizontal, dst, old, new, i)
		for p := 0; p < g.Pages; p++ {
			row, o, n := dst.Page(p), old.Page(p), new.Page(p)
			for x := 0; x < g.Columns; x++ {
				var want byte
				if x < g.Columns-offset {
					want = o[x+offset]
				} else {
					want = n[x-(g.Columns-offset)]
				}
				if row[x] != want {
					t.Fatalf("frame %d page %d column %d: expected %#02x, got %#02x", i, p, x, want, row[x])
				}
			}
		}
	}
}

func TestSlideVertical(t *testing.T) {
	var (
		g   = framebuffer.Default
		old = pattern(g, 7)
		new = pattern(g, 13)
		dst = framebuffer.New(g)
	)
	for step := 0; step <= g.Pages; step++ {
		Compose(SlideVertical, dst, old, new, step)
		for p := 0; p < g.Pages; p++ {
			want := old
			src := p + step
			if src >= g.Pages {
				want, src = new, src-g.Pages
			}
			if string(dst.Page(p)) != string(want.Page(src)) {
				t.Fatalf("step %d page %d: wrong source page", step, p)
			}
		}
	}
}

func TestDissolve(t *testing.T) {
	masks := []byte{0x80, 0xc0, 0xe0, 0xe4, 0xf4, 0xfc, 0xfe, 0xff}
	var (
		g   = framebuffer.Default
		dst = framebuffer.New(g)
	)
	for i, mask := range masks {
		Compose(Dissolve, dst, filled(g, 0x00), filled(g, 0xff), i)
		if !dst.Equal(filled(g, mask)) {
			t.Errorf("step %d: expected every byte %#02x", i, mask)
		}
		Compose(Dissolve, dst, filled(g, 0xff), filled(g, 0x00), i)
		if !dst.Equal(filled(g, ^mask)) {
			t.Errorf("step %d: expected every byte %#02x", i, ^mask)
		}
	}
}

func TestCurtain(t *testing.T) {
	var (
		g   = framebuffer.Default
		old = filled(g, 0x00)
		new = filled(g, 0xff)
		dst = framebuffer.New(g)
	)
	for i := 0; i < Frames(Curtain, g); i++ {
		r := i * 4
		Compose(Curtain, dst, old, new, i)
		for x, lit := range litColumns(dst) {
			if want := x >= 64-r && x < 64+r; lit != want {
				t.Fatalf("radius %d column %d: expected lit=%t", r, x, want)
			}
		}
	}
}

func TestBlinds(t *testing.T) {
	var (
		g   = framebuffer.Default
		old = filled(g, 0x00)
		new = filled(g, 0xff)
		dst = framebuffer.New(g)
	)
	for i := 0; i < Frames(Blinds, g); i++ {
		Compose(Blinds, dst, old, new, i)
		for x, lit := range litColumns(dst) {
			if want := x%16 < 2*i; lit != want {
				t.Fatalf("frame %d column %d: expected lit=%t", i, x, want)
			}
		}
	}
}

func TestDelay(t *testing.T) {
	for _, effect := range allEffects {
		t.Run(effect.String(), func(t *testing.T) {
			var total, count = int64(0), 0
			for i := 0; i < Frames(effect, framebuffer.Default); i++ {
				if d := Delay(effect, i); d > 0 {
					total += d.Milliseconds()
					count++
				}
			}
			var wantCount, wantTotal = 0, int64(0)
			switch effect {
			case SlideVertical:
				wantCount, wantTotal = 9, 90
			case Blinds:
				wantCount, wantTotal = 8, 40
			}
			if count != wantCount || total != wantTotal {
				t.Errorf("expected %d pauses totalling %dms, got %d totalling %dms", wantCount, wantTotal, count, total)
			}
		})
	}
}

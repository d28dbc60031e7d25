package preview

import (
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/BeatGlow/oled/framebuffer"
	"github.com/BeatGlow/oled/pixel"
)

func newSimulation(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(w, h)
	return screen
}

func TestFlush(t *testing.T) {
	var (
		screen = newSimulation(t, 128, 32)
		term   = New(screen, framebuffer.Default)
		fb     = framebuffer.New(framebuffer.Default)
		img    = fb.Image()
	)
	defer term.Close()

	img.Set(0, 0, pixel.On)  // top half of cell (0,0)
	img.Set(1, 1, pixel.On)  // bottom half of cell (1,0)
	img.Set(2, 10, pixel.On) // cell (2,5)
	img.Set(2, 11, pixel.On)
	if err := term.Flush(fb); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, blockTop},
		{1, 0, blockBottom},
		{2, 5, blockFull},
		{3, 0, blockNone},
		{127, 31, blockNone},
	}
	for _, test := range tests {
		if r, _, _, _ := screen.GetContent(test.x, test.y); r != test.want {
			t.Errorf("cell (%d,%d): expected %q, got %q", test.x, test.y, test.want, r)
		}
	}
}

func TestFlushCentered(t *testing.T) {
	var (
		screen = newSimulation(t, 140, 40)
		term   = New(screen, framebuffer.Default)
		fb     = framebuffer.New(framebuffer.Default)
	)
	defer term.Close()

	fb.Image().Set(0, 0, pixel.On)
	if err := term.Flush(fb); err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := screen.GetContent(6, 4); r != blockTop {
		t.Errorf("expected frame origin at cell (6,4), got %q", r)
	}
}

func TestFlushGeometry(t *testing.T) {
	term := New(newSimulation(t, 80, 25), framebuffer.Default)
	defer term.Close()
	if err := term.Flush(framebuffer.New(framebuffer.Geometry{Columns: 64, Pages: 4})); !errors.Is(err, framebuffer.ErrGeometry) {
		t.Errorf("expected ErrGeometry, got %v", err)
	}
}

func TestShow(t *testing.T) {
	var (
		screen = newSimulation(t, 128, 32)
		term   = New(screen, framebuffer.Default)
		fb     = framebuffer.New(framebuffer.Default)
	)
	defer term.Close()

	fb.Image().Set(0, 0, pixel.On)
	if err := term.Show(false); err != nil {
		t.Fatal(err)
	}
	if err := term.Flush(fb); err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := screen.GetContent(0, 0); r == blockTop {
		t.Error("frame drawn while hidden")
	}
	if err := term.Show(true); err != nil {
		t.Fatal(err)
	}
	if r, _, _, _ := screen.GetContent(0, 0); r != blockTop {
		t.Errorf("expected last frame after show, got %q", r)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		mod  tcell.ModMask
		want Input
	}{
		{tcell.KeyRune, ' ', 0, Advance},
		{tcell.KeyRune, 'n', 0, Advance},
		{tcell.KeyEnter, 0, 0, Advance},
		{tcell.KeyRight, 0, 0, Advance},
		{tcell.KeyRune, 'q', 0, Quit},
		{tcell.KeyEscape, 0, 0, Quit},
		{tcell.KeyCtrlC, 0, tcell.ModCtrl, Quit},
		{tcell.KeyRune, 'x', 0, None},
		{tcell.KeyLeft, 0, 0, None},
	}
	for _, test := range tests {
		ev := tcell.NewEventKey(test.key, test.r, test.mod)
		if got := Classify(ev); got != test.want {
			t.Errorf("%s: expected %s, got %s", ev.Name(), test.want, got)
		}
	}
}

func TestListen(t *testing.T) {
	var (
		screen = newSimulation(t, 128, 32)
		term   = New(screen, framebuffer.Default)
		inputs = make(chan Input, 4)
		done   = make(chan struct{})
	)
	go func() {
		term.Listen(inputs)
		close(done)
	}()

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	for _, want := range []Input{Advance, Quit} {
		select {
		case got := <-inputs:
			if got != want {
				t.Fatalf("expected %s, got %s", want, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for %s", want)
		}
	}

	_ = term.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after Close")
	}
}

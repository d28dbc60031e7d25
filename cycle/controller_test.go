package cycle

import (
	"errors"
	"testing"
	"time"

	"github.com/BeatGlow/oled/screen"
	"github.com/BeatGlow/oled/transition"
)

type run struct {
	from, to screen.ID
	effect   transition.Effect
}

type fakeEngine struct {
	runs  []run
	shown []screen.ID
	err   error
}

func (e *fakeEngine) Run(oldID, newID screen.ID, _ *screen.Snapshot, effect transition.Effect) error {
	e.runs = append(e.runs, run{oldID, newID, effect})
	return e.err
}

func (e *fakeEngine) Show(id screen.ID, _ *screen.Snapshot) error {
	e.shown = append(e.shown, id)
	return e.err
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time      { return c.t }
func (c *clock) Add(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock {
	return &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func first(int) int { return 0 }

func newController(t *testing.T, e Engine, cfg Config, c *clock) *Controller {
	t.Helper()
	ctrl, err := New(e, cfg, WithClock(c.Now), WithIntN(first))
	if err != nil {
		t.Fatal(err)
	}
	return ctrl
}

func TestNew(t *testing.T) {
	if _, err := New(new(fakeEngine), Config{Interval: time.Second}); !errors.Is(err, ErrNoScreens) {
		t.Fatalf("expected ErrNoScreens, got %v", err)
	}
	c := newController(t, new(fakeEngine), Config{Enabled: SetOf(screen.Crypto, screen.Weather), Interval: time.Second}, newClock())
	if c.Current() != screen.Weather {
		t.Errorf("expected initial screen weather, got %s", c.Current())
	}
}

func TestManualAdvanceWraps(t *testing.T) {
	var (
		e   = new(fakeEngine)
		cfg = Config{Enabled: SetOf(screen.Time, screen.Weather), Interval: time.Minute, Mask: transition.MaskOf(transition.Dissolve)}
		c   = newController(t, e, cfg, newClock())
	)
	for _, want := range []screen.ID{screen.Weather, screen.Time, screen.Weather} {
		if err := c.ManualAdvance(); err != nil {
			t.Fatal(err)
		}
		if c.Current() != want {
			t.Fatalf("expected %s, got %s", want, c.Current())
		}
	}
	want := []run{
		{screen.Time, screen.Weather, transition.Dissolve},
		{screen.Weather, screen.Time, transition.Dissolve},
		{screen.Time, screen.Weather, transition.Dissolve},
	}
	if len(e.runs) != len(want) {
		t.Fatalf("expected %d transitions, got %d", len(want), len(e.runs))
	}
	for i := range want {
		if e.runs[i] != want[i] {
			t.Errorf("transition %d: expected %v, got %v", i, want[i], e.runs[i])
		}
	}
}

func TestSingleScreen(t *testing.T) {
	var (
		e   = new(fakeEngine)
		clk = newClock()
		cfg = Config{Enabled: SetOf(screen.Time), AutoCycle: true, Interval: 10 * time.Second}
		c   = newController(t, e, cfg, clk)
	)
	if err := c.ManualAdvance(); err != nil {
		t.Fatal(err)
	}
	clk.Add(10 * time.Second)
	if ok, err := c.Tick(); !ok || err != nil {
		t.Fatalf("expected a decision, got %t, %v", ok, err)
	}
	if len(e.runs) != 0 {
		t.Errorf("expected no transition, got %d", len(e.runs))
	}
	if c.Current() != screen.Time {
		t.Errorf("expected time, got %s", c.Current())
	}

	// The no-op reset the timer.
	clk.Add(9 * time.Second)
	if ok, _ := c.Tick(); ok {
		t.Error("expected the timer to restart after a no-op")
	}
}

func TestTick(t *testing.T) {
	var (
		e   = new(fakeEngine)
		clk = newClock()
		cfg = Config{Enabled: AllScreens, AutoCycle: true, Interval: 15 * time.Second, Mask: transition.AllEffects}
		c   = newController(t, e, cfg, clk)
	)
	clk.Add(14 * time.Second)
	if ok, _ := c.Tick(); ok {
		t.Fatal("advanced before the interval elapsed")
	}
	clk.Add(time.Second)
	if ok, err := c.Tick(); !ok || err != nil {
		t.Fatalf("expected advance, got %t, %v", ok, err)
	}
	if c.Current() != screen.Weather {
		t.Errorf("expected weather, got %s", c.Current())
	}
	if ok, _ := c.Tick(); ok {
		t.Error("advanced twice without time passing")
	}
	if len(e.runs) != 1 || e.runs[0].effect != transition.SlideHorizontal {
		t.Errorf("unexpected transitions %v", e.runs)
	}
}

func TestTickAutoCycleOff(t *testing.T) {
	var (
		e   = new(fakeEngine)
		clk = newClock()
		cfg = Config{Enabled: AllScreens, Interval: time.Second}
		c   = newController(t, e, cfg, clk)
	)
	clk.Add(time.Hour)
	if ok, _ := c.Tick(); ok {
		t.Fatal("advanced with auto cycle off")
	}
	if err := c.ManualAdvance(); err != nil {
		t.Fatal(err)
	}
	if c.Current() != screen.Weather || len(e.runs) != 1 {
		t.Errorf("manual advance ignored: current %s, %d transitions", c.Current(), len(e.runs))
	}
}

func TestManualAdvanceResetsTimer(t *testing.T) {
	var (
		e   = new(fakeEngine)
		clk = newClock()
		cfg = Config{Enabled: AllScreens, AutoCycle: true, Interval: 10 * time.Second}
		c   = newController(t, e, cfg, clk)
	)
	clk.Add(8 * time.Second)
	if err := c.ManualAdvance(); err != nil {
		t.Fatal(err)
	}
	clk.Add(8 * time.Second)
	if ok, _ := c.Tick(); ok {
		t.Error("timer not reset by manual advance")
	}
}

func TestNoEffects(t *testing.T) {
	var (
		e = new(fakeEngine)
		c = newController(t, e, Config{Enabled: AllScreens, Interval: time.Second}, newClock())
	)
	if err := c.ManualAdvance(); err != nil {
		t.Fatal(err)
	}
	if e.runs[0].effect != transition.None {
		t.Errorf("expected a cut, got %s", e.runs[0].effect)
	}
}

func TestSetConfig(t *testing.T) {
	var (
		e = new(fakeEngine)
		c = newController(t, e, DefaultConfig, newClock())
	)
	if err := c.SetConfig(Config{Interval: time.Second}); !errors.Is(err, ErrNoScreens) {
		t.Fatalf("expected ErrNoScreens, got %v", err)
	}
	if c.Config().Enabled != AllScreens {
		t.Fatal("invalid configuration was applied")
	}
	if err := c.SetConfig(Config{Enabled: SetOf(screen.Crypto, screen.PCMonitor), Interval: time.Second}); err != nil {
		t.Fatal(err)
	}
	// Time stays on screen until the next advance, which skips to the next enabled screen.
	if err := c.ManualAdvance(); err != nil {
		t.Fatal(err)
	}
	if c.Current() != screen.Crypto {
		t.Errorf("expected crypto, got %s", c.Current())
	}
}

func TestFailedTransitionCompletes(t *testing.T) {
	var (
		errFlush = errors.New("flush")
		e        = &fakeEngine{err: errFlush}
		c        = newController(t, e, DefaultConfig, newClock())
	)
	if err := c.ManualAdvance(); !errors.Is(err, errFlush) {
		t.Fatalf("expected flush error, got %v", err)
	}
	if c.Current() != screen.Weather {
		t.Errorf("expected weather, got %s", c.Current())
	}
}

func TestShowAndRefresh(t *testing.T) {
	var (
		e   = new(fakeEngine)
		clk = newClock()
		cfg = Config{Enabled: AllScreens, AutoCycle: true, Interval: 10 * time.Second}
		c   = newController(t, e, cfg, clk)
	)
	clk.Add(5 * time.Second)
	if err := c.Show(); err != nil {
		t.Fatal(err)
	}
	clk.Add(6 * time.Second)
	if err := c.Refresh(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := c.Tick(); ok {
		t.Error("show did not restart the timer")
	}
	clk.Add(4 * time.Second)
	if ok, _ := c.Tick(); !ok {
		t.Error("refresh restarted the timer")
	}
	if len(e.shown) != 2 || e.shown[0] != screen.Time || e.shown[1] != screen.Time {
		t.Errorf("unexpected shown screens %v", e.shown)
	}
}

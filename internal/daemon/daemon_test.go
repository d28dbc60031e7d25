package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/BeatGlow/oled/cycle"
	"github.com/BeatGlow/oled/screen"
	"github.com/BeatGlow/oled/transition"
)

type call struct {
	show     bool
	old, new screen.ID
}

type fakeEngine struct {
	mu    sync.Mutex
	calls []call
	done  chan call
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{done: make(chan call, 16)}
}

func (e *fakeEngine) record(c call) {
	e.mu.Lock()
	e.calls = append(e.calls, c)
	e.mu.Unlock()
	e.done <- c
}

func (e *fakeEngine) Run(oldID, newID screen.ID, _ *screen.Snapshot, _ transition.Effect) error {
	e.record(call{old: oldID, new: newID})
	return nil
}

func (e *fakeEngine) Show(id screen.ID, _ *screen.Snapshot) error {
	e.record(call{show: true, new: id})
	return nil
}

func (e *fakeEngine) wait(t *testing.T) call {
	t.Helper()
	select {
	case c := <-e.done:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for the engine")
		return call{}
	}
}

func TestLoopManualAdvance(t *testing.T) {
	engine := newFakeEngine()
	c, err := cycle.New(engine, cycle.Config{
		Enabled:  cycle.SetOf(screen.Time, screen.Crypto),
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatal(err)
	}

	var (
		presses     = make(chan struct{})
		ctx, cancel = context.WithCancel(context.Background())
		done        = make(chan error, 1)
		loop        = &Loop{Controller: c, Presses: presses, Tick: time.Hour}
	)
	go func() { done <- loop.Run(ctx) }()

	if got := engine.wait(t); got != (call{show: true, new: screen.Time}) {
		t.Errorf("expected startup show of time, got %+v", got)
	}
	presses <- struct{}{}
	if got := engine.wait(t); got != (call{old: screen.Time, new: screen.Crypto}) {
		t.Errorf("expected time -> crypto, got %+v", got)
	}
	presses <- struct{}{}
	if got := engine.wait(t); got != (call{old: screen.Crypto, new: screen.Time}) {
		t.Errorf("expected crypto -> time, got %+v", got)
	}

	cancel()
	select {
	case err = <-done:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if got := c.Current(); got != screen.Time {
		t.Errorf("expected current time, got %s", got)
	}
}

func TestLoopRefreshOnMinute(t *testing.T) {
	engine := newFakeEngine()
	c, err := cycle.New(engine, cycle.Config{
		Enabled:  cycle.SetOf(screen.Time),
		Interval: time.Hour,
	})
	if err != nil {
		t.Fatal(err)
	}

	var (
		mu  sync.Mutex
		now = time.Date(2026, 10, 19, 8, 30, 59, 0, time.UTC)
	)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop := &Loop{Controller: c, Tick: time.Millisecond, Now: clock}
	go loop.Run(ctx)

	engine.wait(t)
	mu.Lock()
	now = now.Add(time.Second)
	mu.Unlock()
	if got := engine.wait(t); got != (call{show: true, new: screen.Time}) {
		t.Errorf("expected refresh of time, got %+v", got)
	}
}

func TestSnapshotFile(t *testing.T) {
	var (
		path = filepath.Join(t.TempDir(), "snapshot.json")
		now  = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	)
	source := SnapshotFile(path, func() time.Time { return now })

	snap := source()
	if !snap.Clock.Now.Equal(now) {
		t.Errorf("expected clock %s, got %s", now, snap.Clock.Now)
	}
	if snap.Crypto.Valid() {
		t.Error("expected no crypto data before the file exists")
	}

	doc := `{"crypto": {"symbol": "BTC", "price_usd": 67000, "updated": true}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	snap = source()
	if !snap.Crypto.Valid() || snap.Crypto.Symbol != "BTC" {
		t.Errorf("expected BTC crypto data, got %+v", snap.Crypto)
	}

	if err := os.WriteFile(path, []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	snap = source()
	if snap.Crypto.Symbol != "BTC" {
		t.Errorf("expected last good snapshot after a bad write, got %+v", snap.Crypto)
	}

	snap.Crypto.Symbol = "ETH"
	if got := source().Crypto.Symbol; got != "BTC" {
		t.Errorf("snapshot shared between calls, got %q", got)
	}
}

func TestSnapshotFileClock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := os.WriteFile(path, []byte(`{"clock": {"now": "2026-01-01T12:00:00Z"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	snap := SnapshotFile(path, nil)()
	if got := snap.Clock.Now.Year(); got != 2026 || snap.Clock.Now.Hour() != 12 {
		t.Errorf("expected the clock from the file, got %s", snap.Clock.Now)
	}

	if snap = SnapshotFile("", nil)(); snap.Clock.Now.IsZero() {
		t.Error("expected the current time without a file")
	}
}

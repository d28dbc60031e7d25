// Package daemon runs the screen cycle loop shared by the commands.
package daemon

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/BeatGlow/oled/cycle"
	"github.com/BeatGlow/oled/internal/logger"
	"github.com/BeatGlow/oled/screen"
)

// DefaultTick is how often the loop asks the controller for a decision.
const DefaultTick = 250 * time.Millisecond

// Loop drives a controller from a ticker and manual advance signals. All controller calls
// happen on the goroutine calling Run.
type Loop struct {
	Controller *cycle.Controller

	// Presses delivers manual advances, may be nil.
	Presses <-chan struct{}

	// Tick is the decision period, DefaultTick if zero.
	Tick time.Duration

	// Now replaces time.Now.
	Now func() time.Time
}

// Run shows the current screen and loops until ctx is done. Display errors are logged
// and do not stop the loop.
func (l *Loop) Run(ctx context.Context) error {
	var (
		log    = logger.Get()
		now    = l.Now
		period = l.Tick
	)
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = DefaultTick
	}

	if err := l.Controller.Show(); err != nil {
		log.Warn("daemon: show failed", "screen", l.Controller.Current(), "error", err)
	}
	minute := now().Truncate(time.Minute)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-l.Presses:
			if err := l.Controller.ManualAdvance(); err != nil {
				log.Warn("daemon: manual advance failed", "error", err)
			}

		case <-ticker.C:
			advanced, err := l.Controller.Tick()
			if err != nil {
				log.Warn("daemon: advance failed", "error", err)
			}
			if m := now().Truncate(time.Minute); !m.Equal(minute) {
				minute = m
				if advanced {
					continue
				}
				if err = l.Controller.Refresh(); err != nil {
					log.Warn("daemon: refresh failed", "screen", l.Controller.Current(), "error", err)
				}
			}
		}
	}
}

// SnapshotFile returns a snapshot source reading the JSON document at path. The file is
// read again when its modification time changes; read errors keep the last good snapshot.
// A snapshot without a clock gets the current time. An empty path yields snapshots with
// the clock only.
func SnapshotFile(path string, now func() time.Time) func() *screen.Snapshot {
	if now == nil {
		now = time.Now
	}
	var (
		mu       sync.Mutex
		last     = screen.Empty()
		modified time.Time
	)
	return func() *screen.Snapshot {
		mu.Lock()
		defer mu.Unlock()

		if path != "" {
			if snap, mtime, err := readSnapshot(path, modified); err != nil {
				logger.Get().Warn("daemon: can't read snapshot", "path", path, "error", err)
			} else if snap != nil {
				last, modified = *snap, mtime
			}
		}

		snap := last
		if snap.Clock.Now.IsZero() {
			snap.Clock.Now = now()
		}
		return &snap
	}
}

// readSnapshot returns nil if the file did not change since modified.
func readSnapshot(path string, modified time.Time) (*screen.Snapshot, time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && modified.IsZero() {
			return nil, modified, nil
		}
		return nil, modified, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, modified, err
	}
	if info.ModTime().Equal(modified) {
		return nil, modified, nil
	}
	snap, err := screen.ReadSnapshot(f)
	if err != nil {
		return nil, modified, err
	}
	logger.Get().Debug("daemon: snapshot loaded", "path", path)
	return &snap, info.ModTime(), nil
}

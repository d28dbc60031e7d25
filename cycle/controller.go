package cycle

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/BeatGlow/oled/internal/logger"
	"github.com/BeatGlow/oled/screen"
	"github.com/BeatGlow/oled/transition"
)

// Engine renders screens and plays transitions between them.
type Engine interface {
	Run(oldID, newID screen.ID, snap *screen.Snapshot, effect transition.Effect) error
	Show(id screen.ID, snap *screen.Snapshot) error
}

// Controller is the screen state machine. Tick, ManualAdvance, Show and Refresh are
// serialized; Current may be called from any goroutine.
type Controller struct {
	engine Engine
	source func() *screen.Snapshot
	now    func() time.Time
	intn   transition.IntN

	config  atomic.Pointer[Config]
	current atomic.Int32

	mu      sync.Mutex
	changed time.Time
}

// Option configures a [Controller].
type Option func(*Controller)

// WithSource sets the function returning the data snapshot for each render. Without a
// source every screen renders its placeholder.
func WithSource(source func() *screen.Snapshot) Option {
	return func(c *Controller) {
		c.source = source
	}
}

// WithClock replaces [time.Now].
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithIntN replaces the random source used to pick transition effects.
func WithIntN(intn transition.IntN) Option {
	return func(c *Controller) {
		c.intn = intn
	}
}

// New returns a controller showing the first enabled screen of cfg.
func New(engine Engine, cfg Config, opts ...Option) (*Controller, error) {
	cfg, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	c := &Controller{
		engine: engine,
		source: func() *screen.Snapshot { return nil },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	first, _ := cfg.Enabled.First()
	c.current.Store(int32(first))
	c.config.Store(&cfg)
	c.changed = c.now()
	return c, nil
}

// Current returns the screen currently shown.
func (c *Controller) Current() screen.ID {
	return screen.ID(c.current.Load())
}

// Config returns the configuration in use.
func (c *Controller) Config() Config {
	return *c.config.Load()
}

// SetConfig replaces the configuration. It applies from the next decision on. When the
// current screen gets disabled it stays visible until the next advance.
func (c *Controller) SetConfig(cfg Config) error {
	cfg, err := cfg.Validate()
	if err != nil {
		return err
	}
	c.config.Store(&cfg)
	return nil
}

// Show renders the current screen and displays it without animation.
func (c *Controller) Show() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.engine.Show(c.Current(), c.source())
	c.changed = c.now()
	return err
}

// Refresh renders the current screen again in place, for instance when the clock
// changes. It does not restart the cycle timer.
func (c *Controller) Refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.engine.Show(c.Current(), c.source())
}

// Tick advances to the next screen when auto cycling is enabled and the interval has
// elapsed since the last change. It reports whether a decision was taken.
func (c *Controller) Tick() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cfg := c.config.Load()
	if !cfg.AutoCycle || c.now().Sub(c.changed) < cfg.Interval {
		return false, nil
	}
	return true, c.advance(cfg)
}

// ManualAdvance advances to the next screen immediately, whether auto cycling is enabled
// or not.
func (c *Controller) ManualAdvance() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.advance(c.config.Load())
}

func (c *Controller) advance(cfg *Config) error {
	var (
		current = c.Current()
		next    = cfg.Enabled.Next(current)
	)
	if next == current {
		logger.Get().Debug("cycle: no other screen enabled", "screen", current)
		c.changed = c.now()
		return nil
	}

	effect := transition.Select(cfg.Mask, c.intn)
	logger.Get().Debug("cycle: advance", "from", current, "to", next, "effect", effect)
	err := c.engine.Run(current, next, c.source(), effect)
	c.current.Store(int32(next))
	c.changed = c.now()
	return err
}

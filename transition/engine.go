package transition

import (
	"fmt"
	"sync"
	"time"

	"github.com/BeatGlow/oled/framebuffer"
	"github.com/BeatGlow/oled/internal/logger"
	"github.com/BeatGlow/oled/screen"
)

// Flusher pushes a complete frame to a display. The frame is only valid during the call.
type Flusher interface {
	Flush(fb *framebuffer.FrameBuffer) error
}

// FlusherFunc adapts a function to a [Flusher].
type FlusherFunc func(fb *framebuffer.FrameBuffer) error

// Flush calls f(fb).
func (f FlusherFunc) Flush(fb *framebuffer.FrameBuffer) error { return f(fb) }

// Engine renders screens and plays transitions between them on one display.
//
// An Engine owns the buffers it renders and composes into; only one transition runs at a
// time.
type Engine struct {
	mu       sync.Mutex
	geometry framebuffer.Geometry
	renderer screen.Renderer
	display  Flusher
	sleep    func(time.Duration)
	old      *framebuffer.FrameBuffer
	new      *framebuffer.FrameBuffer
	out      *framebuffer.FrameBuffer
}

// Option configures an [Engine].
type Option func(*Engine)

// WithSleep replaces the function used to pace frames. The default is [time.Sleep].
func WithSleep(sleep func(time.Duration)) Option {
	return func(e *Engine) {
		e.sleep = sleep
	}
}

// New returns an engine for frames of geometry g.
func New(g framebuffer.Geometry, r screen.Renderer, display Flusher, opts ...Option) *Engine {
	e := &Engine{
		geometry: g,
		renderer: r,
		display:  display,
		sleep:    time.Sleep,
		old:      framebuffer.New(g),
		new:      framebuffer.New(g),
		out:      framebuffer.New(g),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Geometry of the frames flushed by the engine.
func (e *Engine) Geometry() framebuffer.Geometry {
	return e.geometry
}

// Run renders the old and new screens from snap and plays effect between them.
func (e *Engine) Run(oldID, newID screen.ID, snap *screen.Snapshot, effect Effect) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.render(e.old, oldID, snap)
	e.render(e.new, newID, snap)
	return e.play(e.old, e.new, effect)
}

// Show renders id from snap and flushes it without animation.
func (e *Engine) Show(id screen.ID, snap *screen.Snapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.render(e.new, id, snap)
	return e.play(e.new, e.new, None)
}

// Play flushes every frame of effect from old to new. Both frames must match the
// engine geometry, otherwise [framebuffer.ErrGeometry] is returned and nothing is flushed.
func (e *Engine) Play(old, new *framebuffer.FrameBuffer, effect Effect) error {
	if err := old.Validate(e.geometry); err != nil {
		return fmt.Errorf("transition: old frame: %w", err)
	}
	if err := new.Validate(e.geometry); err != nil {
		return fmt.Errorf("transition: new frame: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.play(old, new, effect)
}

func (e *Engine) render(fb *framebuffer.FrameBuffer, id screen.ID, snap *screen.Snapshot) {
	fb.Clear()
	e.renderer.Render(id, snap, fb)
}

func (e *Engine) play(old, new *framebuffer.FrameBuffer, effect Effect) error {
	var (
		log    = logger.Get()
		seq    = lookup(effect)
		frames = seq.frames(e.geometry)
		failed int
		first  error
	)
	log.Debug("transition: start", "effect", effect, "frames", frames)
	for i := 0; i < frames; i++ {
		seq.compose(e.out, old, new, i)
		if err := e.display.Flush(e.out); err != nil {
			log.Warn("transition: flush failed", "effect", effect, "frame", i, "error", err)
			if first == nil {
				first = err
			}
			failed++
		}
		if d := seq.delay(i); d > 0 {
			e.sleep(d)
		}
	}
	log.Debug("transition: done", "effect", effect, "frames", frames, "failed", failed)

	if first != nil {
		return fmt.Errorf("transition: %d of %d frames failed: %w", failed, frames, first)
	}
	return nil
}

// Package preview shows frames in a terminal, so screens and transitions can be worked on
// without a display attached.
package preview

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/BeatGlow/oled/framebuffer"
	"github.com/BeatGlow/oled/internal/logger"
)

// Block characters for the pixels of the top and bottom half of a cell.
const (
	blockNone   = ' '
	blockTop    = '▀'
	blockBottom = '▄'
	blockFull   = '█'
)

// Terminal draws frames into a terminal screen, two pixel rows per character cell.
type Terminal struct {
	mu       sync.Mutex
	screen   tcell.Screen
	geometry framebuffer.Geometry
	style    tcell.Style
	last     *framebuffer.FrameBuffer
	visible  bool
}

// Open initialises the controlling terminal.
func Open(g framebuffer.Geometry) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	if err = screen.Init(); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	return New(screen, g), nil
}

// New returns a terminal drawing into an initialised screen.
func New(screen tcell.Screen, g framebuffer.Geometry) *Terminal {
	screen.HideCursor()
	screen.Clear()
	return &Terminal{
		screen:   screen,
		geometry: g,
		style:    tcell.StyleDefault.Foreground(tcell.ColorAqua).Background(tcell.ColorBlack),
		last:     framebuffer.New(g),
		visible:  true,
	}
}

func (t *Terminal) String() string {
	w, h := t.screen.Size()
	return fmt.Sprintf("terminal preview %dx%d in %dx%d cells", t.geometry.Width(), t.geometry.Height(), w, h)
}

// Geometry of the frames accepted by Flush.
func (t *Terminal) Geometry() framebuffer.Geometry {
	return t.geometry
}

// Flush draws the frame.
func (t *Terminal) Flush(fb *framebuffer.FrameBuffer) error {
	if err := fb.Validate(t.geometry); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last.CopyFrom(fb)
	if t.visible {
		t.draw()
	}
	return nil
}

// draw renders the last frame centered on the screen.
func (t *Terminal) draw() {
	var (
		sw, sh = t.screen.Size()
		w      = t.geometry.Width()
		h      = (t.geometry.Height() + 1) / 2
		ox     = max((sw-w)/2, 0)
		oy     = max((sh-h)/2, 0)
	)
	for cy := 0; cy < h; cy++ {
		for x := 0; x < w; x++ {
			var (
				top    = lit(t.last, x, 2*cy)
				bottom = lit(t.last, x, 2*cy+1)
				r      = blockNone
			)
			switch {
			case top && bottom:
				r = blockFull
			case top:
				r = blockTop
			case bottom:
				r = blockBottom
			}
			t.screen.SetContent(ox+x, oy+cy, r, nil, t.style)
		}
	}
	t.screen.Show()
}

func lit(fb *framebuffer.FrameBuffer, x, y int) bool {
	if y >= fb.Height() {
		return false
	}
	return fb.Page(y / framebuffer.PageHeight)[x]&(1<<uint(y%framebuffer.PageHeight)) != 0
}

// Show toggles the preview on or off.
func (t *Terminal) Show(show bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = show
	if show {
		t.draw()
	} else {
		t.screen.Clear()
		t.screen.Show()
	}
	return nil
}

// SetContrast is ignored.
func (t *Terminal) SetContrast(uint8) error {
	return nil
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.screen.Fini()
	return nil
}

// Input is what a key press asks for.
type Input int

// Inputs
const (
	None Input = iota
	Advance
	Quit
)

func (i Input) String() string {
	switch i {
	case Advance:
		return "advance"
	case Quit:
		return "quit"
	default:
		return "none"
	}
}

// Classify maps a key event to an input. Space, enter and the right arrow advance;
// q, escape and control-c quit.
func Classify(ev *tcell.EventKey) Input {
	switch ev.Key() {
	case tcell.KeyEnter, tcell.KeyRight:
		return Advance
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Quit
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ', 'n':
			return Advance
		case 'q', 'Q':
			return Quit
		}
	}
	return None
}

// Listen polls terminal events and sends the inputs they ask for until the terminal is
// closed. Resizing redraws the last frame.
func (t *Terminal) Listen(inputs chan<- Input) {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			t.mu.Lock()
			t.screen.Clear()
			if t.visible {
				t.draw()
			}
			t.mu.Unlock()
			t.screen.Sync()
		case *tcell.EventKey:
			if input := Classify(ev); input != None {
				logger.Get().Debug("preview: key", "key", ev.Name(), "input", input)
				inputs <- input
			}
		}
	}
}

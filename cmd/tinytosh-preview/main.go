// Command tinytosh-preview cycles the status screens in a terminal.
//
// Space, enter or the right arrow show the next screen; q or escape quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BeatGlow/oled"
	"github.com/BeatGlow/oled/config"
	"github.com/BeatGlow/oled/cycle"
	"github.com/BeatGlow/oled/framebuffer"
	"github.com/BeatGlow/oled/internal/daemon"
	"github.com/BeatGlow/oled/preview"
	"github.com/BeatGlow/oled/screen"
	"github.com/BeatGlow/oled/transition"
)

func main() {
	widthFlag := flag.Int("width", 128, "Display width")
	heightFlag := flag.Int("height", 64, "Display height")
	configFlag := flag.String("config", "", "Configuration file (JSON)")
	snapshotFlag := flag.String("snapshot", "", "Data snapshot file (JSON), read again when it changes")
	logFlag := flag.String("log", "", "Log file, the terminal is in use by the preview")
	flag.Parse()

	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fatal(err)
		}
		defer f.Close()
		level := slog.LevelInfo
		if os.Getenv(oled.DebugEnv) != "" {
			level = slog.LevelDebug
		}
		oled.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	}

	settings := config.Default()
	if *configFlag != "" {
		var err error
		if settings, err = config.Load(*configFlag); err != nil {
			fatal(err)
		}
	}

	if *widthFlag <= 0 || *heightFlag <= 0 || *heightFlag%framebuffer.PageHeight != 0 {
		fatal(fmt.Errorf("%w: %dx%d", oled.ErrSize, *widthFlag, *heightFlag))
	}
	g := framebuffer.GeometryFor(*widthFlag, *heightFlag)
	renderer, err := screen.NewRenderer(settings.Render)
	if err != nil {
		fatal(err)
	}

	term, err := preview.Open(g)
	if err != nil {
		fatal(err)
	}

	var (
		engine = transition.New(g, renderer, term)
		source = daemon.SnapshotFile(*snapshotFlag, nil)
	)
	controller, err := cycle.New(engine, settings.Cycle, cycle.WithSource(source))
	if err != nil {
		_ = term.Close()
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		keys    = make(chan preview.Input)
		presses = make(chan struct{}, 1)
	)
	go term.Listen(keys)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case key := <-keys:
				switch key {
				case preview.Advance:
					select {
					case presses <- struct{}{}:
					default:
					}
				case preview.Quit:
					cancel()
					return
				}
			}
		}
	}()

	loop := &daemon.Loop{
		Controller: controller,
		Presses:    presses,
	}
	err = loop.Run(ctx)
	_ = term.Close()
	if err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}

// Command tinytosh cycles the status screens on an OLED display.
//
// Usage:
//
//	tinytosh [flags] <i2c|spi> <ssd1306|ssd1305|sh1106>
//	tinytosh [flags] fbdev /dev/fbN
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/BeatGlow/oled"
	"github.com/BeatGlow/oled/config"
	"github.com/BeatGlow/oled/cycle"
	"github.com/BeatGlow/oled/input"
	"github.com/BeatGlow/oled/internal/cli"
	"github.com/BeatGlow/oled/internal/daemon"
	"github.com/BeatGlow/oled/screen"
	"github.com/BeatGlow/oled/transition"
)

func main() {
	displayFlags := cli.RegisterDisplayFlags(flag.CommandLine)
	buttonPinFlag := flag.String("button", "", "GPIO pin of the next screen button")
	inputDeviceFlag := flag.String("input", "", "Input device path or name for the next screen key")
	inputKeyFlag := flag.String("key", "KEY_POWER", "Input key for the next screen")
	configFlag := flag.String("config", "", "Configuration file (JSON)")
	snapshotFlag := flag.String("snapshot", "", "Data snapshot file (JSON), read again when it changes")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <i2c|spi|fbdev> <driver>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	oled.SetLogger(oled.LoggerFromEnv())
	log := oled.Logger()

	settings := config.Default()
	if *configFlag != "" {
		var err error
		if settings, err = config.Load(*configFlag); err != nil {
			fatal(err)
		}
	}
	log.Info("using config", "screens", settings.Cycle.Enabled, "auto_cycle", settings.Cycle.AutoCycle,
		"interval", settings.Cycle.Interval, "effects", settings.Cycle.Mask.Effects())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sources, err := inputs(*buttonPinFlag, *inputDeviceFlag, *inputKeyFlag)
	if err != nil {
		fatal(err)
	}

	output, err := displayFlags.Open(flag.Arg(0), flag.Arg(1))
	if err != nil {
		fatal(err)
	}
	log.Info("using driver", "display", output)

	if err = serve(ctx, output, settings, *snapshotFlag, sources); err != nil {
		stop()
		fatal(err)
	}
	log.Info("stopped")
}

// serve cycles the screens on output until ctx is done. The display is closed before
// serve returns, on success and on error.
func serve(ctx context.Context, output oled.Display, settings config.Config, snapshot string, sources []input.Source) error {
	log := oled.Logger()
	defer func() {
		if err := output.Close(); err != nil {
			log.Warn("close failed", "display", output, "error", err)
		}
	}()

	renderer, err := screen.NewRenderer(settings.Render)
	if err != nil {
		return err
	}
	var (
		engine = transition.New(output.Geometry(), renderer, output)
		source = daemon.SnapshotFile(snapshot, nil)
	)
	controller, err := cycle.New(engine, settings.Cycle, cycle.WithSource(source))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	presses := make(chan struct{}, 1)
	for _, in := range sources {
		log.Info("using input", "source", in)
		go func(in input.Source) {
			if err := in.Run(ctx, presses); err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("input stopped", "source", in, "error", err)
			}
		}(in)
	}

	loop := &daemon.Loop{
		Controller: controller,
		Presses:    presses,
	}
	return loop.Run(ctx)
}

// inputs opens the manual advance sources selected by the flags.
func inputs(buttonPin, device, key string) ([]input.Source, error) {
	var sources []input.Source
	if buttonPin != "" {
		button, err := input.NewButton(gpioreg.ByName(buttonPin), input.DefaultButtonConfig)
		if err != nil {
			return nil, err
		}
		sources = append(sources, button)
	}
	if device != "" {
		path := device
		if !strings.HasPrefix(device, "/") {
			var err error
			if path, err = input.FindDevice(device); err != nil {
				return nil, err
			}
		}
		k, err := input.OpenKey(path, key)
		if err != nil {
			return nil, err
		}
		sources = append(sources, k)
	}
	return sources, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}

// Command oled-test plays the transition effects between two test patterns.
//
// Usage:
//
//	oled-test [flags] <i2c|spi|fbdev> <driver>
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BeatGlow/oled"
	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/framebuffer"
	"github.com/BeatGlow/oled/internal/cli"
	"github.com/BeatGlow/oled/pixel"
	"github.com/BeatGlow/oled/screen"
	"github.com/BeatGlow/oled/transition"
)

func main() {
	displayFlags := cli.RegisterDisplayFlags(flag.CommandLine)
	effectsFlag := flag.String("effects", "", "Comma separated effects to play (default: all)")
	pauseFlag := flag.Duration("pause", time.Second, "Pause between effects")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <i2c|spi|fbdev> <driver>\n", os.Args[0])
		os.Exit(1)
	}
	oled.SetLogger(oled.LoggerFromEnv())

	mask := transition.AllEffects
	if *effectsFlag != "" {
		var effects []transition.Effect
		for _, name := range strings.Split(*effectsFlag, ",") {
			effect, err := transition.ParseEffect(name)
			if err != nil {
				fatal(err)
			}
			effects = append(effects, effect)
		}
		mask = transition.MaskOf(effects...)
	}

	output, err := displayFlags.Open(flag.Arg(0), flag.Arg(1))
	if err != nil {
		fatal(err)
	}
	defer output.Close()
	fmt.Printf("using driver: %s\n", output)

	engine := transition.New(output.Geometry(), screen.RendererFunc(pattern), output)
	if err = engine.Show(screen.Time, nil); err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("hit control-c to stop...")
	var (
		current = screen.Time
		effects = mask.Effects()
	)
	if len(effects) == 0 {
		effects = []transition.Effect{transition.None}
	}
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(*pauseFlag):
		}

		var (
			effect = effects[i%len(effects)]
			next   = (current + 1) % 2
			start  = time.Now()
		)
		if err = engine.Run(current, next, nil, effect); err != nil {
			fatal(err)
		}
		fmt.Printf("%-16s %d frames in %s\n", effect, transition.Frames(effect, output.Geometry()), time.Since(start))
		current = next
	}
}

// pattern draws a border with a diagonal fill for even ids and a solid box for odd ids.
func pattern(id screen.ID, _ *screen.Snapshot, fb *framebuffer.FrameBuffer) {
	var (
		img = fb.Image()
		r   = img.Bounds()
	)
	draw.Rectangle(img, r, pixel.On)
	if id%2 == 0 {
		for y := 2; y < r.Max.Y-2; y++ {
			for x := 2; x < r.Max.X-2; x++ {
				if (x+y)%4 == 0 {
					img.Set(x, y, pixel.On)
				}
			}
		}
		return
	}
	box := image.Rect(r.Dx()/4, r.Dy()/4, r.Dx()*3/4, r.Dy()*3/4)
	draw.Box(img, box, pixel.On)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}

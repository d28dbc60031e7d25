package screen

import (
	"fmt"
	"image"
	"math"
	"strconv"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/framebuffer"
	"github.com/BeatGlow/oled/pixel"
)

// Options change how screens are laid out. They are fixed for the lifetime of a renderer.
type Options struct {
	City       string
	Hour12     bool
	ShowDate   bool
	RoundTemps bool
	TempUnit   string // "C" or "F"
	AQIType    string // "US" or "EU"
}

// DefaultOptions are the factory settings of the device.
var DefaultOptions = Options{
	ShowDate:   true,
	RoundTemps: true,
	TempUnit:   "C",
	AQIType:    "EU",
}

// TextRenderer is a compact renderer that lays every screen out as text, bars and a
// header rule. Missing data renders the placeholder frame.
type TextRenderer struct {
	opts    Options
	small   font.Face
	large   font.Face
	huge    font.Face
	printer *message.Printer
}

// NewRenderer returns a renderer using the built-in fonts.
func NewRenderer(opts Options) (*TextRenderer, error) {
	f, err := truetype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("screen: can't parse font: %w", err)
	}
	face := func(size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}
	return &TextRenderer{
		opts:    opts,
		small:   basicfont.Face7x13,
		large:   face(18),
		huge:    face(30),
		printer: message.NewPrinter(language.English),
	}, nil
}

// Render implements [Renderer].
func (r *TextRenderer) Render(id ID, snap *Snapshot, fb *framebuffer.FrameBuffer) {
	if snap == nil {
		empty := Empty()
		snap = &empty
	}
	img := fb.Image()
	switch id {
	case Time:
		if snap.Clock.Now.IsZero() {
			r.placeholder(img)
			return
		}
		r.renderTime(img, snap.Clock)
	case Weather:
		if !snap.Weather.Valid() {
			r.placeholder(img)
			return
		}
		r.renderWeather(img, snap.Clock, snap.Weather)
	case AirQuality:
		if !snap.AirQuality.Valid() {
			r.placeholder(img)
			return
		}
		r.renderAirQuality(img, snap.Clock, snap.AirQuality)
	case Crypto:
		if !snap.Crypto.Valid() {
			r.placeholder(img)
			return
		}
		r.renderCrypto(img, snap.Crypto)
	case PCMonitor:
		if !snap.PC.Valid() {
			r.placeholder(img)
			return
		}
		r.renderPC(img, snap.PC)
	default:
		r.placeholder(img)
	}
}

func (r *TextRenderer) placeholder(img draw.Image) {
	b := img.Bounds()
	draw.Rectangle(img, b.Inset(1), pixel.On)
	draw.Rectangle(img, b.Inset(3), pixel.On)
	r.centered(img, r.large, b.Dy()/2+6, "No data")
}

func (r *TextRenderer) clock(t Clock) string {
	if r.opts.Hour12 {
		return t.Now.Format("03:04")
	}
	return t.Now.Format("15:04")
}

func (r *TextRenderer) renderTime(img draw.Image, t Clock) {
	b := img.Bounds()
	if !r.opts.ShowDate {
		r.centered(img, r.huge, b.Dy()/2+11, r.clock(t))
		return
	}
	r.centered(img, r.huge, 34, r.clock(t))
	r.centered(img, r.small, 58, t.Now.Format("Monday, Jan 02"))
}

// header draws the city, the time and the rule below them.
func (r *TextRenderer) header(img draw.Image, t Clock) {
	b := img.Bounds()
	city := r.opts.City
	if city == "" {
		city = "No Location"
	}
	text(img, r.small, 2, 11, city)
	if !t.Now.IsZero() {
		now := r.clock(t)
		text(img, r.small, b.Dx()-measure(r.small, now)-2, 11, now)
	}
	draw.HorizontalLine(img, 0, 14, b.Dx(), pixel.On)
}

func (r *TextRenderer) temperature(v float64) string {
	if r.opts.TempUnit == "F" {
		v = v*9/5 + 32
	}
	if r.opts.RoundTemps {
		return strconv.Itoa(int(math.Round(v)))
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func (r *TextRenderer) renderWeather(img draw.Image, t Clock, w WeatherData) {
	b := img.Bounds()
	r.header(img, t)

	x := text(img, r.large, 4, 36, r.temperature(w.Temperature))
	text(img, r.small, x+1, 28, "°"+r.opts.TempUnit)
	desc := w.Description()
	text(img, r.small, b.Dx()-measure(r.small, desc)-4, 34, desc)

	feels := "--"
	if !math.IsNaN(w.ApparentTemperature) {
		feels = r.temperature(w.ApparentTemperature)
	}
	wind := "--"
	if !math.IsNaN(w.WindSpeed) {
		wind = strconv.Itoa(int(math.Round(w.WindSpeed)))
	}
	text(img, r.small, 2, 60, "F"+feels+"°")
	text(img, r.small, 46, 60, strconv.Itoa(w.Humidity)+"%")
	text(img, r.small, 84, 60, wind+"km")
}

func (r *TextRenderer) renderAirQuality(img draw.Image, t Clock, a AirQualityData) {
	b := img.Bounds()
	r.header(img, t)

	x := text(img, r.large, 4, 36, strconv.Itoa(a.AQI))
	text(img, r.small, x+4, 36, r.opts.AQIType+" AQI")
	status := a.Status
	if status == "" {
		status = "N/A"
	}
	text(img, r.small, b.Dx()-measure(r.small, status)-4, 48, status)

	value := func(v float64) string {
		if math.IsNaN(v) {
			return "--"
		}
		return strconv.Itoa(int(math.Round(v)))
	}
	text(img, r.small, 2, 62, "P"+value(a.PM25))
	r.centered(img, r.small, 62, "P"+value(a.PM10))
	no2 := "N" + value(a.NO2)
	text(img, r.small, b.Dx()-measure(r.small, no2)-2, 62, no2)
}

func (r *TextRenderer) renderCrypto(img draw.Image, c CryptoData) {
	b := img.Bounds()
	text(img, r.huge, 4, 30, c.Symbol)

	var price string
	if c.Price >= 1000 {
		price = r.printer.Sprintf("$%d", int(math.Round(c.Price)))
	} else {
		price = r.printer.Sprintf("$%.2f", c.Price)
	}
	text(img, r.large, 4, 58, price)

	if !math.IsNaN(c.Change24h) {
		arrow(img, image.Rect(b.Dx()-22, 3, b.Dx()-7, 18), c.Change24h >= 0)
	}
	change := change24h(c.Change24h)
	text(img, r.small, b.Dx()-measure(r.small, change)-2, 32, change)
}

// change24h formats a relative price change with an explicit sign, or "--" when unknown.
func change24h(v float64) string {
	if math.IsNaN(v) {
		return "--"
	}
	s := strconv.FormatFloat(v, 'f', 1, 64) + "%"
	if v >= 0 {
		s = "+" + s
	}
	return s
}

func (r *TextRenderer) renderPC(img draw.Image, p PC) {
	const (
		barX  = 26
		barW  = 80
		textX = 108
	)
	net := p.NetDownKB / 5120 * 100
	rows := []struct {
		label   string
		percent float64
		value   string
	}{
		{"CPU", p.CPU, percent(p.CPU)},
		{"RAM", p.Memory, percent(p.Memory)},
		{"DSK", p.Disk, percent(p.Disk)},
		{"NET", net, netRate(p.NetDownKB)},
	}
	for i, row := range rows {
		y := i * 16
		text(img, r.small, 0, y+12, row.label)
		draw.Bar(img, image.Rect(barX, y+5, barX+barW, y+11), 2, row.percent, pixel.On)
		text(img, r.small, textX, y+12, row.value)
	}
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return "--"
	}
	return strconv.Itoa(int(math.Round(v))) + "%"
}

func netRate(kb float64) string {
	switch {
	case math.IsNaN(kb):
		return "--"
	case kb >= 1024:
		return strconv.Itoa(int(math.Round(kb/1024))) + "M"
	case kb >= 100:
		return "<1M"
	default:
		return strconv.Itoa(int(kb)) + "K"
	}
}

// arrow draws a filled triangle inside rect, pointing up or down.
func arrow(img draw.Image, rect image.Rectangle, up bool) {
	mask := image.NewAlpha(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	w, h := rect.Dx(), rect.Dy()
	for y := 0; y < h; y++ {
		row := y
		if !up {
			row = h - 1 - y
		}
		half := row * w / (2 * h)
		for x := w/2 - half; x <= w/2+half && x < w; x++ {
			mask.Pix[y*mask.Stride+x] = 0xff
		}
	}
	draw.DrawMask(img, rect, image.NewUniform(pixel.On), image.Point{}, mask, image.Point{}, draw.Over)
}

func (r *TextRenderer) centered(img draw.Image, face font.Face, baseline int, s string) {
	x := (img.Bounds().Dx() - measure(face, s)) / 2
	if x < 0 {
		x = 0
	}
	text(img, face, x, baseline, s)
}

// text draws s with its baseline at y and returns the x position after the last glyph.
func text(img draw.Image, face font.Face, x, y int, s string) int {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(pixel.On),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
	return d.Dot.X.Ceil()
}

func measure(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// Package config loads the device settings from a JSON document using the key names of
// the firmware's settings store.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BeatGlow/oled/cycle"
	"github.com/BeatGlow/oled/screen"
	"github.com/BeatGlow/oled/transition"
)

// ErrValue is returned for a setting with a value outside its allowed set.
var ErrValue = errors.New("config: invalid value")

// Config holds everything the commands need to drive the screens.
type Config struct {
	Cycle  cycle.Config
	Render screen.Options
}

// Default is the factory configuration.
func Default() Config {
	return Config{
		Cycle:  cycle.DefaultConfig,
		Render: screen.DefaultOptions,
	}
}

// file is the on-disk layout. Fields not present in the document keep their defaults.
type file struct {
	AutoCycle   bool   `json:"auto_cycle"`
	Interval    int    `json:"scr_int"`
	ShowTime    bool   `json:"show_time"`
	ShowWeather bool   `json:"show_weather"`
	ShowAQI     bool   `json:"show_aqi"`
	ShowCrypto  bool   `json:"show_crypto"`
	ShowPC      bool   `json:"show_pc"`
	AnimMask    uint16 `json:"anim_mask"`
	TimeFormat  string `json:"time_format"`
	DateDisplay bool   `json:"date_display"`
	RoundTemps  bool   `json:"round_temps"`
	TempUnit    string `json:"temp_unit"`
	AQIType     string `json:"aqi_type"`
	City        string `json:"city"`
}

func defaults() file {
	return file{
		AutoCycle:   true,
		Interval:    15,
		ShowTime:    true,
		ShowWeather: true,
		ShowAQI:     true,
		ShowCrypto:  true,
		ShowPC:      true,
		AnimMask:    uint16(transition.AllEffects),
		TimeFormat:  "24",
		DateDisplay: true,
		RoundTemps:  true,
		TempUnit:    "C",
		AQIType:     "EU",
	}
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return Config{}, fmt.Errorf("%w (in %s)", err, path)
	}
	return c, nil
}

// Read decodes a configuration document. The screen interval is raised to one second if
// shorter; a document that disables every screen is refused with [cycle.ErrNoScreens].
func Read(r io.Reader) (Config, error) {
	v := defaults()
	if err := json.NewDecoder(r).Decode(&v); err != nil {
		return Config{}, fmt.Errorf("config: can't decode: %w", err)
	}
	return v.config()
}

func (v file) config() (Config, error) {
	var c Config

	switch v.TimeFormat {
	case "24", "":
	case "12":
		c.Render.Hour12 = true
	default:
		return c, fmt.Errorf("%w: time_format %q", ErrValue, v.TimeFormat)
	}
	switch v.TempUnit {
	case "C", "F":
		c.Render.TempUnit = v.TempUnit
	default:
		return c, fmt.Errorf("%w: temp_unit %q", ErrValue, v.TempUnit)
	}
	switch v.AQIType {
	case "US", "EU":
		c.Render.AQIType = v.AQIType
	default:
		return c, fmt.Errorf("%w: aqi_type %q", ErrValue, v.AQIType)
	}
	c.Render.City = v.City
	c.Render.ShowDate = v.DateDisplay
	c.Render.RoundTemps = v.RoundTemps

	enabled := cycle.Set(0).
		With(screen.Time, v.ShowTime).
		With(screen.Weather, v.ShowWeather).
		With(screen.AirQuality, v.ShowAQI).
		With(screen.Crypto, v.ShowCrypto).
		With(screen.PCMonitor, v.ShowPC)

	cfg, err := cycle.Config{
		Enabled:   enabled,
		AutoCycle: v.AutoCycle,
		Interval:  time.Duration(max(v.Interval, 1)) * time.Second,
		Mask:      transition.Mask(v.AnimMask),
	}.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	c.Cycle = cfg
	return c, nil
}

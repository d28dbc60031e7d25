package screen

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"
)

// Snapshot is the data shown by the screens at one point in time. Numeric fields use NaN
// or -1 for "no data yet".
type Snapshot struct {
	Clock      Clock          `json:"clock"`
	Weather    WeatherData    `json:"weather"`
	AirQuality AirQualityData `json:"air_quality"`
	Crypto     CryptoData     `json:"crypto"`
	PC         PC             `json:"pc"`
}

// Clock is the local wall time. A zero Now means the clock is not synchronised yet.
type Clock struct {
	Now time.Time `json:"now"`
}

type WeatherData struct {
	Temperature         float64 `json:"temp"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	WindSpeed           float64 `json:"wind_speed"`
	Humidity            int     `json:"humidity"`
	Code                int     `json:"weather_code"` // WMO code, -1 when unknown
	IsDay               bool    `json:"is_day"`
}

func (w WeatherData) Valid() bool {
	return !math.IsNaN(w.Temperature) && w.Code != -1
}

// Description returns a short text for the WMO weather code.
func (w WeatherData) Description() string {
	switch c := w.Code; {
	case c == 0:
		return "Clear Sky"
	case c >= 1 && c <= 3:
		return "Cloudy"
	case c >= 45 && c <= 48:
		return "Fog"
	case c >= 51 && c <= 67:
		return "Rain"
	case c >= 71 && c <= 77:
		return "Snow"
	case c >= 95:
		return "Thunder"
	default:
		return "Unknown"
	}
}

type AirQualityData struct {
	AQI    int     `json:"aqi"` // -1 when unknown
	PM25   float64 `json:"pm25"`
	PM10   float64 `json:"pm10"`
	NO2    float64 `json:"no2"`
	Status string  `json:"status"`
}

func (a AirQualityData) Valid() bool {
	return a.AQI != -1
}

type CryptoData struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price_usd"`
	Change24h float64 `json:"percent_change_24h"`
	Updated   bool    `json:"updated"`
}

func (c CryptoData) Valid() bool {
	return c.Updated && !math.IsNaN(c.Price)
}

// PC holds host statistics pushed by the companion desktop application.
type PC struct {
	CPU       float64 `json:"cpu_percent"`
	Memory    float64 `json:"mem_percent"`
	Disk      float64 `json:"disk_percent"`
	NetDownKB float64 `json:"net_down_kb"`
}

// Valid is false when neither CPU nor memory usage has been reported.
func (p PC) Valid() bool {
	unset := func(v float64) bool { return math.IsNaN(v) || v == 0 }
	return !(unset(p.CPU) && unset(p.Memory))
}

// Empty returns a snapshot in the "no data yet" state.
func Empty() Snapshot {
	nan := math.NaN()
	return Snapshot{
		Weather: WeatherData{
			Temperature:         nan,
			ApparentTemperature: nan,
			WindSpeed:           nan,
			Code:                -1,
		},
		AirQuality: AirQualityData{
			AQI:    -1,
			PM25:   nan,
			PM10:   nan,
			NO2:    nan,
			Status: "N/A",
		},
		Crypto: CryptoData{
			Price:     nan,
			Change24h: nan,
		},
		PC: PC{
			CPU:       nan,
			Memory:    nan,
			Disk:      nan,
			NetDownKB: nan,
		},
	}
}

// ReadSnapshot decodes a JSON snapshot. Fields missing from the document keep their
// "no data yet" value.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	snap := Empty()
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Empty(), fmt.Errorf("screen: invalid snapshot: %w", err)
	}
	return snap, nil
}

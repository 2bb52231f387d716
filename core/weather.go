package core

import (
	"context"
	"fmt"
	"time"
)

// WeatherSnapshot is a point-in-time observation or forecast step.
type WeatherSnapshot struct {
	City        string    `json:"city"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	Conditions  string    `json:"conditions"`
	Timestamp   time.Time `json:"timestamp"`
	Units       string    `json:"units,omitempty"` // metric, imperial or standard; empty means metric
}

// TemperatureUnit returns the symbol matching Units.
func (s WeatherSnapshot) TemperatureUnit() string {
	switch s.Units {
	case "imperial":
		return "°F"
	case "standard":
		return "K"
	default:
		return "°C"
	}
}

// String renders the snapshot as a compact single line.
func (s WeatherSnapshot) String() string {
	u := s.TemperatureUnit()
	return fmt.Sprintf("%s %s: %.1f%s (feels %.1f%s), %s, humidity %d%%",
		s.City, s.Timestamp.Format("2006-01-02 15:04"), s.Temperature, u, s.FeelsLike, u, s.Conditions, s.Humidity)
}

// WeatherProvider fetches current conditions and forecasts for a city.
// Failures wrap ErrProviderUnavailable.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (WeatherSnapshot, error)
	Forecast(ctx context.Context, city string) ([]WeatherSnapshot, error)
}

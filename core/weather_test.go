package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeatherSnapshot_String(t *testing.T) {
	ts := time.Date(2025, 10, 9, 12, 0, 0, 0, time.Local)

	tests := []struct {
		units string
		want  string
	}{
		{"", "Taipei 2025-10-09 12:00: 27.0°C (feels 29.0°C), sunny, humidity 70%"},
		{"metric", "Taipei 2025-10-09 12:00: 27.0°C (feels 29.0°C), sunny, humidity 70%"},
		{"imperial", "Taipei 2025-10-09 12:00: 27.0°F (feels 29.0°F), sunny, humidity 70%"},
		{"standard", "Taipei 2025-10-09 12:00: 27.0K (feels 29.0K), sunny, humidity 70%"},
	}

	for _, tt := range tests {
		t.Run(tt.units, func(t *testing.T) {
			s := WeatherSnapshot{
				City: "Taipei", Temperature: 27, FeelsLike: 29, Humidity: 70,
				Conditions: "sunny", Timestamp: ts, Units: tt.units,
			}
			assert.Equal(t, tt.want, s.String())
		})
	}
}

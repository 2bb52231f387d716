package weather

import (
	"context"
	"errors"

	"github.com/hupe1980/ginny/core"
)

var _ core.WeatherProvider = Unavailable{}

// ErrMissingAPIKey is reported by Unavailable when no key was configured.
var ErrMissingAPIKey = errors.New("missing OPENWEATHER_API_KEY")

// Unavailable fails every call with core.ErrProviderUnavailable.
type Unavailable struct {
	Reason error
}

// Current always fails.
func (u Unavailable) Current(context.Context, string) (core.WeatherSnapshot, error) {
	return core.WeatherSnapshot{}, core.NewProviderError("openweather", "current", u.reason())
}

// Forecast always fails.
func (u Unavailable) Forecast(context.Context, string) ([]core.WeatherSnapshot, error) {
	return nil, core.NewProviderError("openweather", "forecast", u.reason())
}

func (u Unavailable) reason() error {
	if u.Reason != nil {
		return u.Reason
	}
	return ErrMissingAPIKey
}

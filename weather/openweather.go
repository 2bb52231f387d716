package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hupe1980/ginny/core"
)

// DefaultBaseURL is the OpenWeatherMap API endpoint.
const DefaultBaseURL = "http://api.openweathermap.org"

var _ core.WeatherProvider = (*OpenWeather)(nil)

// Options configure the OpenWeatherMap client.
type Options struct {
	BaseURL    string
	Units      string // metric, imperial or standard
	Lang       string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OpenWeather queries the OpenWeatherMap 2.5 API.
type OpenWeather struct {
	apiKey string
	opts   Options
	client *http.Client
}

// NewOpenWeather creates a client authenticated with apiKey.
func NewOpenWeather(apiKey string, optFns ...func(o *Options)) *OpenWeather {
	opts := Options{
		BaseURL: DefaultBaseURL,
		Units:   "metric",
		Lang:    "zh_tw",
		Timeout: 15 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &OpenWeather{apiKey: apiKey, opts: opts, client: client}
}

type owmMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type owmCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type owmObservation struct {
	Name    string         `json:"name"`
	Dt      int64          `json:"dt"`
	Main    owmMain        `json:"main"`
	Weather []owmCondition `json:"weather"`
}

type owmForecast struct {
	List []owmObservation `json:"list"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
}

type owmError struct {
	Message string `json:"message"`
}

// Current returns the current conditions for city.
func (w *OpenWeather) Current(ctx context.Context, city string) (core.WeatherSnapshot, error) {
	var obs owmObservation
	if err := w.get(ctx, "/data/2.5/weather", city, &obs); err != nil {
		return core.WeatherSnapshot{}, core.NewProviderError("openweather", "current", err)
	}
	name := obs.Name
	if name == "" {
		name = city
	}
	return w.toSnapshot(name, obs), nil
}

// Forecast returns the 3-hourly forecast steps for city.
func (w *OpenWeather) Forecast(ctx context.Context, city string) ([]core.WeatherSnapshot, error) {
	var fc owmForecast
	if err := w.get(ctx, "/data/2.5/forecast", city, &fc); err != nil {
		return nil, core.NewProviderError("openweather", "forecast", err)
	}
	name := fc.City.Name
	if name == "" {
		name = city
	}
	out := make([]core.WeatherSnapshot, 0, len(fc.List))
	for _, obs := range fc.List {
		out = append(out, w.toSnapshot(name, obs))
	}
	return out, nil
}

func (w *OpenWeather) get(ctx context.Context, path, city string, v any) error {
	q := url.Values{
		"q":     {city},
		"appid": {w.apiKey},
		"units": {w.opts.Units},
		"lang":  {w.opts.Lang},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.opts.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return stripURL(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return stripURL(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e owmError
		if json.Unmarshal(body, &e) == nil && e.Message != "" {
			return fmt.Errorf("status %d: %s", resp.StatusCode, e.Message)
		}
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// stripURL drops the request URL from transport errors. The URL carries the
// appid query parameter and must never reach logs or tool output.
func stripURL(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s request: %w", strings.ToLower(uerr.Op), uerr.Err)
	}
	return err
}

func (w *OpenWeather) toSnapshot(city string, obs owmObservation) core.WeatherSnapshot {
	conditions := ""
	if len(obs.Weather) > 0 {
		conditions = obs.Weather[0].Description
		if conditions == "" {
			conditions = obs.Weather[0].Main
		}
	}
	ts := time.Now()
	if obs.Dt > 0 {
		ts = time.Unix(obs.Dt, 0)
	}
	return core.WeatherSnapshot{
		City:        city,
		Temperature: obs.Main.Temp,
		FeelsLike:   obs.Main.FeelsLike,
		Humidity:    obs.Main.Humidity,
		Conditions:  conditions,
		Timestamp:   ts,
		Units:       w.opts.Units,
	}
}

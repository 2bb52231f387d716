package tool

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/ginny/core"
)

// WeatherToolName is the name the model uses for the weather tool.
const WeatherToolName = "weather"

// Weather modes.
const (
	ModeCurrent  = "current"
	ModeForecast = "forecast"
)

// maxForecastSteps bounds forecast output to two days of 3-hour steps.
const maxForecastSteps = 16

type weatherArgs struct {
	City string `json:"city" description:"city name, e.g. Taipei"`
	Mode string `json:"mode,omitempty" enum:"current,forecast" description:"current conditions or forecast; defaults to current"`
}

// WeatherTool queries a WeatherProvider at most once per instance. Repeating
// the first query returns its result or error without contacting the
// provider again; a query for another city or mode is rejected. The
// orchestrator creates one instance per turn.
type WeatherTool struct {
	*FunctionTool

	mu     sync.Mutex
	done   bool
	city   string
	mode   string
	result string
	err    error
}

// NewWeatherTool creates a single-use weather tool bound to provider.
func NewWeatherTool(provider core.WeatherProvider) *WeatherTool {
	wt := &WeatherTool{}
	wt.FunctionTool = NewFunctionToolFromStruct(
		WeatherToolName,
		"Get current weather or the 5 day / 3 hour forecast for a city. Never guess weather; report failures honestly.",
		weatherArgs{},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return wt.lookup(toolCtx, provider, stringArg(args, "city"), stringArg(args, "mode"))
		},
	)
	return wt
}

func (wt *WeatherTool) lookup(toolCtx *core.ToolContext, provider core.WeatherProvider, city, mode string) (any, error) {
	if strings.TrimSpace(city) == "" {
		return nil, NewToolError(WeatherToolName, "city must not be empty", CodeValidation)
	}

	city = strings.TrimSpace(city)
	if mode != ModeForecast {
		mode = ModeCurrent
	}

	wt.mu.Lock()
	defer wt.mu.Unlock()

	if wt.done {
		if !strings.EqualFold(city, wt.city) || mode != wt.mode {
			toolCtx.LogDebug("weather.rejected", "city", city, "mode", mode, "queried", wt.city)
			return nil, NewToolError(WeatherToolName,
				fmt.Sprintf("weather already queried for %s (%s) this turn", wt.city, wt.mode), CodeValidation)
		}
		toolCtx.LogDebug("weather.cached", "city", city)
		if wt.err != nil {
			return nil, wt.err
		}
		return wt.result, nil
	}
	wt.done = true
	wt.city = city
	wt.mode = mode

	if mode == ModeForecast {
		steps, err := provider.Forecast(toolCtx.Context(), city)
		if err != nil {
			toolCtx.LogWarn("weather.forecast.failed", "city", city, "error", err.Error())
			wt.err = wrapProviderError(WeatherToolName, err)
			return nil, wt.err
		}
		wt.result = formatForecast(steps)
		return wt.result, nil
	}

	snap, err := provider.Current(toolCtx.Context(), city)
	if err != nil {
		toolCtx.LogWarn("weather.current.failed", "city", city, "error", err.Error())
		wt.err = wrapProviderError(WeatherToolName, err)
		return nil, wt.err
	}
	wt.result = snap.String()
	return wt.result, nil
}

func formatForecast(steps []core.WeatherSnapshot) string {
	if len(steps) > maxForecastSteps {
		steps = steps[:maxForecastSteps]
	}
	lines := make([]string, len(steps))
	for i, s := range steps {
		lines[i] = s.String()
	}
	return strings.Join(lines, "\n")
}

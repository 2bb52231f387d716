// Package ginny wires the outfit consultant together: a model, a preference
// store, a weather provider, the orchestrator and the session runner. Most
// callers build an App from a config.Config via FromConfig; tests and embedders
// can supply components directly through New.
package ginny

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/hupe1980/ginny/agent"
	"github.com/hupe1980/ginny/config"
	"github.com/hupe1980/ginny/core"
	"github.com/hupe1980/ginny/logging"
	"github.com/hupe1980/ginny/memory"
	"github.com/hupe1980/ginny/model"
	anthropicmodel "github.com/hupe1980/ginny/model/anthropic"
	openaimodel "github.com/hupe1980/ginny/model/openai"
	"github.com/hupe1980/ginny/runner"
	"github.com/hupe1980/ginny/session"
	"github.com/hupe1980/ginny/weather"
)

// Options configures an App. Unset stores default to in-memory or
// always-unavailable implementations.
type Options struct {
	Model           model.Model
	PreferenceStore core.PreferenceStore
	WeatherProvider core.WeatherProvider
	SessionStore    core.SessionStore
	Policy          agent.PreferencePolicy
	UserID          string
	MaxModelCalls   int
	Logger          logging.Logger
	Status          Status
}

// Status summarizes which external collaborators are configured.
type Status struct {
	UserID        string `json:"user_id"`
	Model         string `json:"model"`
	Provider      string `json:"provider"`
	MemoryBackend string `json:"memory_backend"`
	Mem0Ready     bool   `json:"mem0_ready"`
	WeatherReady  bool   `json:"weather_ready"`
	LLMReady      bool   `json:"llm_ready"`
}

// App aggregates the orchestrator and the runner.
type App struct {
	orchestrator *agent.Orchestrator
	runner       *runner.Runner
	logger       logging.Logger
	status       Status
	closers      []io.Closer
}

// New creates an App from explicit components.
func New(optFns ...func(o *Options)) (*App, error) {
	opts := Options{
		PreferenceStore: memory.NewInMemoryStore(),
		WeatherProvider: weather.Unavailable{},
		SessionStore:    session.NewInMemoryStore(),
		Policy:          agent.IntroductionPolicy{},
		UserID:          runner.DefaultUserID,
		MaxModelCalls:   8,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Model == nil {
		return nil, errors.New("ginny: a model is required")
	}

	o := agent.New(opts.Model, opts.PreferenceStore, opts.WeatherProvider, func(ao *agent.Options) {
		ao.Policy = opts.Policy
		ao.MaxModelCalls = opts.MaxModelCalls
		ao.Logger = opts.Logger
	})

	r := runner.New(o, func(ro *runner.Options) {
		ro.SessionStore = opts.SessionStore
		ro.UserID = opts.UserID
		ro.Logger = opts.Logger
	})

	status := opts.Status
	info := opts.Model.Info()
	status.UserID = r.UserID()
	status.Model = info.Name
	status.Provider = info.Provider

	return &App{orchestrator: o, runner: r, logger: opts.Logger, status: status}, nil
}

// FromConfig builds every component from cfg. Missing credentials degrade the
// matching connector to always-unavailable and are logged as warnings.
func FromConfig(cfg config.Config, logger *logging.StructuredLogger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewSlogLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, false)
	}

	prefs, closer, err := NewPreferenceStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	m, err := NewModel(cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.HasLLM() {
		logger.Warn("no credential for LLM provider; model calls will fail", "provider", cfg.LLMProvider)
	}

	app, err := New(func(o *Options) {
		o.Model = m
		o.PreferenceStore = prefs
		o.WeatherProvider = NewWeatherProvider(cfg, logger)
		o.UserID = cfg.UserID
		o.MaxModelCalls = cfg.MaxModelCalls
		o.Logger = logger.WithComponent("agent")
		o.Status = Status{
			MemoryBackend: cfg.MemoryBackend,
			Mem0Ready:     cfg.MemoryBackend != config.BackendMem0 || cfg.HasMem0(),
			WeatherReady:  cfg.HasWeather(),
			LLMReady:      cfg.HasLLM(),
		}
	})
	if err != nil {
		return nil, err
	}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	return app, nil
}

// NewPreferenceStore selects the backend named by cfg.MemoryBackend. The
// returned closer is nil for backends without resources.
func NewPreferenceStore(cfg config.Config, logger logging.Logger) (core.PreferenceStore, io.Closer, error) {
	switch cfg.MemoryBackend {
	case config.BackendMemory:
		return memory.NewInMemoryStore(), nil, nil
	case config.BackendSQLite:
		s, err := memory.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case config.BackendRedis:
		s := memory.NewRedisStore(cfg.RedisAddr)
		return s, s, nil
	default:
		if !cfg.HasMem0() {
			logger.Warn("MEM0_API_KEY not set; preference memory is unavailable")
			return memory.UnavailableStore{}, nil, nil
		}
		return memory.NewMem0Store(cfg.Mem0APIKey, func(o *memory.Mem0Options) {
			o.BaseURL = cfg.Mem0BaseURL
			o.Timeout = cfg.HTTPTimeout
		}), nil, nil
	}
}

// NewWeatherProvider returns the OpenWeatherMap client or, without a key, the
// always-unavailable provider.
func NewWeatherProvider(cfg config.Config, logger logging.Logger) core.WeatherProvider {
	if !cfg.HasWeather() {
		logger.Warn("OPENWEATHER_API_KEY not set; weather lookups are unavailable")
		return weather.Unavailable{}
	}
	return weather.NewOpenWeather(cfg.OpenWeatherAPIKey, func(o *weather.Options) {
		o.BaseURL = cfg.OpenWeatherBaseURL
		o.Units = cfg.WeatherUnits
		o.Lang = cfg.WeatherLang
		o.Timeout = cfg.HTTPTimeout
	})
}

// NewModel builds the model adapter selected by cfg.LLMProvider.
func NewModel(cfg config.Config) (model.Model, error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			o.APIKey = cfg.OpenAIAPIKey
			o.BaseURL = cfg.OpenAIBaseURL
			o.Temperature = cfg.LLMTemperature
			if cfg.LLMModel != "" {
				o.Model = cfg.LLMModel
			}
		}), nil
	case config.ProviderAnthropic:
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			o.APIKey = cfg.AnthropicAPIKey
			o.Temperature = cfg.LLMTemperature
			if cfg.LLMModel != "" {
				o.Model = anthropic.Model(cfg.LLMModel)
			}
		}), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}

// Runner returns the session runner shared by all shells.
func (a *App) Runner() *runner.Runner { return a.runner }

// Orchestrator returns the turn handler.
func (a *App) Orchestrator() *agent.Orchestrator { return a.orchestrator }

// Logger returns the application logger.
func (a *App) Logger() logging.Logger { return a.logger }

// Status reports configured collaborators.
func (a *App) Status() Status { return a.status }

// Chat runs one utterance in sessionID.
func (a *App) Chat(ctx context.Context, sessionID, utterance string) (runner.Result, error) {
	return a.runner.Run(ctx, sessionID, utterance)
}

// Close releases backend resources.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

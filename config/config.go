// Package config maps environment variables (optionally seeded from .env
// files) into an explicit Config value. Nothing here is process-wide mutable
// state: callers pass the Config to constructors.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Memory backends selectable via MEMORY_BACKEND.
const (
	BackendMem0   = "mem0"
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// LLM providers selectable via LLM_PROVIDER.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Config is the complete runtime configuration.
type Config struct {
	AppEnv string
	UserID string

	Mem0APIKey  string
	Mem0BaseURL string

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	WeatherUnits       string
	WeatherLang        string

	LLMProvider     string
	LLMModel        string
	LLMTemperature  float64
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	MaxModelCalls   int

	HTTPTimeout time.Duration

	MemoryBackend string
	SQLitePath    string
	RedisAddr     string

	LogLevel  string
	LogFormat string
}

// Load reads .env and .env.<APP_ENV> (the latter overriding) if present and
// then builds a Config from the process environment. Missing files are not an
// error; the returned slice names the files that were loaded.
func Load() (Config, []string) {
	var loaded []string

	if err := godotenv.Load(".env"); err == nil {
		loaded = append(loaded, ".env")
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}
	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err == nil {
		loaded = append(loaded, envFile)
	}

	return FromLookup(os.Getenv), loaded
}

// LoadFile parses a dotenv file into a Config without touching the process
// environment. Keys missing from the file fall back to the process environment.
func LoadFile(path string) (Config, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}
	return FromLookup(func(key string) string {
		if v, ok := values[key]; ok {
			return v
		}
		return os.Getenv(key)
	}), nil
}

// FromLookup builds a Config from an arbitrary key lookup, applying defaults.
func FromLookup(lookup func(string) string) Config {
	e := env(lookup)
	return Config{
		AppEnv: e.get("APP_ENV", "dev"),
		UserID: e.get("USER_ID", "current_user"),

		Mem0APIKey:  e.get("MEM0_API_KEY", ""),
		Mem0BaseURL: e.get("MEM0_BASE_URL", "https://api.mem0.ai"),

		OpenWeatherAPIKey:  e.get("OPENWEATHER_API_KEY", ""),
		OpenWeatherBaseURL: e.get("OPENWEATHER_BASE_URL", "http://api.openweathermap.org"),
		WeatherUnits:       e.get("WEATHER_UNITS", "metric"),
		WeatherLang:        e.get("WEATHER_LANG", "zh_tw"),

		LLMProvider:     strings.ToLower(e.get("LLM_PROVIDER", ProviderAnthropic)),
		LLMModel:        e.get("LLM_MODEL", ""),
		LLMTemperature:  e.float("LLM_TEMPERATURE", 0.7),
		AnthropicAPIKey: e.get("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    e.get("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   e.get("OPENAI_BASE_URL", ""),
		MaxModelCalls:   e.int("MAX_MODEL_CALLS", 8),

		HTTPTimeout: e.duration("HTTP_TIMEOUT", 15*time.Second),

		MemoryBackend: strings.ToLower(e.get("MEMORY_BACKEND", BackendMem0)),
		SQLitePath:    e.get("SQLITE_PATH", "ginny.db"),
		RedisAddr:     e.get("REDIS_ADDR", "localhost:6379"),

		LogLevel:  e.get("LOG_LEVEL", "info"),
		LogFormat: e.get("LOG_FORMAT", "text"),
	}
}

// HasMem0 reports whether a Mem0 credential is configured.
func (c Config) HasMem0() bool { return c.Mem0APIKey != "" }

// HasWeather reports whether an OpenWeatherMap credential is configured.
func (c Config) HasWeather() bool { return c.OpenWeatherAPIKey != "" }

// HasLLM reports whether the selected LLM provider has a credential.
func (c Config) HasLLM() bool {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey != "" || c.OpenAIBaseURL != ""
	default:
		return c.AnthropicAPIKey != ""
	}
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}
	switch c.MemoryBackend {
	case BackendMem0, BackendMemory, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unsupported MEMORY_BACKEND %q", c.MemoryBackend)
	}
	if c.MaxModelCalls < 0 {
		return fmt.Errorf("MAX_MODEL_CALLS must not be negative")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

type env func(string) string

func (e env) get(key, def string) string {
	if v := strings.TrimSpace(e(key)); v != "" {
		return v
	}
	return def
}

func (e env) int(key string, def int) int {
	v, err := strconv.Atoi(e.get(key, ""))
	if err != nil {
		return def
	}
	return v
}

func (e env) float(key string, def float64) float64 {
	v, err := strconv.ParseFloat(e.get(key, ""), 64)
	if err != nil {
		return def
	}
	return v
}

// duration accepts Go durations ("15s") and bare seconds ("15").
func (e env) duration(key string, def time.Duration) time.Duration {
	raw := e.get(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

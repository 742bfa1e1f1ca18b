package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	ProviderSimulated   = "simulated"
	ProviderOpenWeather = "openweather"
	ProviderOpenMeteo   = "openmeteo"
	ProviderWeatherAPI  = "weatherapi"

	FetchModeManual = "manual"
	FetchModeAuto   = "auto"
)

var validate = validator.New()

type AppConfig struct {
	// Provider selects the one weather source active in this deployment.
	Provider          string `validate:"oneof=simulated openweather openmeteo weatherapi"`
	OpenWeatherAPIKey string `validate:"required_if=Provider openweather"`
	WeatherAPIKey     string `validate:"required_if=Provider weatherapi"`

	// Country qualifier and description language sent upstream.
	Country  string `validate:"required"`
	Language string

	// FetchMode decides whether selecting a city fetches on its own.
	FetchMode string `validate:"oneof=manual auto"`

	SimulatedDelay time.Duration `validate:"gte=0"`
	HTTPTimeout    time.Duration `validate:"gte=0"`
	FetchTimeout   time.Duration `validate:"gt=0"`

	// Session lifetime in the in-memory registry.
	SessionTTL    time.Duration `validate:"gt=0"`
	SweepInterval time.Duration `validate:"gt=0"`

	Port        string `validate:"required,numeric"`
	Environment string
	LogLevel    string `validate:"oneof=debug info warn error"`
	LogFile     string

	OTelEnabled  bool
	OTelEndpoint string
}

// IsProduction reports whether APP_ENV is production.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration from environment with sensible defaults.
// A missing .env file is not an error; an unreadable or malformed one is.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &AppConfig{}

	cfg.Provider = strings.ToLower(getenvDefault("PROVIDER", ProviderSimulated))
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.Country = getenvDefault("WEATHER_COUNTRY", "JP")
	cfg.Language = getenvDefault("WEATHER_LANG", "ja")
	cfg.FetchMode = strings.ToLower(getenvDefault("FETCH_MODE", FetchModeManual))

	var err error
	if cfg.SimulatedDelay, err = getenvDuration("SIMULATED_DELAY", "800ms"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.FetchTimeout, err = getenvDuration("FETCH_TIMEOUT", "15s"); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getenvDuration("SESSION_TTL", "30m"); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getenvDuration("SWEEP_INTERVAL", "1m"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Environment = getenvDefault("APP_ENV", "development")
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	cfg.LogFile = os.Getenv("LOG_FILE")

	cfg.OTelEnabled = getenvBool("OTEL_ENABLED", false)
	cfg.OTelEndpoint = getenvDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

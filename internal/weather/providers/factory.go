package providers

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/i474232898/city-weather/internal/config"
	"github.com/i474232898/city-weather/internal/weather"
)

// New builds the single provider selected by cfg.Provider.
func New(cfg *config.AppConfig, client *http.Client, log *zap.Logger) (weather.Provider, error) {
	var p weather.Provider

	switch cfg.Provider {
	case config.ProviderSimulated, "":
		p = NewSimulatedProvider(cfg.SimulatedDelay, nil)
	case config.ProviderOpenWeather:
		p = NewOpenWeatherProvider(client, cfg.OpenWeatherAPIKey, cfg.Country, cfg.Language)
	case config.ProviderOpenMeteo:
		p = NewOpenMeteoProvider(client)
	case config.ProviderWeatherAPI:
		p = NewWeatherAPIProvider(client, cfg.WeatherAPIKey, cfg.Language)
	default:
		return nil, fmt.Errorf("unknown weather provider %q", cfg.Provider)
	}

	log.Info("weather provider selected", zap.String("provider", p.Name()))
	return p, nil
}

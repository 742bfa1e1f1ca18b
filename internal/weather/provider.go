package weather

import (
	"context"
	"time"
)

// Reading is a single provider's raw reading, normalized into a
// WeatherResult by Normalize.
type Reading struct {
	ProviderName string
	Timestamp    time.Time

	TemperatureC  float64
	HumidityPct   float64
	WindSpeedMS   float64
	ConditionCode int
	ConditionText string
}

// Provider abstracts a weather data source (OpenWeatherMap, Open-Meteo, or the simulator).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city CityEntry) (Reading, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, city CityEntry) (Reading, error)

func (f ProviderFunc) Name() string { return "func" }

func (f ProviderFunc) Fetch(ctx context.Context, city CityEntry) (Reading, error) {
	return f(ctx, city)
}

package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/city-weather/internal/weather"
)

const openWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

var errNoCondition = errors.New("response has no weather condition")

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name     string
	apiKey   string
	country  string
	language string
	baseURL  string
	client   *http.Client
	circuit  *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey, country, language string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:     "openweathermap",
		apiKey:   apiKey,
		country:  country,
		language: language,
		baseURL:  openWeatherURL,
		client:   client,
		circuit:  newCircuitBreaker("openweather"),
	}
}

// WithBaseURL points the provider at another endpoint (used by tests).
func (p *OpenWeatherProvider) WithBaseURL(u string) *OpenWeatherProvider {
	p.baseURL = u
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, city weather.CityEntry) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		if p.language != "" {
			values.Set("lang", p.language)
		}

		q := city.QueryName
		if p.country != "" {
			q = fmt.Sprintf("%s,%s", city.QueryName, p.country)
		}
		values.Set("q", q)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.Reading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Dt   int64  `json:"dt"`
		Name string `json:"name"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			ID          int    `json:"id"`
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, fmt.Errorf("decode openweather response: %w", err)
	}
	if len(payload.Weather) == 0 {
		return weather.Reading{}, errNoCondition
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	return weather.Reading{
		ProviderName:  p.name,
		Timestamp:     ts,
		TemperatureC:  payload.Main.Temp,
		HumidityPct:   payload.Main.Humidity,
		WindSpeedMS:   payload.Wind.Speed,
		ConditionCode: payload.Weather[0].ID,
		ConditionText: payload.Weather[0].Description,
	}, nil
}

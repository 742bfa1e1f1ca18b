package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/city-weather/internal/weather"
)

const openMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements weather.Provider for Open-Meteo. It needs no API
// key and is keyed by the catalog's fixed coordinates.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: openMeteoURL,
		client:  client,
		circuit: newCircuitBreaker("openmeteo"),
	}
}

// WithBaseURL points the provider at another endpoint (used by tests).
func (p *OpenMeteoProvider) WithBaseURL(u string) *OpenMeteoProvider {
	p.baseURL = u
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, city weather.CityEntry) (weather.Reading, error) {
	if city.Lat == 0 && city.Lon == 0 {
		return weather.Reading{}, fmt.Errorf("openmeteo requires coordinates for %s", city.ID)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", city.Lat))
		values.Set("longitude", fmt.Sprintf("%f", city.Lon))
		values.Set("current", "temperature_2m,relative_humidity_2m,weather_code,wind_speed_10m")
		values.Set("wind_speed_unit", "ms")
		values.Set("timezone", "GMT")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.Reading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current *struct {
			Time        string  `json:"time"`
			Temperature float64 `json:"temperature_2m"`
			Humidity    float64 `json:"relative_humidity_2m"`
			WeatherCode int     `json:"weather_code"`
			WindSpeed   float64 `json:"wind_speed_10m"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, fmt.Errorf("decode openmeteo response: %w", err)
	}
	if payload.Current == nil {
		return weather.Reading{}, errNoCondition
	}

	// Open-Meteo reports ISO8601 without seconds, in the requested timezone.
	ts, err := time.Parse("2006-01-02T15:04", payload.Current.Time)
	if err != nil {
		ts = time.Now().UTC()
	}

	code, text := mapWMOCode(payload.Current.WeatherCode)

	return weather.Reading{
		ProviderName:  p.name,
		Timestamp:     ts,
		TemperatureC:  payload.Current.Temperature,
		HumidityPct:   payload.Current.Humidity,
		WindSpeedMS:   payload.Current.WindSpeed,
		ConditionCode: code,
		ConditionText: text,
	}, nil
}

type owmCondition struct {
	code int
	text string
}

// wmoConditions translates WMO weather interpretation codes into the
// OpenWeatherMap code convention used by the presentation mapper.
var wmoConditions = map[int]owmCondition{
	0:  {800, "快晴"},
	1:  {801, "晴れ"},
	2:  {802, "曇り"},
	3:  {804, "曇り"},
	45: {741, "霧"},
	48: {741, "霧"},
	51: {300, "霧雨"},
	53: {301, "霧雨"},
	55: {302, "霧雨"},
	56: {511, "着氷性の雨"},
	57: {511, "着氷性の雨"},
	61: {500, "小雨"},
	63: {501, "雨"},
	65: {502, "強い雨"},
	66: {511, "着氷性の雨"},
	67: {511, "着氷性の雨"},
	71: {600, "小雪"},
	73: {601, "雪"},
	75: {602, "大雪"},
	77: {600, "雪"},
	80: {520, "にわか雨"},
	81: {521, "にわか雨"},
	82: {522, "強いにわか雨"},
	85: {620, "にわか雪"},
	86: {621, "にわか雪"},
	95: {211, "雷雨"},
	96: {202, "雷雨"},
	99: {202, "雷雨"},
}

func mapWMOCode(code int) (int, string) {
	if c, ok := wmoConditions[code]; ok {
		return c.code, c.text
	}
	return 0, "不明"
}

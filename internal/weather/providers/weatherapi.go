package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/city-weather/internal/weather"
)

const weatherAPIURL = "https://api.weatherapi.com/v1/current.json"

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com.
type WeatherAPIProvider struct {
	name     string
	apiKey   string
	language string
	baseURL  string
	client   *http.Client
	circuit  *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey, language string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:     "weatherapi",
		apiKey:   apiKey,
		language: language,
		baseURL:  weatherAPIURL,
		client:   client,
		circuit:  newCircuitBreaker("weatherapi"),
	}
}

// WithBaseURL points the provider at another endpoint (used by tests).
func (p *WeatherAPIProvider) WithBaseURL(u string) *WeatherAPIProvider {
	p.baseURL = u
	return p
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) Fetch(ctx context.Context, city weather.CityEntry) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		if p.language != "" {
			values.Set("lang", p.language)
		}
		// WeatherAPI uses "q" for location; it accepts "lat,lon" or a name.
		if city.Lat != 0 || city.Lon != 0 {
			values.Set("q", fmt.Sprintf("%f,%f", city.Lat, city.Lon))
		} else {
			values.Set("q", city.QueryName)
		}

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
			LastUpdatedEpoch int64   `json:"last_updated_epoch"`
			TempC            float64 `json:"temp_c"`
			Humidity         float64 `json:"humidity"`
			WindKph          float64 `json:"wind_kph"`
			Condition        struct {
				Text string `json:"text"`
				Code int    `json:"code"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, fmt.Errorf("decode weatherapi response: %w", err)
	}
	if payload.Current == nil {
		return weather.Reading{}, errNoCondition
	}

	ts := time.Now().UTC()
	if payload.Current.LastUpdatedEpoch > 0 {
		ts = time.Unix(payload.Current.LastUpdatedEpoch, 0).UTC()
	}

	cond := payload.Current.Condition

	return weather.Reading{
		ProviderName: p.name,
		Timestamp:    ts,
		TemperatureC: payload.Current.TempC,
		HumidityPct:  payload.Current.Humidity,
		// Convert wind from kph to m/s.
		WindSpeedMS:   payload.Current.WindKph / 3.6,
		ConditionCode: mapWeatherAPICondition(cond.Code, cond.Text),
		ConditionText: strings.TrimSpace(cond.Text),
	}, nil
}

// weatherAPICodes translates WeatherAPI.com condition codes into the
// OpenWeatherMap code convention.
var weatherAPICodes = map[int]int{
	1000: 800, // sunny / clear
	1003: 802,
	1006: 803,
	1009: 804,
	1030: 701,
	1063: 500,
	1066: 600,
	1069: 611,
	1072: 301,
	1087: 210,
	1114: 601,
	1117: 602,
	1135: 741,
	1147: 741,
	1150: 300,
	1153: 300,
	1168: 301,
	1171: 302,
	1180: 500,
	1183: 500,
	1186: 501,
	1189: 501,
	1192: 502,
	1195: 502,
	1198: 511,
	1201: 511,
	1204: 611,
	1207: 611,
	1210: 600,
	1213: 600,
	1216: 601,
	1219: 601,
	1222: 602,
	1225: 602,
	1237: 611,
	1240: 520,
	1243: 521,
	1246: 522,
	1249: 612,
	1252: 613,
	1255: 620,
	1258: 621,
	1261: 611,
	1264: 611,
	1273: 200,
	1276: 201,
	1279: 211,
	1282: 212,
}

// mapWeatherAPICondition prefers the numeric code and falls back to the
// English condition text for codes missing from the table.
func mapWeatherAPICondition(code int, text string) int {
	if c, ok := weatherAPICodes[code]; ok {
		return c
	}

	switch {
	case text == "":
		return 0
	case contains(text, "thunder") || contains(text, "storm"):
		return 211
	case contains(text, "drizzle"):
		return 300
	case contains(text, "rain") || contains(text, "shower"):
		return 500
	case contains(text, "snow") || contains(text, "sleet") || contains(text, "blizzard"):
		return 600
	case contains(text, "fog") || contains(text, "mist"):
		return 741
	case contains(text, "cloud") || contains(text, "overcast"):
		return 803
	case contains(text, "sunny") || contains(text, "clear"):
		return 800
	default:
		return 0
	}
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

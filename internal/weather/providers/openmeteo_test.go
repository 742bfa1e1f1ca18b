package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/city-weather/internal/weather"
)

func TestOpenMeteoFetch(t *testing.T) {
	var lat, unit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lat = r.URL.Query().Get("latitude")
		unit = r.URL.Query().Get("wind_speed_unit")
		_, _ = w.Write([]byte(`{
			"current": {
				"time": "2026-03-07T06:15",
				"temperature_2m": -2.4,
				"relative_humidity_2m": 81,
				"weather_code": 73,
				"wind_speed_10m": 4.2
			}
		}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client()).WithBaseURL(srv.URL)
	r, err := p.Fetch(context.Background(), tokyo)
	require.NoError(t, err)

	assert.Equal(t, "35.689500", lat)
	assert.Equal(t, "ms", unit)
	assert.Equal(t, "openmeteo", r.ProviderName)
	assert.Equal(t, 601, r.ConditionCode)
	assert.Equal(t, "雪", r.ConditionText)
	assert.InDelta(t, -2.4, r.TemperatureC, 0.001)
	assert.InDelta(t, 81, r.HumidityPct, 0.001)
	assert.InDelta(t, 4.2, r.WindSpeedMS, 0.001)
	assert.Equal(t, time.Date(2026, 3, 7, 6, 15, 0, 0, time.UTC), r.Timestamp)
}

func TestOpenMeteoMissingCurrentBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"latitude": 35.7}`))
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client()).WithBaseURL(srv.URL)
	_, err := p.Fetch(context.Background(), tokyo)
	assert.ErrorIs(t, err, errNoCondition)
}

func TestOpenMeteoNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewOpenMeteoProvider(srv.Client()).WithBaseURL(srv.URL)
	_, err := p.Fetch(context.Background(), tokyo)
	assert.ErrorIs(t, err, errUnexpected)
}

func TestOpenMeteoRequiresCoordinates(t *testing.T) {
	p := NewOpenMeteoProvider(http.DefaultClient)
	_, err := p.Fetch(context.Background(), weather.CityEntry{ID: "nowhere"})
	assert.Error(t, err)
}

func TestMapWMOCode(t *testing.T) {
	tests := []struct {
		wmo  int
		band weather.Band
	}{
		{0, weather.BandClear},
		{2, weather.BandClouds},
		{45, weather.BandMist},
		{53, weather.BandDrizzle},
		{63, weather.BandRain},
		{81, weather.BandRain},
		{75, weather.BandSnow},
		{95, weather.BandThunderstorm},
		{42, weather.BandOther},
	}

	for _, tt := range tests {
		code, text := mapWMOCode(tt.wmo)
		assert.Equal(t, tt.band, weather.BandFor(code), "wmo %d", tt.wmo)
		assert.NotEmpty(t, text)
	}
}

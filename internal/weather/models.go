package weather

import (
	"math"
	"time"
)

// DateLayout is the calendar-date format used for WeatherResult.ObservedDate.
const DateLayout = "2006/1/2"

// CityEntry is one selectable city. ID is the join key used everywhere else.
type CityEntry struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"` // native script
	QueryName   string  `json:"queryName"`   // ASCII name sent upstream
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// WeatherResult is the normalized current weather shown for a selected city.
type WeatherResult struct {
	CityDisplayName          string  `json:"cityDisplayName"`
	TemperatureCelsius       int     `json:"temperatureCelsius"`
	ConditionText            string  `json:"conditionText"`
	ConditionCode            int     `json:"conditionCode"`
	HumidityPercent          int     `json:"humidityPercent"`
	WindSpeedMetersPerSecond float64 `json:"windSpeedMetersPerSecond"`
	ObservedDate             string  `json:"observedDate"`
}

// Normalize turns a provider reading into a WeatherResult for city.
// The display name always comes from the catalog entry, never from the provider.
func Normalize(city CityEntry, r Reading) WeatherResult {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	humidity := int(math.Round(r.HumidityPct))
	if humidity < 0 {
		humidity = 0
	}
	if humidity > 100 {
		humidity = 100
	}

	return WeatherResult{
		CityDisplayName:          city.DisplayName,
		TemperatureCelsius:       int(math.Round(r.TemperatureC)),
		ConditionText:            r.ConditionText,
		ConditionCode:            r.ConditionCode,
		HumidityPercent:          humidity,
		WindSpeedMetersPerSecond: r.WindSpeedMS,
		ObservedDate:             ts.Local().Format(DateLayout),
	}
}

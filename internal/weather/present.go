package weather

// Band is the condition family a condition code falls into.
// Codes follow the OpenWeatherMap convention (https://openweathermap.org/weather-conditions).
type Band string

const (
	BandOther        Band = "other"
	BandThunderstorm Band = "thunderstorm"
	BandDrizzle      Band = "drizzle"
	BandRain         Band = "rain"
	BandSnow         Band = "snow"
	BandMist         Band = "mist"
	BandClear        Band = "clear"
	BandClouds       Band = "clouds"
)

var icons = map[Band]string{
	BandThunderstorm: "⚡",
	BandDrizzle:      "🌧️",
	BandRain:         "🌧️",
	BandSnow:         "❄️",
	BandMist:         "🌫️",
	BandClear:        "☀️",
	BandClouds:       "☁️",
	BandOther:        "🌈",
}

var backgrounds = map[Band]string{
	BandThunderstorm: "bg-purple-100",
	BandDrizzle:      "bg-blue-100",
	BandRain:         "bg-blue-200",
	BandSnow:         "bg-blue-50",
	BandMist:         "bg-gray-200",
	BandClear:        "bg-yellow-100",
	BandClouds:       "bg-gray-100",
	BandOther:        "bg-indigo-100",
}

// BandFor classifies a condition code. Bands are checked in ascending order;
// 400-499 and anything below 200 fall through to BandOther.
func BandFor(code int) Band {
	switch {
	case code >= 200 && code < 300:
		return BandThunderstorm
	case code >= 300 && code < 400:
		return BandDrizzle
	case code >= 500 && code < 600:
		return BandRain
	case code >= 600 && code < 700:
		return BandSnow
	case code >= 700 && code < 800:
		return BandMist
	case code == 800:
		return BandClear
	case code > 800:
		return BandClouds
	default:
		return BandOther
	}
}

// IconFor returns the glyph shown next to the temperature.
func IconFor(code int) string {
	return icons[BandFor(code)]
}

// BackgroundFor returns the background color token of the result panel.
func BackgroundFor(code int) string {
	return backgrounds[BandFor(code)]
}

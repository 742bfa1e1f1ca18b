package session

import "github.com/i474232898/city-weather/internal/weather"

// Guidance shown when there is nothing else to display.
const (
	HintSelectCity = "Select one of the cities above."
	HintPressFetch = "Press \"Get weather\" to show the current weather."
)

// WeatherView is a WeatherResult with its presentation tokens.
type WeatherView struct {
	weather.WeatherResult
	Icon       string `json:"icon"`
	Background string `json:"background"`
}

// View is what a client renders for one session.
type View struct {
	SessionID        string       `json:"sessionId"`
	Mode             Mode         `json:"mode"`
	SelectedCityID   string       `json:"selectedCityId,omitempty"`
	SelectedCityName string       `json:"selectedCityName,omitempty"`
	Weather          *WeatherView `json:"weather,omitempty"`
	Loading          bool         `json:"loading"`
	Error            string       `json:"error,omitempty"`
	Hint             string       `json:"hint,omitempty"`
	Version          uint64       `json:"version"`
}

// ViewOf derives the view of a state snapshot.
func ViewOf(sessionID string, mode Mode, st State) View {
	v := View{
		SessionID:      sessionID,
		Mode:           mode,
		SelectedCityID: st.SelectedCityID,
		Loading:        st.IsLoading,
		Error:          st.ErrorMessage,
		Version:        st.Version,
	}

	if city, ok := weather.LookupCity(st.SelectedCityID); ok {
		v.SelectedCityName = city.DisplayName
	}

	if st.CurrentWeather != nil {
		v.Weather = &WeatherView{
			WeatherResult: *st.CurrentWeather,
			Icon:          weather.IconFor(st.CurrentWeather.ConditionCode),
			Background:    weather.BackgroundFor(st.CurrentWeather.ConditionCode),
		}
	}

	idle := !st.IsLoading && st.ErrorMessage == ""
	switch {
	case idle && st.SelectedCityID == "":
		v.Hint = HintSelectCity
	case idle && st.CurrentWeather == nil && mode == ModeManual:
		v.Hint = HintPressFetch
	}

	return v
}

package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/i474232898/city-weather/internal/weather"
)

// User-facing messages. Fault details never reach the user; they are logged.
const (
	MsgCityNotFound = "city not found"
	MsgFetchFailed  = "failed to retrieve weather information, try again later"
)

var (
	ErrCityNotFound    = errors.New("city not found")
	ErrProvider        = errors.New("weather provider failed")
	ErrSuperseded      = errors.New("fetch superseded by a newer request")
	ErrSessionNotFound = errors.New("session not found")
)

// Mode selects how city selection and fetching interact.
type Mode string

const (
	// ModeManual clears the shown weather on selection and waits for an
	// explicit FetchWeather call.
	ModeManual Mode = "manual"
	// ModeAuto keeps the previous weather visible and fetches once per
	// distinct selected city.
	ModeAuto Mode = "auto"
)

// ParseMode accepts "manual" or "auto" in any case.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeManual, ModeAuto:
		return m, nil
	default:
		return "", fmt.Errorf("unknown fetch mode %q", s)
	}
}

// State is the per-session widget state. Empty strings stand for absent values.
type State struct {
	SelectedCityID string                 `json:"selectedCityId,omitempty"`
	CurrentWeather *weather.WeatherResult `json:"currentWeather,omitempty"`
	IsLoading      bool                   `json:"isLoading"`
	ErrorMessage   string                 `json:"errorMessage,omitempty"`

	// Version increases with every mutation.
	Version uint64 `json:"version"`
}

func (s State) clone() State {
	if s.CurrentWeather != nil {
		w := *s.CurrentWeather
		s.CurrentWeather = &w
	}
	return s
}

// Package render draws a session view in a terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/i474232898/city-weather/internal/session"
	"github.com/i474232898/city-weather/internal/weather"
)

// citiesPerRow matches the three-column button grid.
const citiesPerRow = 3

// panelColors maps background tokens onto terminal colors.
var panelColors = map[string]color.Attribute{
	"bg-purple-100": color.BgMagenta,
	"bg-blue-100":   color.BgCyan,
	"bg-blue-200":   color.BgBlue,
	"bg-blue-50":    color.BgHiCyan,
	"bg-gray-200":   color.BgHiBlack,
	"bg-yellow-100": color.BgYellow,
	"bg-gray-100":   color.BgWhite,
	"bg-indigo-100": color.BgHiMagenta,
}

var (
	titleColor    = color.New(color.Bold)
	selectedColor = color.New(color.FgBlue, color.Bold)
	errorColor    = color.New(color.FgRed)
	hintColor     = color.New(color.FgHiBlack)
)

// Cities writes the city grid, bracketing the selected city.
func Cities(w io.Writer, cities []weather.CityEntry, selectedID string) {
	for i, city := range cities {
		label := fmt.Sprintf(" %s ", city.DisplayName)
		if city.ID == selectedID {
			selectedColor.Fprintf(w, "[%s]", city.DisplayName)
		} else {
			fmt.Fprint(w, label)
		}

		if (i+1)%citiesPerRow == 0 || i == len(cities)-1 {
			fmt.Fprintln(w)
		} else {
			fmt.Fprint(w, "  ")
		}
	}
}

// Terminal writes one view: loading marker, error, weather panel and hint.
func Terminal(w io.Writer, v session.View) {
	if v.Loading {
		fmt.Fprintln(w, "読込中...")
	}
	if v.Error != "" {
		errorColor.Fprintln(w, v.Error)
	}
	if v.Weather != nil {
		panel(w, v.Weather)
	}
	if v.Hint != "" {
		hintColor.Fprintln(w, v.Hint)
	}
}

func panel(w io.Writer, wv *session.WeatherView) {
	bg := color.New(color.FgBlack)
	if attr, ok := panelColors[wv.Background]; ok {
		bg.Add(attr)
	}

	lines := []string{
		fmt.Sprintf("%s  %s", wv.CityDisplayName, wv.ObservedDate),
		fmt.Sprintf("%s  %d°C  %s", wv.Icon, wv.TemperatureCelsius, wv.ConditionText),
		fmt.Sprintf("湿度 %d%%  風速 %s m/s", wv.HumidityPercent, strconv.FormatFloat(wv.WindSpeedMetersPerSecond, 'f', -1, 64)),
	}

	titleColor.Fprintln(w, strings.Repeat("-", 24))
	for _, line := range lines {
		bg.Fprintf(w, " %s ", line)
		fmt.Fprintln(w)
	}
	titleColor.Fprintln(w, strings.Repeat("-", 24))
}

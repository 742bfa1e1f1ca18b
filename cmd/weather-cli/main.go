// Command weather-cli shows the current weather of one catalog city.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/i474232898/city-weather/internal/config"
	"github.com/i474232898/city-weather/internal/logger"
	"github.com/i474232898/city-weather/internal/render"
	"github.com/i474232898/city-weather/internal/session"
	"github.com/i474232898/city-weather/internal/weather"
	"github.com/i474232898/city-weather/internal/weather/providers"
)

// errShown marks a failure already rendered as part of the view.
var errShown = errors.New("lookup failed")

func main() {
	cityID := flag.String("city", "", "city id to look up (see -list)")
	list := flag.Bool("list", false, "print the city catalog and exit")
	flag.Parse()

	if err := run(*cityID, *list); err != nil {
		if !errors.Is(err, errShown) {
			color.Red("%v", err)
		}
		os.Exit(1)
	}
}

func run(cityID string, list bool) error {
	if list {
		for _, c := range weather.Cities() {
			fmt.Printf("%-10s %s\n", c.ID, c.DisplayName)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Keep the terminal for the widget; only warnings and up go to the log.
	zlog, err := logger.New(logger.Options{Level: "warn", FilePath: cfg.LogFile})
	if err != nil {
		return err
	}
	defer zlog.Sync() //nolint:errcheck

	provider, err := providers.New(cfg, &http.Client{Timeout: cfg.HTTPTimeout}, zap.NewNop())
	if err != nil {
		return err
	}

	ctrl := session.NewController("cli", session.ModeManual, provider, session.WithLogger(zlog))

	render.Cities(os.Stdout, weather.Cities(), cityID)
	fmt.Println()

	if cityID == "" {
		render.Terminal(os.Stdout, ctrl.View())
		return nil
	}

	if err := ctrl.SelectCity(cityID); err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
		defer cancel()
		_ = ctrl.FetchWeather(ctx)
	}

	v := ctrl.View()
	render.Terminal(os.Stdout, v)
	if v.Error != "" {
		return errShown
	}
	return nil
}

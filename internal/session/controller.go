package session

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/i474232898/city-weather/internal/weather"
)

var tracer = otel.Tracer("github.com/i474232898/city-weather/internal/session")

// Notifier is told about selections and state changes. The event bus
// implements it; auto mode relies on CitySelected reaching a Dispatcher.
type Notifier interface {
	CitySelected(sessionID, cityID string)
	StateChanged(sessionID string, st State)
}

type nopNotifier struct{}

func (nopNotifier) CitySelected(string, string) {}
func (nopNotifier) StateChanged(string, State) {}

// Controller owns one session's State. SelectCity and FetchWeather are the
// only mutators.
type Controller struct {
	id       string
	mode     Mode
	provider weather.Provider
	notifier Notifier
	log      *zap.Logger

	mu    sync.Mutex
	state State
	// seq identifies the newest fetch; older fetches may not write state.
	seq uint64
}

// Option configures a Controller.
type Option func(*Controller)

func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// NewController creates a controller with empty state.
func NewController(id string, mode Mode, provider weather.Provider, opts ...Option) *Controller {
	if mode == "" {
		mode = ModeManual
	}
	c := &Controller{
		id:       id,
		mode:     mode,
		provider: provider,
		notifier: nopNotifier{},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) ID() string { return c.id }

func (c *Controller) Mode() Mode { return c.mode }

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// View returns the presentation view of the current state.
func (c *Controller) View() View {
	return ViewOf(c.id, c.mode, c.Snapshot())
}

// commitLocked bumps the version and returns a copy for observers.
func (c *Controller) commitLocked() State {
	c.state.Version++
	return c.state.clone()
}

// SelectCity records the selected city. An unknown id sets the selection
// error and leaves selection and weather untouched.
func (c *Controller) SelectCity(cityID string) error {
	city, ok := weather.LookupCity(cityID)

	c.mu.Lock()
	if !ok {
		c.state.ErrorMessage = MsgCityNotFound
		c.state.IsLoading = false
		snap := c.commitLocked()
		c.mu.Unlock()

		c.log.Warn("unknown city selected", zap.String("session", c.id), zap.String("city", cityID))
		c.notifier.StateChanged(c.id, snap)
		return fmt.Errorf("%w: %q", ErrCityNotFound, cityID)
	}

	changed := c.state.SelectedCityID != city.ID
	c.state.SelectedCityID = city.ID
	if c.mode == ModeManual {
		c.state.CurrentWeather = nil
	}
	if changed {
		// A fetch still running for the previous city must not land.
		c.seq++
		c.state.IsLoading = false
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	c.log.Debug("city selected", zap.String("session", c.id), zap.String("city", city.ID), zap.Bool("changed", changed))
	c.notifier.StateChanged(c.id, snap)
	if changed && c.mode == ModeAuto {
		c.notifier.CitySelected(c.id, city.ID)
	}
	return nil
}

// FetchWeather fetches weather for the selected city and records the result
// or the failure message. It is a no-op when nothing is selected. A fetch
// overtaken by a newer fetch or selection returns ErrSuperseded and changes
// nothing.
func (c *Controller) FetchWeather(ctx context.Context) error {
	c.mu.Lock()
	if c.state.SelectedCityID == "" {
		c.mu.Unlock()
		return nil
	}

	selected := c.state.SelectedCityID
	city, ok := weather.LookupCity(selected)
	if !ok {
		c.state.ErrorMessage = MsgCityNotFound
		c.state.IsLoading = false
		snap := c.commitLocked()
		c.mu.Unlock()
		c.notifier.StateChanged(c.id, snap)
		return fmt.Errorf("%w: %q", ErrCityNotFound, selected)
	}

	c.seq++
	token := c.seq
	c.state.IsLoading = true
	c.state.ErrorMessage = ""
	snap := c.commitLocked()
	c.mu.Unlock()
	c.notifier.StateChanged(c.id, snap)

	ctx, span := tracer.Start(ctx, "session.FetchWeather", trace.WithAttributes(
		attribute.String("session.id", c.id),
		attribute.String("city.id", city.ID),
		attribute.String("provider", c.provider.Name()),
	))
	defer span.End()

	reading, err := c.callProvider(ctx, city)

	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		c.log.Debug("discarding superseded fetch", zap.String("session", c.id), zap.String("city", city.ID))
		span.SetAttributes(attribute.Bool("superseded", true))
		return ErrSuperseded
	}

	if err != nil {
		c.state.ErrorMessage = MsgFetchFailed
	} else {
		result := weather.Normalize(city, reading)
		c.state.CurrentWeather = &result
		c.state.ErrorMessage = ""
	}
	c.state.IsLoading = false
	snap = c.commitLocked()
	c.mu.Unlock()
	c.notifier.StateChanged(c.id, snap)

	if err != nil {
		c.log.Error("weather fetch failed",
			zap.String("session", c.id),
			zap.String("city", city.ID),
			zap.String("provider", c.provider.Name()),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider error")
		return fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return nil
}

// callProvider turns a provider panic into an ordinary failure.
func (c *Controller) callProvider(ctx context.Context, city weather.CityEntry) (r weather.Reading, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("provider panic: %v", p)
		}
	}()
	return c.provider.Fetch(ctx, city)
}

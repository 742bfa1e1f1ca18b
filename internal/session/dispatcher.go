package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Registry resolves session ids to controllers.
type Registry interface {
	Get(id string) (*Controller, bool)
}

// Dispatcher turns city-selected events into fetches for auto-mode sessions.
type Dispatcher struct {
	bus      *Bus
	registry Registry
	timeout  time.Duration
	log      *zap.Logger

	wg sync.WaitGroup
}

func NewDispatcher(bus *Bus, registry Registry, timeout time.Duration, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{
		bus:      bus,
		registry: registry,
		timeout:  timeout,
		log:      log,
	}
}

// Run subscribes to selection events and handles them until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) error {
	messages, err := d.bus.subscribeCitySelected(ctx)
	if err != nil {
		return err
	}

	// The loop holds a slot in wg, so handle's Add never races Wait.
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for msg := range messages {
			d.handle(ctx, msg)
		}
	}()
	return nil
}

// Wait blocks until the ctx given to Run is done, the subscription has
// drained and every dispatched fetch has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) handle(ctx context.Context, msg *message.Message) {
	var ev citySelectedEvent
	err := json.Unmarshal(msg.Payload, &ev)
	msg.Ack()
	if err != nil {
		d.log.Warn("dropping malformed selection event", zap.Error(err))
		return
	}

	ctrl, ok := d.registry.Get(ev.SessionID)
	if !ok {
		d.log.Debug("selection for unknown session", zap.String("session", ev.SessionID))
		return
	}
	if ctrl.Snapshot().SelectedCityID != ev.CityID {
		// A later selection already replaced this one.
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		fetchCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		err := ctrl.FetchWeather(fetchCtx)
		if err != nil && !errors.Is(err, ErrSuperseded) {
			d.log.Warn("auto fetch failed",
				zap.String("session", ev.SessionID),
				zap.String("city", ev.CityID),
				zap.Error(err),
			)
		}
	}()
}

package session

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/i474232898/city-weather/internal/weather"
)

// Store is the contract the session registry must satisfy.
type Store interface {
	Save(c *Controller)
	Get(id string) (*Controller, bool)
	Delete(id string) bool
}

// Service creates sessions and routes user actions to their controllers.
type Service struct {
	store       Store
	provider    weather.Provider
	notifier    Notifier
	defaultMode Mode
	log         *zap.Logger
}

// NewService creates a new Service. notifier may be nil when no live views or
// auto mode are needed.
func NewService(store Store, provider weather.Provider, notifier Notifier, defaultMode Mode, log *zap.Logger) *Service {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if defaultMode == "" {
		defaultMode = ModeManual
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:       store,
		provider:    provider,
		notifier:    notifier,
		defaultMode: defaultMode,
		log:         log,
	}
}

// DefaultMode is the mode used when Create is called without one.
func (s *Service) DefaultMode() Mode {
	return s.defaultMode
}

// Create starts a new session with empty state.
func (s *Service) Create(mode Mode) *Controller {
	if mode == "" {
		mode = s.defaultMode
	}
	id := uuid.NewString()
	ctrl := NewController(id, mode, s.provider,
		WithNotifier(s.notifier),
		WithLogger(s.log),
	)
	s.store.Save(ctrl)
	s.log.Info("session created", zap.String("session", id), zap.String("mode", string(mode)))
	return ctrl
}

// Get returns the controller of a live session.
func (s *Service) Get(id string) (*Controller, error) {
	ctrl, ok := s.store.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ctrl, nil
}

// SelectCity forwards a selection to the session's controller.
func (s *Service) SelectCity(id, cityID string) (*Controller, error) {
	ctrl, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return ctrl, ctrl.SelectCity(cityID)
}

// FetchWeather runs a fetch for the session's selected city.
func (s *Service) FetchWeather(ctx context.Context, id string) (*Controller, error) {
	ctrl, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return ctrl, ctrl.FetchWeather(ctx)
}

// End removes a session.
func (s *Service) End(id string) error {
	if !s.store.Delete(id) {
		return ErrSessionNotFound
	}
	s.log.Info("session ended", zap.String("session", id))
	return nil
}

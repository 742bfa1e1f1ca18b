package store

import (
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/i474232898/city-weather/internal/session"
)

// SessionStore keeps live sessions in memory. A session expires after ttl
// without being looked up; expired entries are removed by Sweep.
type SessionStore struct {
	cache *cache.Cache
	log   *zap.Logger
}

// NewSessionStore creates a store whose janitor is driven externally through Sweep.
func NewSessionStore(ttl time.Duration, log *zap.Logger) *SessionStore {
	if log == nil {
		log = zap.NewNop()
	}

	c := cache.New(ttl, 0)
	c.OnEvicted(func(id string, _ interface{}) {
		log.Debug("session evicted", zap.String("session", id))
	})

	return &SessionStore{cache: c, log: log}
}

// Save registers a session.
func (s *SessionStore) Save(ctrl *session.Controller) {
	s.cache.Set(ctrl.ID(), ctrl, cache.DefaultExpiration)
}

// Get returns a live session and extends its lifetime.
func (s *SessionStore) Get(id string) (*session.Controller, bool) {
	x, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	ctrl := x.(*session.Controller)

	// Re-key with the controller's own id: callers may pass strings that
	// alias reusable request buffers, and the map would keep that key.
	// Replace fails if the session was deleted meanwhile, which is what we want.
	_ = s.cache.Replace(ctrl.ID(), ctrl, cache.DefaultExpiration)
	return ctrl, true
}

// Delete removes a session and reports whether it existed.
func (s *SessionStore) Delete(id string) bool {
	if _, found := s.cache.Get(id); !found {
		return false
	}
	s.cache.Delete(id)
	return true
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *SessionStore) Sweep() int {
	before := s.cache.ItemCount()
	s.cache.DeleteExpired()
	return before - s.cache.ItemCount()
}

// Len counts stored sessions, including expired ones not yet swept.
func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}

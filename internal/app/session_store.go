package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"censusqa/internal/metrics"
)

// SessionStore keeps sessions in memory, keyed by the id in the session cookie.
type SessionStore struct {
	idleTimeout time.Duration
	now         func() time.Time
	log         zerolog.Logger
	metrics     *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionStore creates a store; idleTimeout <= 0 keeps sessions until shutdown.
func NewSessionStore(idleTimeout time.Duration, log zerolog.Logger, m *metrics.Metrics) *SessionStore {
	return &SessionStore{
		idleTimeout: idleTimeout,
		now:         time.Now,
		log:         log.With().Str("component", "sessions").Logger(),
		metrics:     m,
		sessions:    make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use.
func (s *SessionStore) Get(id string) *Session {
	now := s.now()

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = NewSession(id, now)
		s.sessions[id] = sess
	}
	count := len(s.sessions)
	s.mu.Unlock()

	sess.Touch(now)
	if !ok {
		s.setGauge(count)
		s.log.Debug().Str("session", id).Msg("session created")
	}
	return sess
}

// Sweep drops sessions idle for longer than the idle timeout and returns how many.
func (s *SessionStore) Sweep() int {
	if s.idleTimeout <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.idleTimeout)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastSeen().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	s.setGauge(count)
	if removed > 0 {
		s.log.Info().Int("removed", removed).Int("remaining", count).Msg("idle sessions swept")
	}
	return removed
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) setGauge(count int) {
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(count))
	}
}

package app

import (
	"context"
	"sync"
	"time"

	"censusqa/internal/vectorstore/memory"
)

type State int

const (
	StateUninitialized State = iota
	StateReady
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "READY"
	default:
		return "UNINITIALIZED"
	}
}

// Session holds one user's index. The UNINITIALIZED -> READY transition happens
// at most once; builds are serialized by buildMu.
type Session struct {
	ID        string
	CreatedAt time.Time

	buildMu sync.Mutex

	mu       sync.RWMutex
	built    *BuiltIndex
	lastSeen time.Time
}

func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, lastSeen: now}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.built == nil {
		return StateUninitialized
	}
	return StateReady
}

// Built returns the cached index, or nil while UNINITIALIZED.
func (s *Session) Built() *BuiltIndex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.built
}

// Index is a convenience accessor for the cached index.
func (s *Session) Index() (*memory.Index, bool) {
	b := s.Built()
	if b == nil {
		return nil, false
	}
	return b.Index, true
}

// GetOrBuild returns the cached index, running build only when none exists.
// reused reports whether the cached index was returned. A failed build leaves
// the session UNINITIALIZED.
func (s *Session) GetOrBuild(ctx context.Context, build func(context.Context) (*BuiltIndex, error)) (b *BuiltIndex, reused bool, err error) {
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if existing := s.Built(); existing != nil {
		return existing, true, nil
	}

	b, err = build(ctx)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	s.built = b
	s.mu.Unlock()
	return b, false, nil
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

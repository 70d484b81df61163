package services

import (
	"context"
	"sync"
	"time"
)

// SessionManager keeps the live sessions of every owner. Sessions nobody
// has touched for longer than the idle TTL are reset and dropped by
// RunJanitor.
type SessionManager struct {
	deps SessionDeps
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*managedSession
}

type managedSession struct {
	session    *Session
	lastAccess time.Time
}

type ManagerOption func(*SessionManager)

// WithClock replaces time.Now for access bookkeeping.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *SessionManager) {
		if now != nil {
			m.now = now
		}
	}
}

func NewSessionManager(deps SessionDeps, opts ...ManagerOption) *SessionManager {
	m := &SessionManager{
		deps:     deps,
		now:      time.Now,
		sessions: make(map[string]*managedSession),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *SessionManager) Create(owner string) *Session {
	session := NewSession(owner, m.deps)

	m.mu.Lock()
	m.sessions[session.ID()] = &managedSession{session: session, lastAccess: m.now()}
	m.mu.Unlock()

	return session
}

// Get returns the session only to the owner that created it, and counts
// as activity.
func (m *SessionManager) Get(id, owner string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok || entry.session.Owner() != owner {
		return nil, ErrSessionNotFound
	}
	entry.lastAccess = m.now()
	return entry.session, nil
}

// Discard resets a session and forgets it.
func (m *SessionManager) Discard(id, owner string) error {
	session, err := m.Get(id, owner)
	if err != nil {
		return err
	}
	session.Reset()

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// EvictIdle resets and drops every session last accessed more than ttl
// ago, cancelling its poller, and returns how many were dropped.
func (m *SessionManager) EvictIdle(ttl time.Duration) int {
	cutoff := m.now().Add(-ttl)

	m.mu.Lock()
	var idle []*Session
	for id, entry := range m.sessions {
		if entry.lastAccess.Before(cutoff) {
			idle = append(idle, entry.session)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, session := range idle {
		session.Reset()
	}
	return len(idle)
}

// RunJanitor evicts idle sessions every ttl/4 (at least once a second)
// until ctx is done. A non-positive ttl disables eviction.
func (m *SessionManager) RunJanitor(ctx context.Context, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.EvictIdle(ttl); n > 0 && m.deps.Logger != nil {
				m.deps.Logger.Info("idle sessions evicted", "count", n)
			}
		}
	}
}

// Shutdown cancels every running poller.
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.sessions {
		entry.session.Reset()
		delete(m.sessions, id)
	}
}

func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

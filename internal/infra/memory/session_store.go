package memory

import (
	"context"
	"sync"
	"time"
)

// Live is a transient session that can finish on its own or be abandoned.
type Live interface {
	Done() bool
	Close()
}

type liveEntry[T Live] struct {
	session T
	touched time.Time
}

// SessionStore keeps live sessions (mini-games, quiz attempts) in process memory, keyed by id.
// Sessions untouched for longer than the idle timeout are closed and dropped; a zero timeout
// keeps them until they are deleted.
type SessionStore[T Live] struct {
	idle time.Duration
	now  func() time.Time

	mu       sync.RWMutex
	sessions map[string]*liveEntry[T]
}

func NewSessionStore[T Live](idle time.Duration) *SessionStore[T] {
	return &SessionStore[T]{
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*liveEntry[T]),
	}
}

// Put stores the session, closing any session it replaces. Idle sessions are swept first so
// the store stays bounded even when no sweeper runs.
func (s *SessionStore[T]) Put(id string, session T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	if old, ok := s.sessions[id]; ok {
		old.session.Close()
	}
	s.sessions[id] = &liveEntry[T]{session: session, touched: s.now()}
}

// Get returns the session and marks it as used.
func (s *SessionStore[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		var zero T
		return zero, false
	}
	entry.touched = s.now()
	return entry.session, true
}

// Delete closes and forgets the session.
func (s *SessionStore[T]) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.sessions[id]; ok {
		entry.session.Close()
		delete(s.sessions, id)
	}
}

// DeleteIfDone forgets the session once it has finished.
func (s *SessionStore[T]) DeleteIfDone(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok || !entry.session.Done() {
		return false
	}
	entry.session.Close()
	delete(s.sessions, id)
	return true
}

// Sweep closes and drops every session idle for longer than the timeout and returns their ids.
func (s *SessionStore[T]) Sweep() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

func (s *SessionStore[T]) sweepLocked() []string {
	if s.idle <= 0 {
		return nil
	}
	cutoff := s.now().Add(-s.idle)
	var evicted []string
	for id, entry := range s.sessions {
		if entry.touched.Before(cutoff) {
			entry.session.Close()
			delete(s.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (s *SessionStore[T]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Len reports how many sessions are held.
func (s *SessionStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

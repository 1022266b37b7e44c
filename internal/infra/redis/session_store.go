package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"mathquest/internal/infra/memory"
)

// SessionStore is a Redis-aware registry of live sessions.
// Notes:
//   - Sessions hold timers and callbacks, so the values themselves stay in a local
//     in-memory store.
//   - Redis only marks session liveness so other instances and operators can see which
//     games are running. Markers expire after ttl if an instance dies without cleaning up.
//   - Local sessions idle for longer than ttl are swept too, so a marker never outlives
//     the session it describes.
type SessionStore[T memory.Live] struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	local  *memory.SessionStore[T]
}

func NewSessionStore[T memory.Live](client *redis.Client, prefix string, ttl time.Duration) *SessionStore[T] {
	if prefix == "" {
		prefix = "mathquest:session:"
	}
	return &SessionStore[T]{
		client: client,
		ttl:    ttl,
		prefix: prefix,
		local:  memory.NewSessionStore[T](ttl),
	}
}

func (s *SessionStore[T]) Put(id string, session T) {
	s.local.Put(id, session)
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(id), "1", s.ttl).Err()
}

// Get returns the session and refreshes its liveness marker.
func (s *SessionStore[T]) Get(id string) (T, bool) {
	session, ok := s.local.Get(id)
	if ok {
		_ = s.client.Expire(context.Background(), s.key(id), s.ttl).Err()
	}
	return session, ok
}

func (s *SessionStore[T]) Delete(id string) {
	s.local.Delete(id)
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

func (s *SessionStore[T]) DeleteIfDone(id string) bool {
	if !s.local.DeleteIfDone(id) {
		return false
	}
	_ = s.client.Del(context.Background(), s.key(id)).Err()
	return true
}

// Sweep drops idle local sessions and their liveness markers.
func (s *SessionStore[T]) Sweep(ctx context.Context) []string {
	evicted := s.local.Sweep()
	if len(evicted) == 0 {
		return nil
	}
	keys := make([]string, 0, len(evicted))
	for _, id := range evicted {
		keys = append(keys, s.key(id))
	}
	_ = s.client.Del(ctx, keys...).Err()
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
			s.Sweep(ctx)
		}
	}
}

func (s *SessionStore[T]) Len() int {
	return s.local.Len()
}

func (s *SessionStore[T]) key(id string) string {
	return s.prefix + id
}

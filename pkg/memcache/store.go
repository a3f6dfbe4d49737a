// Package memcache provides small in-process TTL caches.
package memcache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is a concurrency-safe map whose entries expire after a TTL.
// Expired entries are dropped lazily on read.
type Store[V any] struct {
	mu   sync.RWMutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]entry[V]
}

func NewStore[V any](ttl time.Duration) *Store[V] {
	return &Store[V]{
		ttl:  ttl,
		now:  time.Now,
		data: make(map[string]entry[V]),
	}
}

func (s *Store[V]) Set(key string, value V) {
	s.SetWithTTL(key, value, s.ttl)
}

func (s *Store[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry[V]{value: value, expiresAt: s.now().Add(ttl)}
}

func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	e, ok := s.data[key]
	s.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		if cur, still := s.data[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

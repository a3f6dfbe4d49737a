package memcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStoreExpiresEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore[string](time.Minute)
	s.now = func() time.Time { return now }

	s.Set("a", "alpha")
	v, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "alpha", v)

	now = now.Add(2 * time.Minute)
	_, ok = s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestStoreDeleteAndZeroTTL(t *testing.T) {
	s := NewStore[int](time.Minute)
	s.Set("x", 1)
	s.Delete("x")
	_, ok := s.Get("x")
	assert.False(t, ok)

	disabled := NewStore[int](0)
	disabled.Set("y", 2)
	_, ok = disabled.Get("y")
	assert.False(t, ok)
}

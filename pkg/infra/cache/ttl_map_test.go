package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLMap(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		m := NewTTLMap(time.Minute)
		m.Set("a", 1)
		v, ok := m.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, v)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("expired entries are evicted", func(t *testing.T) {
		m := NewTTLMap(time.Millisecond)
		m.Set("a", 1)
		m.Set("b", 2)
		time.Sleep(5 * time.Millisecond)

		_, ok := m.Get("a")
		assert.False(t, ok)
		assert.Equal(t, 1, m.Len())
		assert.Equal(t, 1, m.Sweep())
		assert.Zero(t, m.Len())
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		m := NewTTLMap(0)
		m.Set("a", "x")
		assert.Zero(t, m.Sweep())
		_, ok := m.Get("a")
		assert.True(t, ok)
	})

	t.Run("delete reports presence", func(t *testing.T) {
		m := NewTTLMap(time.Minute)
		m.Set("a", 1)
		assert.True(t, m.Delete("a"))
		assert.False(t, m.Delete("a"))
	})

	t.Run("clear", func(t *testing.T) {
		m := NewTTLMap(time.Minute)
		m.Set("a", 1)
		m.Clear()
		assert.Zero(t, m.Len())
	})
}

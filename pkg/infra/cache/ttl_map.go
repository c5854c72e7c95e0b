package cache

import (
	"sync"
	"time"
)

type TTLEntry struct {
	Value     interface{}
	ExpiresAt time.Time
}

// TTLMap is a thread-safe map whose entries expire TTL after they were set.
// A zero TTL means entries never expire.
type TTLMap struct {
	Data map[string]*TTLEntry
	Mu   sync.RWMutex
	TTL  time.Duration
}

func NewTTLMap(ttl time.Duration) *TTLMap {
	return &TTLMap{
		Data: make(map[string]*TTLEntry),
		TTL:  ttl,
	}
}

func (e *TTLEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get returns the value for key unless it is missing or expired. Expired
// entries are evicted on the way out.
func (m *TTLMap) Get(key string) (interface{}, bool) {
	m.Mu.RLock()
	entry, exists := m.Data[key]
	if !exists {
		m.Mu.RUnlock()
		return nil, false
	}
	isExpired := entry.expired(time.Now())
	value := entry.Value
	m.Mu.RUnlock()

	if isExpired {
		m.Mu.Lock()
		if current, ok := m.Data[key]; ok && current.expired(time.Now()) {
			delete(m.Data, key)
		}
		m.Mu.Unlock()
		return nil, false
	}

	return value, true
}

func (m *TTLMap) Set(key string, value interface{}) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	entry := &TTLEntry{Value: value}
	if m.TTL > 0 {
		entry.ExpiresAt = time.Now().Add(m.TTL)
	}
	m.Data[key] = entry
}

// Delete removes key and reports whether a live entry was present.
func (m *TTLMap) Delete(key string) bool {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	entry, ok := m.Data[key]
	if !ok {
		return false
	}
	delete(m.Data, key)
	return !entry.expired(time.Now())
}

// Sweep drops every expired entry and returns how many were removed.
func (m *TTLMap) Sweep() int {
	now := time.Now()
	m.Mu.Lock()
	defer m.Mu.Unlock()
	removed := 0
	for key, entry := range m.Data {
		if entry.expired(now) {
			delete(m.Data, key)
			removed++
		}
	}
	return removed
}

func (m *TTLMap) Len() int {
	m.Mu.RLock()
	defer m.Mu.RUnlock()
	return len(m.Data)
}

func (m *TTLMap) Clear() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Data = make(map[string]*TTLEntry)
}

package storage

import (
	"sync"
	"time"
)

// memoryStore implements a Store backed by an expiring in-process map.
type memoryStore struct {
	mu              sync.Mutex
	entries         map[string]time.Time
	lastCleanup     time.Time
	ttl             time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
	closed          bool
}

func newMemoryStore(opts Options, now func() time.Time) *memoryStore {
	return &memoryStore{
		entries:         make(map[string]time.Time),
		lastCleanup:     now(),
		ttl:             opts.TTL,
		cleanupInterval: opts.CleanupInterval,
		now:             now,
	}
}

// Close drops every entry. Later calls behave like an empty store.
func (m *memoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]time.Time)
	m.closed = true
	return nil
}

// Seen reports whether key was marked and has not expired yet.
func (m *memoryStore) Seen(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.maybeCleanupExpired(now)

	expiry, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	if !expiry.After(now) {
		delete(m.entries, key)
		return false, nil
	}
	return true, nil
}

// Mark records key as published for the configured TTL.
func (m *memoryStore) Mark(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}

	now := m.now()
	m.maybeCleanupExpired(now)
	m.entries[key] = now.Add(m.ttl)
	return nil
}

func (m *memoryStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// maybeCleanupExpired removes expired keys on a fixed cadence to avoid unbounded growth.
// Callers hold m.mu.
func (m *memoryStore) maybeCleanupExpired(now time.Time) {
	if now.Sub(m.lastCleanup) < m.cleanupInterval {
		return
	}
	for k, expiry := range m.entries {
		if !expiry.After(now) {
			delete(m.entries, k)
		}
	}
	m.lastCleanup = now
}

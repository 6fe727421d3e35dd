package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// Stats describes the current contents of a cache instance.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// Store is the contract shared by the in-memory, Redis and no-op backends.
// Get returns false for missing or expired entries. Clear removes entries
// whose key contains pattern; an empty pattern removes everything.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context, pattern string) int
	Stats(ctx context.Context) Stats
	Close() error
}

// Key derives a cache key from the logically relevant request parameters:
// canonical JSON, hashed, prefixed. Two semantically identical requests
// collide; any relevant difference produces a distinct key.
func Key(prefix string, params any) string {
	data, _ := json.Marshal(params)
	hash := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(hash[:])
}

type memoryEntry struct {
	value    []byte
	storedAt time.Time
}

// Memory is a TTL key/value store. Expiry is checked on read; stale
// entries are ignored, not proactively purged.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if m.now().Sub(entry.storedAt) > m.ttl {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, storedAt: m.now()}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context, pattern string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key := range m.entries {
		if pattern == "" || strings.Contains(key, pattern) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

func (m *Memory) Stats(_ context.Context) Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.entries))
	for key, entry := range m.entries {
		if m.now().Sub(entry.storedAt) <= m.ttl {
			keys = append(keys, key)
		}
	}
	return Stats{Size: len(keys), Keys: keys}
}

func (m *Memory) Close() error {
	return nil
}

// NoOp caches nothing; it stands in when caching is disabled.
type NoOp struct{}

func NewNoOp() *NoOp {
	return &NoOp{}
}

func (NoOp) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (NoOp) Set(context.Context, string, []byte) error  { return nil }
func (NoOp) Clear(context.Context, string) int          { return 0 }
func (NoOp) Stats(context.Context) Stats                { return Stats{} }
func (NoOp) Close() error                               { return nil }

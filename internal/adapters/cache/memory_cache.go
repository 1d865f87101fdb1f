package cache

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vetconnect/backend/internal/domain/providers"
)

const (
	// DefaultMemoryCacheSize bounds the number of entries NewMemoryCache keeps
	DefaultMemoryCacheSize = 10000

	// memoryMaxTTL caps every entry, including those stored without expiration
	memoryMaxTTL = 24 * time.Hour
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process CacheProvider used when Redis is disabled
// and by the CLI. It is a size-bounded LRU; the least recently used entry is
// evicted once the bound is reached. Patterns follow Redis glob rules closely
// enough for the "prefix:*" keys this service uses.
type MemoryCache struct {
	entries *expirable.LRU[string, memoryEntry]
	now     func() time.Time
}

var _ providers.CacheProvider = (*MemoryCache)(nil)

// NewMemoryCache creates an empty cache holding at most DefaultMemoryCacheSize entries
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithSize(DefaultMemoryCacheSize)
}

// NewMemoryCacheWithSize creates an empty cache holding at most size entries
func NewMemoryCacheWithSize(size int) *MemoryCache {
	if size <= 0 {
		size = DefaultMemoryCacheSize
	}
	return &MemoryCache{
		entries: expirable.NewLRU[string, memoryEntry](size, nil, memoryMaxTTL),
		now:     time.Now,
	}
}

// lookup returns a live entry. Entries found past their deadline are removed.
func (m *MemoryCache) lookup(key string) ([]byte, bool) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.entries.Remove(key)
		return nil, false
	}
	return entry.value, true
}

func (m *MemoryCache) store(key string, value []byte, expirationSeconds int) {
	entry := memoryEntry{value: append([]byte(nil), value...)}
	if expirationSeconds > 0 {
		entry.expiresAt = m.now().Add(seconds(expirationSeconds))
	}
	m.entries.Add(key, entry)
}

// Get retrieves a value from cache
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	if value, ok := m.lookup(key); ok {
		return value, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
}

// GetMulti retrieves several values at once
func (m *MemoryCache) GetMulti(_ context.Context, keys []string) (map[string][]byte, error) {
	found := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if value, ok := m.lookup(key); ok {
			found[key] = value
		}
	}
	return found, nil
}

// Set stores a value in cache with expiration
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	m.store(key, value, expirationSeconds)
	return nil
}

// SetMulti stores several values with the same expiration
func (m *MemoryCache) SetMulti(_ context.Context, items map[string][]byte, expirationSeconds int) error {
	for key, value := range items {
		m.store(key, value, expirationSeconds)
	}
	return nil
}

// Delete removes a value from cache
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

// DeletePattern removes every key matching pattern
func (m *MemoryCache) DeletePattern(_ context.Context, pattern string) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid cache pattern %q: %w", pattern, err)
	}

	for _, key := range m.entries.Keys() {
		if ok, _ := path.Match(pattern, key); ok {
			m.entries.Remove(key)
		}
	}
	return nil
}

// Exists checks if a key exists in cache
func (m *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.lookup(key)
	return ok, nil
}

// Len returns the number of stored entries. Expired entries that have not
// been read or swept yet are included.
func (m *MemoryCache) Len() int {
	return m.entries.Len()
}

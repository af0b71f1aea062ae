package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/veganlens/backend/internal/domain"
)

// DefaultCleanupInterval is how often expired entries are evicted
const DefaultCleanupInterval = 10 * time.Minute

// entry is a single JSON-normalized value with its expiry
type entry struct {
	value   interface{}
	expires time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expires)
}

// MemoryCache is a process-local domain.CacheRepository with TTL support
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryCache creates an in-memory cache. A non-positive cleanup interval
// uses DefaultCleanupInterval.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	c := &MemoryCache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go c.janitor(cleanupInterval)

	return c
}

// Get returns the cached value or domain.ErrCacheMiss
func (c *MemoryCache) Get(_ context.Context, key string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || e.expired(time.Now()) {
		return nil, domain.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a value for ttl. Values go through a JSON round trip so reads
// look the same as they do from Redis.
func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var stored interface{}
	if err := json.Unmarshal(data, &stored); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: stored, expires: time.Now().Add(ttl)}
	return nil
}

// Clear drops every entry
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
	return nil
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

func (c *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *MemoryCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
}

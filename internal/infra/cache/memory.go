// Package cache provides headline.CacheStore implementations:
// an in-process TTL map and a Redis-backed store shared between instances.
package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"marketpulse/internal/domain/entity"
)

// DefaultCleanupInterval is how often expired entries are evicted from Memory.
const DefaultCleanupInterval = time.Minute

type memoryItem struct {
	articles  []entity.Article
	expiresAt time.Time
}

// Memory is an in-process store with per-entry expiry.
// A janitor goroutine evicts expired entries until Close is called.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory creates a Memory store. A non-positive cleanupInterval selects
// DefaultCleanupInterval.
func NewMemory(cleanupInterval time.Duration) *Memory {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	m := &Memory{
		items: make(map[string]memoryItem),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go m.cleanupLoop(cleanupInterval)
	return m
}

// Get returns the articles stored under key if they have not expired.
func (m *Memory) Get(_ context.Context, key string) ([]entity.Article, bool, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()

	if !ok || !m.now().Before(item.expiresAt) {
		return nil, false, nil
	}
	return slices.Clone(item.articles), true, nil
}

// Set stores a copy of articles under key for ttl.
func (m *Memory) Set(_ context.Context, key string, articles []entity.Article, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = memoryItem{
		articles:  slices.Clone(articles),
		expiresAt: m.now().Add(ttl),
	}
	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Close stops the janitor goroutine. It is safe to call more than once.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.stop:
			return
		}
	}
}

func (m *Memory) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, item := range m.items {
		if !now.Before(item.expiresAt) {
			delete(m.items, key)
		}
	}
}

// Package cache provides a generic TTL-keyed cache for exchange client
// instances, deduplicating construction by credential tuple.
//
// Expiry is lazy: Get treats an expired entry as a miss but does not remove
// it, keeping the hot read path free of write-lock contention. Removal happens
// in CleanupExpired, intended to run periodically via StartCleanup. An expired
// entry therefore still occupies map space until the next cleanup pass or
// until Add overwrites it.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/veiloq/trading-sdk/pkg/logging"
)

// DefaultLifetime is the entry lifetime used unless Configure overrides it.
const DefaultLifetime = 600 * time.Second

type entry[C any] struct {
	client    *C
	expiresAt time.Time
}

// Cache maps keys to shared client handles with bounded staleness.
//
// A handle returned by Get or GetOrCreate stays valid after the entry is
// evicted; eviction only drops the cache's own reference.
type Cache[K comparable, C any] struct {
	mu      sync.RWMutex
	entries map[K]entry[C]

	lifetimeMu sync.RWMutex
	lifetime   time.Duration

	name   string
	logger logging.Logger
}

// Option configures a Cache.
type Option func(*config)

type config struct {
	lifetime time.Duration
	logger   logging.Logger
}

// WithLifetime sets the initial entry lifetime.
func WithLifetime(d time.Duration) Option {
	return func(c *config) {
		c.lifetime = d
	}
}

// WithLogger sets the logger used by the cache and its cleanup task.
func WithLogger(logger logging.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// New creates an empty cache. The name labels log entries and metrics.
func New[K comparable, C any](name string, opts ...Option) *Cache[K, C] {
	cfg := &config{
		lifetime: DefaultLifetime,
		logger:   logging.NewLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Cache[K, C]{
		entries:  make(map[K]entry[C]),
		lifetime: cfg.lifetime,
		name:     name,
		logger:   cfg.logger,
	}
}

// Configure overwrites the lifetime used for subsequent inserts. Entries
// already present keep their originally computed expiry.
func (c *Cache[K, C]) Configure(lifetime time.Duration) {
	c.lifetimeMu.Lock()
	c.lifetime = lifetime
	c.lifetimeMu.Unlock()
}

// Lifetime returns the lifetime applied to new entries.
func (c *Cache[K, C]) Lifetime() time.Duration {
	c.lifetimeMu.RLock()
	defer c.lifetimeMu.RUnlock()
	return c.lifetime
}

// Get returns the cached handle for key if present and not expired.
// Expired entries are reported as misses but not removed here.
func (c *Cache[K, C]) Get(key K) (*C, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !e.expiresAt.After(time.Now()) {
		cacheMisses.WithLabelValues(c.name).Inc()
		return nil, false
	}
	cacheHits.WithLabelValues(c.name).Inc()
	return e.client, true
}

// Add inserts client under key with a fresh expiry, overwriting any existing
// entry. Concurrent adds for the same key are linearized by the write lock:
// last writer wins.
func (c *Cache[K, C]) Add(key K, client *C) {
	expiresAt := time.Now().Add(c.Lifetime())

	c.mu.Lock()
	c.entries[key] = entry[C]{client: client, expiresAt: expiresAt}
	c.mu.Unlock()
}

// GetOrCreate returns the cached handle for key, or invokes create and caches
// the result on a miss. Errors from create propagate unchanged and leave no
// cache entry behind.
//
// The miss-then-create window is not atomic: two callers racing on the same
// absent key may both construct a client, and the later Add overwrites the
// earlier one. At most one instance survives in the cache; both callers keep
// usable handles.
func (c *Cache[K, C]) GetOrCreate(key K, create func() (*C, error)) (*C, error) {
	if client, ok := c.Get(key); ok {
		return client, nil
	}

	client, err := create()
	if err != nil {
		return nil, err
	}

	c.Add(key, client)
	return client, nil
}

// CleanupExpired removes every entry whose expiry is not strictly in the
// future and returns the number removed.
func (c *Cache[K, C]) CleanupExpired() int {
	now := time.Now()

	c.mu.Lock()
	removed := 0
	for key, e := range c.entries {
		if !e.expiresAt.After(now) {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()

	if removed > 0 {
		cacheEvictions.WithLabelValues(c.name).Add(float64(removed))
	}
	return removed
}

// Size returns the current number of entries, expired ones included.
func (c *Cache[K, C]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries regardless of expiry.
func (c *Cache[K, C]) Clear() {
	c.mu.Lock()
	c.entries = make(map[K]entry[C])
	c.mu.Unlock()
}

// CleanupTask is a handle to a background cleanup loop. Stop cancels the loop
// and waits for it to exit.
type CleanupTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the cleanup loop and blocks until it has exited. Safe to call
// more than once.
func (t *CleanupTask) Stop() {
	t.cancel()
	<-t.done
}

// StartCleanup spawns a goroutine that calls CleanupExpired every interval
// until the returned task is stopped. The task should be owned by the
// composition root and stopped at shutdown.
func (c *Cache[K, C]) StartCleanup(interval time.Duration) *CleanupTask {
	ctx, cancel := context.WithCancel(context.Background())
	task := &CleanupTask{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(task.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.CleanupExpired(); removed > 0 {
					c.logger.Info("cleaned expired cache entries",
						logging.String("cache", c.name),
						logging.Int("removed", removed),
					)
				}
			}
		}
	}()

	return task
}

// Package cache implements the namespaced TTL cache used by the query
// engine. Entry payloads live in a pluggable backing store (in-process,
// redis, sqlite); the cache itself tracks per-entry metadata and applies
// the capacity eviction policy.
package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/precivox/backend/internal/domain"
	"github.com/precivox/backend/internal/pkg/metrics"
	"github.com/precivox/backend/internal/pkg/textnorm"
)

const defaultCapacity = 256

// entryMeta is the in-memory bookkeeping for one cache entry. The payload
// itself lives in the backing store.
type entryMeta struct {
	created time.Time
	expiry  time.Time
	hits    uint64
	size    int
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Entries   int
}

// Config tunes the cache layer.
type Config struct {
	// DefaultCapacity bounds every namespace not listed in Capacities.
	DefaultCapacity int
	// Capacities sets per-namespace max entry counts.
	Capacities map[string]int
}

// Cache is a namespaced TTL cache. Expiry is checked lazily on read.
// Insertion beyond a namespace's capacity evicts the entry with the fewest
// hits, ties broken by oldest creation time.
type Cache struct {
	store  domain.Store
	logger zerolog.Logger

	mu         sync.Mutex
	namespaces map[string]map[string]*entryMeta
	caps       map[string]int
	defaultCap int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates a Cache over the given backing store.
func New(store domain.Store, cfg Config, logger zerolog.Logger) *Cache {
	cap := cfg.DefaultCapacity
	if cap <= 0 {
		cap = defaultCapacity
	}
	caps := make(map[string]int, len(cfg.Capacities))
	for ns, c := range cfg.Capacities {
		if c > 0 {
			caps[ns] = c
		}
	}
	return &Cache{
		store:      store,
		logger:     logger.With().Str("component", "cache").Logger(),
		namespaces: make(map[string]map[string]*entryMeta),
		caps:       caps,
		defaultCap: cap,
	}
}

// Set stores value under (namespace, key) with the given TTL, evicting if
// the namespace is at capacity. A failing backing store is logged and
// swallowed; the next read degrades to a miss.
func (c *Cache) Set(ctx context.Context, namespace, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	ns, ok := c.namespaces[namespace]
	if !ok {
		ns = make(map[string]*entryMeta)
		c.namespaces[namespace] = ns
	}
	if _, exists := ns[key]; !exists && len(ns) >= c.capacity(namespace) {
		c.evictLocked(ctx, namespace, ns)
	}
	now := time.Now()
	ns[key] = &entryMeta{created: now, expiry: now.Add(ttl), size: len(value)}
	c.mu.Unlock()

	if err := c.store.Set(ctx, fullKey(namespace, key), value, ttl); err != nil {
		c.logger.Warn().Err(err).Str("namespace", namespace).Msg("cache store write failed")
		c.forget(namespace, key)
	}
}

// Get retrieves the value under (namespace, key). Returns ErrCacheMiss when
// the entry is absent or expired; a backing-store failure also degrades to
// a miss.
func (c *Cache) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	c.mu.Lock()
	ns := c.namespaces[namespace]
	meta := ns[key]
	if meta == nil {
		c.mu.Unlock()
		c.miss()
		return nil, domain.ErrCacheMiss
	}
	if time.Now().After(meta.expiry) {
		delete(ns, key)
		c.mu.Unlock()
		_ = c.store.Delete(ctx, fullKey(namespace, key))
		c.miss()
		return nil, domain.ErrCacheMiss
	}
	meta.hits++
	c.mu.Unlock()

	value, err := c.store.Get(ctx, fullKey(namespace, key))
	if err != nil {
		c.forget(namespace, key)
		c.miss()
		return nil, domain.ErrCacheMiss
	}

	c.hits.Add(1)
	metrics.CacheHits.Inc()
	return value, nil
}

// Invalidate removes every entry in namespace whose key starts with
// keyPrefix and returns how many were dropped. An empty prefix clears the
// whole namespace.
func (c *Cache) Invalidate(ctx context.Context, namespace, keyPrefix string) int {
	c.mu.Lock()
	ns := c.namespaces[namespace]
	var keys []string
	for key := range ns {
		if keyPrefix == "" || strings.HasPrefix(key, keyPrefix) {
			keys = append(keys, key)
			delete(ns, key)
		}
	}
	c.mu.Unlock()

	if len(keys) == 0 {
		return 0
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = fullKey(namespace, k)
	}
	if err := c.store.Delete(ctx, full...); err != nil {
		c.logger.Warn().Err(err).Str("namespace", namespace).Msg("cache store delete failed")
	}
	c.logger.Debug().Str("namespace", namespace).Int("entries", len(keys)).Msg("cache invalidated")
	return len(keys)
}

// InvalidateAll clears every namespace and returns the number of entries
// dropped.
func (c *Cache) InvalidateAll(ctx context.Context) int {
	c.mu.Lock()
	names := make([]string, 0, len(c.namespaces))
	for name := range c.namespaces {
		names = append(names, name)
	}
	c.mu.Unlock()
	total := 0
	for _, name := range names {
		total += c.Invalidate(ctx, name, "")
	}
	return total
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries := 0
	for _, ns := range c.namespaces {
		entries += len(ns)
	}
	c.mu.Unlock()
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Entries:   entries,
	}
}

func (c *Cache) capacity(namespace string) int {
	if cap, ok := c.caps[namespace]; ok {
		return cap
	}
	return c.defaultCap
}

// evictLocked removes the entry with the fewest hits, ties broken by oldest
// creation time. Caller holds c.mu.
func (c *Cache) evictLocked(ctx context.Context, namespace string, ns map[string]*entryMeta) {
	var victim string
	var victimMeta *entryMeta
	for key, meta := range ns {
		if victimMeta == nil ||
			meta.hits < victimMeta.hits ||
			(meta.hits == victimMeta.hits && meta.created.Before(victimMeta.created)) {
			victim = key
			victimMeta = meta
		}
	}
	if victimMeta == nil {
		return
	}
	delete(ns, victim)
	_ = c.store.Delete(ctx, fullKey(namespace, victim))
	c.evictions.Add(1)
	metrics.CacheEvictions.Inc()
}

func (c *Cache) forget(namespace, key string) {
	c.mu.Lock()
	delete(c.namespaces[namespace], key)
	c.mu.Unlock()
}

func (c *Cache) miss() {
	c.misses.Add(1)
	metrics.CacheMisses.Inc()
}

func fullKey(namespace, key string) string {
	return namespace + ":" + key
}

// QueryKey derives a cache key from a query and its filters. It is a pure
// function of the normalized query text and the sorted filter set, so
// identical semantic queries collide regardless of surface formatting.
func QueryKey(query string, filters []string) string {
	normalized := textnorm.Normalize(query)
	if len(filters) == 0 {
		return normalized
	}
	sorted := make([]string, len(filters))
	for i, f := range filters {
		sorted[i] = textnorm.Normalize(f)
	}
	sort.Strings(sorted)
	return normalized + "|" + strings.Join(sorted, ",")
}

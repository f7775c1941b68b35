package domain

import (
	"context"
	"time"
)

// Store is a key/value backing store for the cache layer. Implementations
// must be safe for concurrent use; last-write-wins is acceptable since
// entries are immutable once created.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Fetcher retrieves the raw payload for a source attempt. The engine treats
// it as opaque: either a payload or a timeout/error comes back, bounded by
// the context deadline.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) ([]byte, error)
}

// Trending is the shared frequency table of prior queries. Updated after a
// query completes; lost-update races are tolerated (approximate counting).
type Trending interface {
	Record(query string)
	Top(n int) []QueryCount
	TotalQueries() uint64
	UniqueQueries() int
}

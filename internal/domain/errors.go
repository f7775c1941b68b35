package domain

import "errors"

var (
	// ErrCacheMiss is returned when a key is absent or expired.
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the backing store cannot be
	// reached. Callers degrade to cache-miss behavior, never fail.
	ErrCacheUnavailable = errors.New("cache store unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidSource is returned when a source descriptor fails validation.
	ErrInvalidSource = errors.New("invalid source descriptor")

	// ErrLastEnabledSource is returned when an upsert would implicitly
	// disable a market's last enabled source.
	ErrLastEnabledSource = errors.New("cannot disable a market's last enabled source")

	// ErrNoSources is returned when a market has no configured sources.
	ErrNoSources = errors.New("no sources configured for market")

	// ErrSourceUnreachable is returned on network/file errors or a
	// non-success status from a source.
	ErrSourceUnreachable = errors.New("source unreachable")

	// ErrSourceTimeout is returned when a source call exceeds its
	// configured timeout.
	ErrSourceTimeout = errors.New("source timed out")

	// ErrPayloadMalformed is returned when a source payload has the wrong
	// top-level shape entirely.
	ErrPayloadMalformed = errors.New("payload malformed")
)

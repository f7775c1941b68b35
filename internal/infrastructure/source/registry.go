// Package source holds the per-market source registry, the raw-payload
// fetcher and the transforms that map heterogeneous feeds onto the
// canonical product record.
package source

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/precivox/backend/internal/domain"
)

const defaultCacheTTL = 30 * time.Minute

// Registry is the table of data sources per market. Read-heavy: the query
// engine lists sources on every request, mutation happens only through
// configuration or administration.
type Registry struct {
	mu      sync.RWMutex
	markets map[string][]domain.Source
	logger  zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		markets: make(map[string][]domain.Source),
		logger:  logger.With().Str("component", "registry").Logger(),
	}
}

// Load validates and inserts a batch of sources, typically the
// configuration bootstrap. Fails on the first invalid descriptor.
func (r *Registry) Load(sources []domain.Source) error {
	for _, src := range sources {
		if err := r.UpsertSource(src); err != nil {
			return fmt.Errorf("source %q: %w", src.ID, err)
		}
	}
	return nil
}

// UpsertSource validates the descriptor and inserts it, or replaces the
// existing source with the same ID. It never implicitly removes a market's
// last enabled source: replacing it with a disabled descriptor fails.
func (r *Registry) UpsertSource(src domain.Source) error {
	if err := validate(src); err != nil {
		return err
	}
	if src.CacheTTL <= 0 {
		src.CacheTTL = defaultCacheTTL
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sources := r.markets[src.MarketID]
	existing := -1
	enabledOthers := 0
	for i, s := range sources {
		if s.ID == src.ID {
			existing = i
		} else if s.Enabled {
			enabledOthers++
		}
	}

	if !src.Enabled && existing >= 0 && sources[existing].Enabled && enabledOthers == 0 {
		return fmt.Errorf("%w: market %q", domain.ErrLastEnabledSource, src.MarketID)
	}

	if existing >= 0 {
		sources[existing] = src
	} else {
		sources = append(sources, src)
	}
	r.markets[src.MarketID] = sources
	r.logger.Debug().Str("market", src.MarketID).Str("source", src.ID).Msg("source upserted")
	return nil
}

// ListSources returns the market's enabled sources sorted ascending by
// priority. The slice is a copy; callers may not mutate registry state.
func (r *Registry) ListSources(marketID string) []domain.Source {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var enabled []domain.Source
	for _, src := range r.markets[marketID] {
		if src.Enabled {
			enabled = append(enabled, src)
		}
	}
	sort.SliceStable(enabled, func(i, j int) bool {
		return enabled[i].Priority < enabled[j].Priority
	})
	return enabled
}

// Markets returns the market identifiers that have at least one enabled
// source, sorted for deterministic iteration.
func (r *Registry) Markets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, sources := range r.markets {
		for _, src := range sources {
			if src.Enabled {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids
}

// SourceCount returns the number of enabled sources across all markets.
func (r *Registry) SourceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, sources := range r.markets {
		for _, src := range sources {
			if src.Enabled {
				count++
			}
		}
	}
	return count
}

// MarketCount returns the number of markets with at least one enabled source.
func (r *Registry) MarketCount() int {
	return len(r.Markets())
}

func validate(src domain.Source) error {
	switch {
	case src.ID == "":
		return fmt.Errorf("%w: missing id", domain.ErrInvalidSource)
	case src.MarketID == "":
		return fmt.Errorf("%w: missing market id", domain.ErrInvalidSource)
	case src.Endpoint == "":
		return fmt.Errorf("%w: missing endpoint", domain.ErrInvalidSource)
	case src.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", domain.ErrInvalidSource)
	}
	if !KnownKind(src.Kind) {
		return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidSource, src.Kind)
	}
	return nil
}

package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/precivox/backend/internal/domain"
	"github.com/precivox/backend/internal/infrastructure/cache"
	"github.com/precivox/backend/internal/infrastructure/source"
	"github.com/precivox/backend/internal/pkg/metrics"
	"github.com/precivox/backend/internal/pkg/textnorm"
)

// sourceNamespace is the cache namespace for per-source query results.
const sourceNamespace = "sources"

// FanoutEngine fans a query out to every requested market. Markets run
// concurrently; within a market, sources are tried one at a time in
// priority order until one answers with products. A failed market never
// fails the whole query: its errors travel in the result instead.
type FanoutEngine struct {
	registry *source.Registry
	fetcher  domain.Fetcher
	cache    *cache.Cache
	logger   zerolog.Logger

	mu        sync.Mutex
	errCounts map[string]uint64
}

func NewFanoutEngine(registry *source.Registry, fetcher domain.Fetcher, c *cache.Cache, logger zerolog.Logger) *FanoutEngine {
	return &FanoutEngine{
		registry:  registry,
		fetcher:   fetcher,
		cache:     c,
		logger:    logger.With().Str("component", "fanout").Logger(),
		errCounts: make(map[string]uint64),
	}
}

// QueryMarkets runs the query against the given markets (all registered
// markets when the list is empty) and waits for every one of them. Results
// come back in the same order the markets were requested, regardless of
// which finished first.
func (e *FanoutEngine) QueryMarkets(ctx context.Context, query string, terms []string, markets []string) []domain.MarketResult {
	if len(markets) == 0 {
		markets = e.registry.Markets()
	}

	results := make([]domain.MarketResult, len(markets))
	var wg sync.WaitGroup
	for i, marketID := range markets {
		wg.Add(1)
		go func(i int, marketID string) {
			defer wg.Done()
			results[i] = e.QueryMarket(ctx, marketID, query, terms)
		}(i, marketID)
	}
	wg.Wait()
	return results
}

// QueryMarket answers a query from a single market. The cache is consulted
// per source before fetching; a fresh fetch is transformed, filtered and
// cached under the source's TTL. A source that answers without matches is
// remembered but falls through to the next priority, so a lower-priority
// source gets a chance to match. Results arriving after the request
// context expired are returned but never cached.
func (e *FanoutEngine) QueryMarket(ctx context.Context, marketID, query string, terms []string) domain.MarketResult {
	result := domain.MarketResult{MarketID: marketID, Products: []domain.Product{}}

	sources := e.registry.ListSources(marketID)
	if len(sources) == 0 {
		result.Errors = append(result.Errors, domain.SourceError{
			MarketID: marketID,
			Message:  domain.ErrNoSources.Error(),
		})
		return result
	}

	emptySourceID := ""
	for _, src := range sources {
		key := src.ID + ":" + cache.QueryKey(query, nil)

		if data, err := e.cache.Get(ctx, sourceNamespace, key); err == nil {
			var products []domain.Product
			if err := json.Unmarshal(data, &products); err == nil && len(products) > 0 {
				result.SourceID = src.ID
				result.Products = products
				result.FromCache = true
				return result
			}
			// Corrupt entry: drop it and fetch anew.
			e.cache.Invalidate(ctx, sourceNamespace, key)
		}

		products, err := e.fetchAndTransform(ctx, src)
		if err != nil {
			e.recordSourceError(src, err)
			result.Errors = append(result.Errors, domain.SourceError{
				MarketID: marketID,
				SourceID: src.ID,
				Message:  err.Error(),
			})
			continue
		}

		filtered := filterProducts(products, terms)
		if len(filtered) == 0 {
			if emptySourceID == "" {
				emptySourceID = src.ID
			}
			continue
		}

		if ctx.Err() == nil {
			if data, err := json.Marshal(filtered); err == nil {
				e.cache.Set(ctx, sourceNamespace, key, data, src.CacheTTL)
			}
		}

		result.SourceID = src.ID
		result.Products = filtered
		return result
	}

	// No source matched. An error-free empty answer still counts as a
	// response from that source.
	result.SourceID = emptySourceID
	return result
}

// SourceErrorCounts returns the cumulative error count per source ID since
// startup. The returned map is a copy.
func (e *FanoutEngine) SourceErrorCounts() map[string]uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]uint64, len(e.errCounts))
	for k, v := range e.errCounts {
		out[k] = v
	}
	return out
}

func (e *FanoutEngine) fetchAndTransform(ctx context.Context, src domain.Source) ([]domain.Product, error) {
	srcCtx, cancel := context.WithTimeout(ctx, src.Timeout)
	defer cancel()

	payload, err := e.fetcher.Fetch(srcCtx, src)
	if err != nil {
		return nil, err
	}

	products, skipped, err := source.Transform(src.Kind, payload, src.MarketID)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		e.logger.Debug().
			Str("source", src.ID).
			Int("skipped", skipped).
			Msg("dropped malformed records")
	}
	return products, nil
}

func (e *FanoutEngine) recordSourceError(src domain.Source, err error) {
	e.mu.Lock()
	e.errCounts[src.ID]++
	e.mu.Unlock()

	metrics.SourceErrors.WithLabelValues(src.ID).Inc()
	e.logger.Warn().
		Err(err).
		Str("source", src.ID).
		Str("market", src.MarketID).
		Msg("source failed, trying next")
}

// filterProducts keeps products mentioning at least one retrieval term in
// their name, brand, category or tags. An empty term set matches
// everything, so a stop-word-only query still returns results.
func filterProducts(products []domain.Product, terms []string) []domain.Product {
	if len(terms) == 0 {
		return products
	}
	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if productMatches(p, terms) {
			matched = append(matched, p)
		}
	}
	return matched
}

func productMatches(p domain.Product, terms []string) bool {
	haystack := textnorm.Normalize(p.Name + " " + p.Brand + " " + p.Category + " " + p.Subcategory + " " + strings.Join(p.Tags, " "))
	for _, term := range terms {
		if term != "" && strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}

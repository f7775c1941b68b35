package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/precivox/backend/internal/domain"
	"github.com/precivox/backend/internal/infrastructure/cache"
	"github.com/precivox/backend/internal/infrastructure/source"
	"github.com/precivox/backend/internal/pkg/metrics"
)

const (
	// searchNamespace caches derived search artifacts (autocomplete for
	// now) separately from raw source payloads.
	searchNamespace      = "search"
	autocompleteCacheTTL = 10 * time.Minute

	topQueriesInDiagnostics = 10
)

// SearchService is the public face of the engine. Every pipeline stage
// hangs off it: classify, expand, fan out, rank, suggest.
type SearchService struct {
	classifier *IntentClassifier
	expander   *SemanticExpander
	engine     *FanoutEngine
	ranker     *RankingService
	suggester  *SuggestionService
	tracker    domain.Trending
	registry   *source.Registry
	cache      *cache.Cache
	logger     zerolog.Logger
}

func NewSearchService(
	engine *FanoutEngine,
	suggester *SuggestionService,
	tracker domain.Trending,
	registry *source.Registry,
	c *cache.Cache,
	logger zerolog.Logger,
) *SearchService {
	return &SearchService{
		classifier: NewIntentClassifier(),
		expander:   NewSemanticExpander(),
		engine:     engine,
		ranker:     NewRankingService(),
		suggester:  suggester,
		tracker:    tracker,
		registry:   registry,
		cache:      c,
		logger:     logger.With().Str("component", "search").Logger(),
	}
}

// Query runs the full pipeline. It never returns an error: anything that
// goes wrong along the way — unreachable sources, timeouts, bad payloads —
// is folded into the result's Errors list next to whatever did succeed.
func (s *SearchService) Query(ctx context.Context, query string, opts domain.QueryOptions) *domain.SearchResult {
	start := time.Now()

	result := &domain.SearchResult{
		Products:       []domain.Product{},
		Suggestions:    []domain.Suggestion{},
		Corrections:    []string{},
		RelatedQueries: []string{},
		ExpandedTerms:  []string{},
		Errors:         []domain.SourceError{},
	}

	// An empty query is a browse: no terms, so every source's full
	// catalog comes back unfiltered.
	query = strings.TrimSpace(query)

	intent := s.classifier.Classify(query)
	exp := s.expander.Expand(query, intent, opts)

	marketResults := s.engine.QueryMarkets(ctx, query, exp.Terms, opts.Markets)

	var merged []domain.Product
	for _, mr := range marketResults {
		merged = append(merged, mr.Products...)
		result.Errors = append(result.Errors, mr.Errors...)
	}
	result.TotalMatches = len(merged)

	result.Products = s.ranker.Rank(merged, query, exp.Terms, intent.Filters)
	result.Intent = intent
	result.Suggestions = s.suggester.Suggestions(query, intent, exp, result.Products, opts.MaxSuggestions)
	result.Corrections = append(result.Corrections, exp.Corrections...)
	result.RelatedQueries = s.suggester.RelatedQueries(query, intent)
	result.ExpandedTerms = append(result.ExpandedTerms, exp.Terms...)

	s.tracker.Record(query)

	elapsed := time.Since(start)
	result.ProcessingMS = elapsed.Milliseconds()
	metrics.QueryDuration.Observe(elapsed.Seconds())

	s.logger.Info().
		Str("query", query).
		Str("intent", string(intent.Type)).
		Int("products", len(result.Products)).
		Int("errors", len(result.Errors)).
		Dur("took", elapsed).
		Msg("query completed")
	return result
}

// QueryMarket is Query constrained to a single market.
func (s *SearchService) QueryMarket(ctx context.Context, marketID, query string, opts domain.QueryOptions) *domain.SearchResult {
	opts.Markets = []string{marketID}
	return s.Query(ctx, query, opts)
}

// Autocomplete completes a partial input. Results are cached briefly since
// users type faster than trending shifts.
func (s *SearchService) Autocomplete(ctx context.Context, prefix string, limit int) []domain.Suggestion {
	key := "ac:" + cache.QueryKey(prefix, nil) + ":" + strconv.Itoa(limit)
	if data, err := s.cache.Get(ctx, searchNamespace, key); err == nil {
		var cached []domain.Suggestion
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached
		}
	}

	suggestions := s.suggester.Autocomplete(prefix, limit)
	if data, err := json.Marshal(suggestions); err == nil {
		s.cache.Set(ctx, searchNamespace, key, data, autocompleteCacheTTL)
	}
	return suggestions
}

// InvalidateCache forces a refresh. With a market ID it drops the cached
// results of that market's sources; without one it clears the whole cache.
// Returns how many entries were removed.
func (s *SearchService) InvalidateCache(ctx context.Context, marketID string) int {
	if marketID == "" {
		return s.cache.InvalidateAll(ctx)
	}
	removed := 0
	for _, src := range s.registry.ListSources(marketID) {
		removed += s.cache.Invalidate(ctx, sourceNamespace, src.ID+":")
	}
	return removed
}

// Diagnostics reports cache behavior, per-source error counts and query
// volume since startup.
func (s *SearchService) Diagnostics(ctx context.Context) domain.Diagnostics {
	stats := s.cache.Stats()
	return domain.Diagnostics{
		CacheHits:      stats.Hits,
		CacheMisses:    stats.Misses,
		CacheEvictions: stats.Evictions,
		CacheEntries:   stats.Entries,
		SourceErrors:   s.engine.SourceErrorCounts(),
		SourceCount:    s.registry.SourceCount(),
		MarketCount:    s.registry.MarketCount(),
		TotalQueries:   s.tracker.TotalQueries(),
		UniqueQueries:  s.tracker.UniqueQueries(),
		TopQueries:     s.tracker.Top(topQueriesInDiagnostics),
	}
}

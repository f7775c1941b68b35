package domain

// IntentType tags the classified purpose behind a free-text query.
type IntentType string

const (
	IntentProduct    IntentType = "product"
	IntentCategory   IntentType = "category"
	IntentBrand      IntentType = "brand"
	IntentPrice      IntentType = "price"
	IntentPromotion  IntentType = "promotion"
	IntentRecipe     IntentType = "recipe"
	IntentComparison IntentType = "comparison"
	IntentList       IntentType = "list"
)

// PriceRange is an inclusive [Min, Max] price filter.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// IntentFilters are the structured filters extracted from a query. They are
// applied as hard excludes after scoring.
type IntentFilters struct {
	PriceRange  *PriceRange `json:"priceRange,omitempty"`
	OnPromotion bool        `json:"onPromotion,omitempty"`
	Category    string      `json:"category,omitempty"`
	Brand       string      `json:"brand,omitempty"`
}

// Intent is the result of classifying a free-text query. Produced once per
// query, never persisted.
type Intent struct {
	Type       IntentType    `json:"type"`
	Confidence float64       `json:"confidence"` // in [0, 1]
	Keywords   []string      `json:"keywords"`
	Filters    IntentFilters `json:"filters"`
	Context    string        `json:"context,omitempty"` // situational context, e.g. "churrasco"
}

// SuggestionType categorizes a generated suggestion.
type SuggestionType string

const (
	SuggestionSemantic  SuggestionType = "semantic"
	SuggestionCorrected SuggestionType = "corrected"
	SuggestionRelated   SuggestionType = "related"
	SuggestionTrending  SuggestionType = "trending"
	SuggestionRecipe    SuggestionType = "recipe"
)

// SuggestionMetadata carries optional context for a suggestion.
type SuggestionMetadata struct {
	Category     string   `json:"category,omitempty"`
	RelatedTerms []string `json:"relatedTerms,omitempty"`
	ProductCount int      `json:"productCount,omitempty"`
}

// Suggestion is a proposed alternative or related query. IDs are stable for
// a given (text, type) pair so clients can deduplicate across requests.
type Suggestion struct {
	ID       string              `json:"id"`
	Text     string              `json:"text"`
	Type     SuggestionType      `json:"type"`
	Score    float64             `json:"score"` // in [0, 1]
	Metadata *SuggestionMetadata `json:"metadata,omitempty"`
}

// SourceError records a failed source or market attempt. Folded into the
// aggregate result, never raised to the caller.
type SourceError struct {
	MarketID string `json:"marketId"`
	SourceID string `json:"sourceId,omitempty"`
	Message  string `json:"message"`
}

// MarketResult is the outcome of resolving a single market: the first
// non-empty source in priority order wins, earlier failures are recorded.
type MarketResult struct {
	MarketID  string        `json:"marketId"`
	SourceID  string        `json:"sourceId,omitempty"` // winning source
	Products  []Product     `json:"products"`
	FromCache bool          `json:"fromCache"`
	Errors    []SourceError `json:"errors,omitempty"`
}

// QueryOptions tune a search. The zero value enables every feature and
// targets all configured markets.
type QueryOptions struct {
	Markets            []string `json:"markets,omitempty"`
	MaxSuggestions     int      `json:"maxSuggestions,omitempty"`
	DisableExpansion   bool     `json:"disableExpansion,omitempty"`
	DisableRecipes     bool     `json:"disableRecipes,omitempty"`
	DisableCorrections bool     `json:"disableCorrections,omitempty"`
}

// SearchResult is the aggregate returned across the engine's boundary. It is
// always well-formed: total failure of every source yields empty slices plus
// the error list, never an error return.
type SearchResult struct {
	Products       []Product     `json:"products"`
	Intent         Intent        `json:"intent"`
	Suggestions    []Suggestion  `json:"suggestions"`
	Corrections    []string      `json:"corrections,omitempty"`
	RelatedQueries []string      `json:"relatedQueries,omitempty"`
	ExpandedTerms  []string      `json:"expandedTerms,omitempty"`
	TotalMatches   int           `json:"totalMatches"` // raw match count before intent filters
	ProcessingMS   int64         `json:"processingMs"`
	Errors         []SourceError `json:"errors,omitempty"`
}

// QueryCount pairs a query with its observed frequency.
type QueryCount struct {
	Query string `json:"query"`
	Count uint64 `json:"count"`
}

// Diagnostics summarizes engine health for the administrative boundary.
type Diagnostics struct {
	CacheHits      uint64            `json:"cacheHits"`
	CacheMisses    uint64            `json:"cacheMisses"`
	CacheEvictions uint64            `json:"cacheEvictions"`
	CacheEntries   int               `json:"cacheEntries"`
	SourceErrors   map[string]uint64 `json:"sourceErrors"`
	SourceCount    int               `json:"sourceCount"`
	MarketCount    int               `json:"marketCount"`
	TotalQueries   uint64            `json:"totalQueries"`
	UniqueQueries  int               `json:"uniqueQueries"`
	TopQueries     []QueryCount      `json:"topQueries"`
}

package domain

import "time"

// Promotion describes an active discount on a product.
type Promotion struct {
	Discount      float64 `json:"discount"`      // percentage
	OriginalPrice float64 `json:"originalPrice"` // price before the discount
	ValidUntil    string  `json:"validUntil,omitempty"`
}

// Product is the canonical product record produced by the transform layer.
// Records are immutable once produced for a query cycle and are discarded
// when the enclosing cache entry expires.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory,omitempty"`
	Brand       string     `json:"brand,omitempty"`
	MarketID    string     `json:"marketId"`
	Available   bool       `json:"available"`
	Promotion   *Promotion `json:"promotion,omitempty"`
	Rating      float64    `json:"rating,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// OnPromotion reports whether the product carries an active promotion.
func (p *Product) OnPromotion() bool {
	return p.Promotion != nil
}

// SourceKind identifies the payload shape a source delivers and selects the
// transform applied to it.
type SourceKind string

const (
	SourceKindAPI  SourceKind = "api"  // remote API envelope
	SourceKindJSON SourceKind = "json" // static JSON document
	SourceKindCSV  SourceKind = "csv"  // tabular file
)

// Source describes one externally queryable feed of product data for a
// market. Read-only to the query engine; mutated only through the registry.
type Source struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	MarketID string            `json:"marketId"`
	Kind     SourceKind        `json:"kind"`
	Endpoint string            `json:"endpoint"`
	Enabled  bool              `json:"enabled"`
	Priority int               `json:"priority"` // lower = tried first within a market
	Timeout  time.Duration     `json:"timeout"`
	CacheTTL time.Duration     `json:"cacheTtl"`
	Headers  map[string]string `json:"headers,omitempty"`
}

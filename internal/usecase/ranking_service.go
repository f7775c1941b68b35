package usecase

import (
	"sort"
	"strings"

	"github.com/precivox/backend/internal/domain"
	"github.com/precivox/backend/internal/pkg/textnorm"
)

// Scoring weights. A whole-query hit is worth more than a single matching
// term, and which field it lands on matters: name beats brand beats
// category.
const (
	scoreExactMatch      = 10.0
	scoreSubstring       = 5.0
	scoreKeywordContains = 3.0

	bonusNameMatch     = 15.0
	bonusBrandMatch    = 12.0
	bonusCategoryMatch = 8.0
)

type scoredProduct struct {
	product domain.Product
	score   float64
}

// RankingService orders merged fan-out results by relevance and applies
// the intent's hard filters.
type RankingService struct{}

func NewRankingService() *RankingService {
	return &RankingService{}
}

// Rank deduplicates, scores, filters and orders the merged product set.
// Duplicate IDs keep their best-scoring occurrence. Filters run after
// scoring so a filtered-out product can never displace a kept one. The
// final ordering is deterministic: score descending, with ties keeping
// their first-seen input order.
func (r *RankingService) Rank(products []domain.Product, query string, terms []string, filters domain.IntentFilters) []domain.Product {
	nq := textnorm.Normalize(query)

	best := make(map[string]scoredProduct, len(products))
	order := make([]string, 0, len(products))
	for _, p := range products {
		sp := scoredProduct{product: p, score: scoreProduct(p, nq, terms)}
		prev, ok := best[p.ID]
		if !ok {
			order = append(order, p.ID)
			best[p.ID] = sp
		} else if sp.score > prev.score {
			best[p.ID] = sp
		}
	}

	scored := make([]scoredProduct, 0, len(order))
	for _, id := range order {
		sp := best[id]
		if passesFilters(sp.product, filters) {
			scored = append(scored, sp)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	ranked := make([]domain.Product, len(scored))
	for i, sp := range scored {
		ranked[i] = sp.product
	}
	return ranked
}

func scoreProduct(p domain.Product, nq string, terms []string) float64 {
	name := textnorm.Normalize(p.Name)
	brand := textnorm.Normalize(p.Brand)
	category := textnorm.Normalize(p.Category)

	var score float64
	score += fieldScore(name, nq, bonusNameMatch)
	score += fieldScore(brand, nq, bonusBrandMatch)
	score += fieldScore(category, nq, bonusCategoryMatch)

	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(name, term) {
			score += scoreKeywordContains
		}
		if brand != "" && strings.Contains(brand, term) {
			score += scoreKeywordContains
		}
		if category != "" && strings.Contains(category, term) {
			score += scoreKeywordContains
		}
		for _, tag := range p.Tags {
			if strings.Contains(textnorm.Normalize(tag), term) {
				score += scoreKeywordContains
				break
			}
		}
	}
	return score
}

func fieldScore(field, nq string, bonus float64) float64 {
	if field == "" || nq == "" {
		return 0
	}
	switch {
	case field == nq:
		return scoreExactMatch + bonus
	case strings.Contains(field, nq):
		return scoreSubstring + bonus
	}
	return 0
}

// passesFilters applies the intent's structured constraints. These are
// hard filters: a product either satisfies them or is dropped.
func passesFilters(p domain.Product, f domain.IntentFilters) bool {
	if f.PriceRange != nil && (p.Price < f.PriceRange.Min || p.Price > f.PriceRange.Max) {
		return false
	}
	if f.OnPromotion && !p.OnPromotion() {
		return false
	}
	if f.Category != "" && !strings.Contains(textnorm.Normalize(p.Category), textnorm.Normalize(f.Category)) {
		return false
	}
	if f.Brand != "" && !strings.Contains(textnorm.Normalize(p.Brand), textnorm.Normalize(f.Brand)) {
		return false
	}
	return true
}

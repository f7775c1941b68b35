package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/precivox/backend/internal/domain"
	"github.com/precivox/backend/internal/pkg/textnorm"
)

// Intent confidence levels per rule family.
const (
	confidencePriceRange = 0.9
	confidencePromotion  = 0.9
	confidenceRecipe     = 0.9
	confidencePrice      = 0.8
	confidenceCategory   = 0.8
	confidenceBrand      = 0.8
	confidenceComparison = 0.8
	confidenceContext    = 0.8
	confidenceList       = 0.7
	confidenceFallback   = 0.5
)

// Vocabulary patterns operate on accent-folded text, so they are plain
// ASCII. "barato"/"caro" belong to the price family even though promotions
// often use them too; price wins when both could apply.
var (
	priceRangePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:ate|a|-)\s*(\d+(?:\.\d+)?)`)
	priceVocabPattern = regexp.MustCompile(`\b(barat[oa]s?|car[oa]s?|precos?|valor(es)?|custos?|ate|menor(es)?|maior(es)?|entre)\b`)
	promotionPattern  = regexp.MustCompile(`\b(promoc(ao|oes)|ofertas?|descontos?|liquidac(ao|oes)|sald(ao|oes))\b`)
	categoryPattern   = regexp.MustCompile(`\b(categorias?|tipos?|sec(ao|oes)|departamentos?)\b`)
	brandVocabPattern = regexp.MustCompile(`\b(marcas?|fabricantes?)\b`)
	recipePattern     = regexp.MustCompile(`\b(receitas?|ingredientes?)\b|\bcomo fazer\b|\bpara fazer\b`)
	comparisonPattern = regexp.MustCompile(`\b(comparar|vs|versus|ou|melhor(es)?|diferencas?)\b`)
	listVocabPattern  = regexp.MustCompile(`\b(listas?|compras?|carrinhos?|cestas?)\b`)
)

// IntentClassifier decides what a free-text query is asking for. Rules run
// in a fixed order and the first match wins, so classification is
// deterministic for a given input.
type IntentClassifier struct{}

func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{}
}

// Classify labels the query with an intent type, confidence, extracted
// keywords and any structured filters the phrasing implies.
func (c *IntentClassifier) Classify(query string) domain.Intent {
	normalized := textnorm.Normalize(query)

	intent := domain.Intent{
		Type:       domain.IntentProduct,
		Confidence: confidenceFallback,
		Keywords:   extractKeywords(normalized),
	}

	switch {
	case priceVocabPattern.MatchString(normalized) || priceRangePattern.MatchString(normalized):
		intent.Type = domain.IntentPrice
		intent.Confidence = confidencePrice
		if pr := extractPriceRange(normalized); pr != nil {
			intent.Confidence = confidencePriceRange
			intent.Filters.PriceRange = pr
		}
	case promotionPattern.MatchString(normalized):
		intent.Type = domain.IntentPromotion
		intent.Confidence = confidencePromotion
		intent.Filters.OnPromotion = true
	case categoryPattern.MatchString(normalized):
		intent.Type = domain.IntentCategory
		intent.Confidence = confidenceCategory
	case brandVocabPattern.MatchString(normalized):
		intent.Type = domain.IntentBrand
		intent.Confidence = confidenceBrand
	case recipePattern.MatchString(normalized):
		intent.Type = domain.IntentRecipe
		intent.Confidence = confidenceRecipe
	case comparisonPattern.MatchString(normalized):
		intent.Type = domain.IntentComparison
		intent.Confidence = confidenceComparison
	case listVocabPattern.MatchString(normalized):
		intent.Type = domain.IntentList
		intent.Confidence = confidenceList
	}

	// A situational context ("churrasco", "cafe da manha") implies a
	// broader shopping mission regardless of which rule fired.
	if ctx := detectContext(normalized); ctx != "" {
		intent.Context = ctx
		if intent.Confidence < confidenceContext {
			intent.Confidence = confidenceContext
		}
	}

	return intent
}

// extractKeywords drops stop words and widens the remaining terms with
// known synonyms. The original terms always come first.
func extractKeywords(normalized string) []string {
	words := strings.Fields(normalized)

	seen := make(map[string]bool, len(words))
	keywords := make([]string, 0, len(words))
	add := func(w string) {
		if w != "" && !seen[w] {
			seen[w] = true
			keywords = append(keywords, w)
		}
	}

	for _, w := range words {
		if stopWords[w] || len(w) <= 2 {
			continue
		}
		add(w)
	}
	for _, w := range keywords[:len(keywords):len(keywords)] {
		for _, syn := range synonyms[w] {
			add(textnorm.Normalize(syn))
		}
	}
	return keywords
}

// extractPriceRange reads a "10 ate 20" style span. Reversed bounds are
// swapped rather than rejected.
func extractPriceRange(normalized string) *domain.PriceRange {
	m := priceRangePattern.FindStringSubmatch(normalized)
	if m == nil {
		return nil
	}
	min, err1 := strconv.ParseFloat(m[1], 64)
	max, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	if min > max {
		min, max = max, min
	}
	return &domain.PriceRange{Min: min, Max: max}
}

// detectContext scans for the longest situational context mentioned in the
// query, so "festa junina" wins over "festa".
func detectContext(normalized string) string {
	best := ""
	for ctx := range semanticContexts {
		if len(ctx) > len(best) && strings.Contains(normalized, ctx) {
			best = ctx
		}
	}
	return best
}

package usecase

import (
	"sort"
	"strings"

	"github.com/precivox/backend/internal/domain"
	"github.com/precivox/backend/internal/pkg/textnorm"
)

// Suggestion scores by origin. Corrections outrank everything since the
// user likely meant them; dictionary expansions outrank trending noise.
const (
	suggestionScoreCorrection = 0.95
	suggestionScoreRecipe     = 0.9
	suggestionScoreContext    = 0.8
	suggestionScoreTrending   = 0.7
	suggestionScoreRelated    = 0.6

	contextSuggestionRankStep  = 0.1
	trendingSuggestionRankStep = 0.05
	relatedSuggestionRankStep  = 0.1

	maxContextSuggestions    = 3
	defaultMaxSuggestions    = 10
	defaultAutocompleteLimit = 8

	autocompleteMinPrefix      = 2
	autocompleteCorrectedScore = 1.0
)

// relatedQueryTemplates turns a query into follow-up searches per intent.
// %s is replaced with the query text.
var relatedQueryTemplates = map[domain.IntentType][]string{
	domain.IntentProduct:  {"%s em promoção", "%s barato", "marcas de %s"},
	domain.IntentPrice:    {"%s com desconto", "ofertas %s", "promoção %s"},
	domain.IntentRecipe:   {"ingredientes %s", "como fazer %s", "receita %s"},
	domain.IntentCategory: {"melhores %s", "%s em oferta", "marcas %s"},
}

const maxRelatedQueries = 5

// SuggestionService turns the expansion output and live trending data into
// user-facing suggestions and autocomplete entries.
type SuggestionService struct {
	trending domain.Trending
}

func NewSuggestionService(trending domain.Trending) *SuggestionService {
	return &SuggestionService{trending: trending}
}

// Suggestions assembles the suggestion list for a completed search. Each
// suggestion carries a stable ID derived from its type and text, so the
// same query yields the same IDs across calls. The list is score-ordered
// and capped at max (defaultMaxSuggestions when max <= 0).
func (s *SuggestionService) Suggestions(query string, intent domain.Intent, exp Expansion, products []domain.Product, max int) []domain.Suggestion {
	if max <= 0 {
		max = defaultMaxSuggestions
	}

	var out []domain.Suggestion
	for _, corrected := range exp.Corrections {
		out = append(out, newSuggestion(domain.SuggestionCorrected, corrected, suggestionScoreCorrection, domain.SuggestionMetadata{}))
	}
	if exp.Recipe != "" {
		out = append(out, newSuggestion(domain.SuggestionRecipe, "receita de "+exp.Recipe, suggestionScoreRecipe, domain.SuggestionMetadata{
			RelatedTerms: exp.Ingredients,
		}))
	}
	for i, term := range exp.ContextTerms {
		if i >= maxContextSuggestions {
			break
		}
		out = append(out, newSuggestion(domain.SuggestionSemantic, term, suggestionScoreContext-float64(i)*contextSuggestionRankStep, domain.SuggestionMetadata{
			Category: intent.Context,
		}))
	}
	out = append(out, s.trendingSuggestions(query)...)
	out = append(out, relatedCategorySuggestions(products, query, intent.Keywords)...)

	return capSuggestions(dedupeSuggestions(out), max)
}

// RelatedQueries proposes follow-up searches for the query, based on its
// intent. Intents without templates get none.
func (s *SuggestionService) RelatedQueries(query string, intent domain.Intent) []string {
	templates := relatedQueryTemplates[intent.Type]
	related := make([]string, 0, len(templates))
	for _, tpl := range templates {
		if len(related) >= maxRelatedQueries {
			break
		}
		related = append(related, strings.Replace(tpl, "%s", strings.TrimSpace(query), 1))
	}
	return related
}

// Autocomplete completes a partial input. Prefixes shorter than two
// characters fall back to popular terms instead of matching, since one
// letter matches too much to be useful.
func (s *SuggestionService) Autocomplete(prefix string, limit int) []domain.Suggestion {
	if limit <= 0 {
		limit = defaultAutocompleteLimit
	}
	normalized := textnorm.Normalize(prefix)

	if len([]rune(normalized)) < autocompleteMinPrefix {
		return capSuggestions(s.popularFallback(), limit)
	}

	var out []domain.Suggestion
	if corrected, ok := correctSpelling(prefix); ok {
		out = append(out, newSuggestion(domain.SuggestionCorrected, corrected, autocompleteCorrectedScore, domain.SuggestionMetadata{}))
	}
	for i, qc := range s.trending.Top(limit * 2) {
		if strings.HasPrefix(qc.Query, normalized) {
			out = append(out, newSuggestion(domain.SuggestionTrending, qc.Query, suggestionScoreTrending-float64(i)*trendingSuggestionRankStep, domain.SuggestionMetadata{
				ProductCount: int(qc.Count),
			}))
		}
	}
	for i, term := range popularTerms {
		if strings.HasPrefix(textnorm.Normalize(term), normalized) {
			out = append(out, newSuggestion(domain.SuggestionRelated, term, suggestionScoreRelated-float64(i)*trendingSuggestionRankStep, domain.SuggestionMetadata{}))
		}
	}
	return capSuggestions(dedupeSuggestions(out), limit)
}

// trendingSuggestions surfaces trending queries textually related to the
// current one. Unrelated trending terms are noise and are skipped.
func (s *SuggestionService) trendingSuggestions(query string) []domain.Suggestion {
	normalized := textnorm.Normalize(query)
	if normalized == "" {
		return nil
	}
	var out []domain.Suggestion
	for i, qc := range s.trending.Top(defaultMaxSuggestions) {
		if qc.Query == normalized {
			continue
		}
		if strings.Contains(qc.Query, normalized) || strings.Contains(normalized, qc.Query) {
			out = append(out, newSuggestion(domain.SuggestionTrending, qc.Query, suggestionScoreTrending-float64(i)*trendingSuggestionRankStep, domain.SuggestionMetadata{
				ProductCount: int(qc.Count),
			}))
		}
	}
	return out
}

// relatedCategorySuggestions proposes the categories the result set spans
// as wider searches. Categories the query already implies are skipped.
func relatedCategorySuggestions(products []domain.Product, query string, keywords []string) []domain.Suggestion {
	nq := textnorm.Normalize(query)
	implied := func(cat string) bool {
		if cat == "" || strings.Contains(nq, cat) {
			return true
		}
		for _, kw := range keywords {
			if strings.Contains(cat, kw) {
				return true
			}
		}
		return false
	}

	counts := make(map[string]int)
	display := make(map[string]string)
	for _, p := range products {
		cat := textnorm.Normalize(p.Category)
		if implied(cat) {
			continue
		}
		counts[cat]++
		if _, ok := display[cat]; !ok {
			display[cat] = p.Category
		}
	}

	names := make([]string, 0, len(counts))
	for cat := range counts {
		names = append(names, cat)
	}
	sort.Strings(names)

	out := make([]domain.Suggestion, 0, len(names))
	for i, cat := range names {
		out = append(out, newSuggestion(domain.SuggestionRelated, display[cat], suggestionScoreRelated-float64(i)*relatedSuggestionRankStep, domain.SuggestionMetadata{
			Category:     display[cat],
			ProductCount: counts[cat],
		}))
	}
	return out
}

// popularFallback is what autocomplete returns before there is anything to
// match: live trending first, seed terms to fill.
func (s *SuggestionService) popularFallback() []domain.Suggestion {
	var out []domain.Suggestion
	for i, qc := range s.trending.Top(defaultAutocompleteLimit) {
		out = append(out, newSuggestion(domain.SuggestionTrending, qc.Query, suggestionScoreTrending-float64(i)*trendingSuggestionRankStep, domain.SuggestionMetadata{
			ProductCount: int(qc.Count),
		}))
	}
	for i, term := range popularTerms {
		out = append(out, newSuggestion(domain.SuggestionTrending, term, suggestionScoreTrending-float64(i)*trendingSuggestionRankStep, domain.SuggestionMetadata{}))
	}
	return dedupeSuggestions(out)
}

func newSuggestion(typ domain.SuggestionType, text string, score float64, meta domain.SuggestionMetadata) domain.Suggestion {
	// Rank decrements over long lists would drift below zero; scores stay
	// within [0, 1].
	score = min(max(score, 0), 1)

	s := domain.Suggestion{
		ID:    string(typ) + "-" + slug(text),
		Text:  text,
		Type:  typ,
		Score: score,
	}
	if meta.Category != "" || meta.ProductCount != 0 || len(meta.RelatedTerms) > 0 {
		s.Metadata = &meta
	}
	return s
}

// slug builds the stable ID fragment for a suggestion text.
func slug(text string) string {
	return strings.ReplaceAll(textnorm.Normalize(text), " ", "-")
}

// dedupeSuggestions keeps the best-scoring entry per ID without disturbing
// relative order of the survivors.
func dedupeSuggestions(in []domain.Suggestion) []domain.Suggestion {
	best := make(map[string]int, len(in))
	out := in[:0:0]
	for _, s := range in {
		if idx, ok := best[s.ID]; ok {
			if s.Score > out[idx].Score {
				out[idx] = s
			}
			continue
		}
		best[s.ID] = len(out)
		out = append(out, s)
	}
	return out
}

// capSuggestions score-sorts (ID ascending on ties, so output is
// deterministic) and truncates.
func capSuggestions(in []domain.Suggestion, max int) []domain.Suggestion {
	sort.SliceStable(in, func(i, j int) bool {
		if in[i].Score != in[j].Score {
			return in[i].Score > in[j].Score
		}
		return in[i].ID < in[j].ID
	})
	if len(in) > max {
		in = in[:max]
	}
	return in
}

package usecase

import (
	"strings"

	"github.com/precivox/backend/internal/domain"
	"github.com/precivox/backend/internal/pkg/textnorm"
)

// maxExpansionTerms bounds how many extra retrieval terms an expansion may
// add on top of the user's own words.
const maxExpansionTerms = 12

// Expansion is what the expander derives from a query beyond its literal
// words. Corrections are surfaced to the caller, never silently applied:
// the original query is always searched as typed.
type Expansion struct {
	Terms        []string
	Corrections  []string
	ContextTerms []string
	Recipe       string
	Ingredients  []string
}

// SemanticExpander widens a query using the context, recipe and spelling
// dictionaries.
type SemanticExpander struct{}

func NewSemanticExpander() *SemanticExpander {
	return &SemanticExpander{}
}

// Expand builds the retrieval term set for a query. Terms start with the
// intent's keywords; context terms, recipe ingredients and corrected
// spellings are appended subject to the per-request toggles.
func (e *SemanticExpander) Expand(query string, intent domain.Intent, opts domain.QueryOptions) Expansion {
	exp := Expansion{}

	seen := make(map[string]bool)
	add := func(term string) {
		n := textnorm.Normalize(term)
		if n == "" || seen[n] {
			return
		}
		seen[n] = true
		exp.Terms = append(exp.Terms, n)
	}

	for _, kw := range intent.Keywords {
		add(kw)
	}
	base := len(exp.Terms)

	if !opts.DisableCorrections {
		if corrected, ok := correctSpelling(query); ok {
			exp.Corrections = append(exp.Corrections, corrected)
			for _, w := range textnorm.Fields(corrected) {
				if !stopWords[w] {
					add(w)
				}
			}
		}
	}

	if !opts.DisableExpansion && intent.Context != "" {
		exp.ContextTerms = semanticContexts[intent.Context]
		for _, t := range exp.ContextTerms {
			add(t)
		}
	}

	if !opts.DisableRecipes && intent.Type == domain.IntentRecipe {
		if name, ingredients := matchRecipe(query); name != "" {
			exp.Recipe = name
			exp.Ingredients = ingredients
			for _, ing := range ingredients {
				add(ing)
			}
		}
	}

	if len(exp.Terms) > base+maxExpansionTerms {
		exp.Terms = exp.Terms[:base+maxExpansionTerms]
	}
	return exp
}

// correctSpelling rewrites known misspellings word by word and reports
// whether anything changed. The returned string keeps the preferred
// accented spelling for display.
func correctSpelling(query string) (string, bool) {
	words := strings.Fields(textnorm.Normalize(query))
	changed := false
	for i, w := range words {
		if fixed, ok := spellingCorrections[w]; ok {
			words[i] = fixed
			changed = true
		}
	}
	if !changed {
		return "", false
	}
	return strings.Join(words, " "), true
}

// matchRecipe finds the recipe a query refers to, preferring the longest
// name mentioned ("pao de queijo" should not match bare "pao" first when a
// longer entry exists).
func matchRecipe(query string) (string, []string) {
	normalized := textnorm.Normalize(query)
	best := ""
	for name := range recipeIngredients {
		if len(name) > len(best) && strings.Contains(normalized, name) {
			best = name
		}
	}
	if best == "" {
		return "", nil
	}
	return best, recipeIngredients[best]
}

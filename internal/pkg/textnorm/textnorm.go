// Package textnorm normalizes Portuguese query and product text so that
// surface differences (case, accents, punctuation, whitespace) never change
// matching or cache-key behavior.
package textnorm

import (
	"regexp"
	"strings"
)

var (
	punctuationRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpaceRegex  = regexp.MustCompile(`\s+`)
)

// accentFolder maps the accented characters that appear in Portuguese
// product feeds onto their base letters. Kept as a data table so new
// locales extend it without touching callers.
var accentFolder = strings.NewReplacer(
	"á", "a", "à", "a", "â", "a", "ã", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"í", "i", "ì", "i", "î", "i", "ï", "i",
	"ó", "o", "ò", "o", "ô", "o", "õ", "o", "ö", "o",
	"ú", "u", "ù", "u", "û", "u", "ü", "u",
	"ç", "c", "ñ", "n",
	"Á", "a", "À", "a", "Â", "a", "Ã", "a", "Ä", "a",
	"É", "e", "È", "e", "Ê", "e", "Ë", "e",
	"Í", "i", "Ì", "i", "Î", "i", "Ï", "i",
	"Ó", "o", "Ò", "o", "Ô", "o", "Õ", "o", "Ö", "o",
	"Ú", "u", "Ù", "u", "Û", "u", "Ü", "u",
	"Ç", "c", "Ñ", "n",
)

// Normalize lowercases, folds accents, strips punctuation and collapses
// whitespace. The result is a pure function of the semantic content of s.
func Normalize(s string) string {
	out := accentFolder.Replace(strings.ToLower(s))
	out = punctuationRegex.ReplaceAllString(out, " ")
	out = multiSpaceRegex.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// Fields normalizes s and splits it into tokens.
func Fields(s string) []string {
	return strings.Fields(Normalize(s))
}

package answer

import (
	"strings"
	"unicode"
)

var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"shall": {}, "be": {}, "with": {}, "to": {}, "for": {}, "of": {}, "and": {}, "or": {},
}

// Tokens lowercases text, strips punctuation (keeping letters, digits and
// combining marks so Devanagari survives) and returns the set of non-stopword tokens.
func Tokens(text string) map[string]struct{} {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r), r == '_':
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		case unicode.Is(unicode.Devanagari, r):
			return r
		default:
			return -1
		}
	}, text)

	out := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		if _, stop := stopwords[tok]; !stop {
			out[tok] = struct{}{}
		}
	}
	return out
}

// Overlap returns the Jaccard similarity of the token sets of a and b.
func Overlap(a, b string) float64 {
	ta, tb := Tokens(a), Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	inter := 0
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopWords are removed by ExtractMeaningfulWords.
//
//nolint:gochecknoglobals // Static lookup table
var stopWords = map[string]struct{}{
	// articles
	"a": {}, "an": {}, "the": {},
	// romanized particles
	"no": {}, "wa": {}, "ga": {}, "wo": {}, "ni": {}, "de": {},
	// format words
	"manga": {}, "comic": {}, "comics": {}, "doujinshi": {},
	"anthology": {}, "collection": {},
}

// secondaryWords describe a position inside a series rather than the series.
//
//nolint:gochecknoglobals // Static lookup table
var secondaryWords = map[string]struct{}{
	"season": {}, "seasons": {}, "part": {}, "parts": {}, "cour": {},
	"volume": {}, "volumes": {}, "vol": {}, "chapter": {}, "chapters": {}, "ch": {},
	"arc": {}, "episode": {}, "ep": {}, "book": {}, "series": {},
	"edition": {}, "sequel": {}, "special": {},
}

//nolint:gochecknoglobals // Static lookup table
var articles = map[string]struct{}{"a": {}, "an": {}, "the": {}}

var (
	apostropheRe   = regexp.MustCompile(`'+`)
	nonWordSpaceRe = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\s]+`)
)

// ExtractMeaningfulWords splits a title into lowercase words, dropping
// articles, particles and format words. Unlike Normalize it keeps word
// boundaries; use it wherever word order or coverage matters.
//
//	"Attack on Titan (Manga)" → ["attack", "on", "titan"]
//	"Kimi no Na wa."          → ["kimi", "na"]
func ExtractMeaningfulWords(text string) []string {
	words := SplitWords(text)
	out := words[:0]
	for _, w := range words {
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// SplitWords performs the light normalization pass of ExtractMeaningfulWords
// without removing stop words.
func SplitWords(text string) []string {
	s := StripDecorations(text)
	if s == "" {
		return []string{}
	}

	s = foldUnicode(s)
	s = punctuationReplacer.Replace(s)
	s = strings.ToLower(s)
	s = apostropheRe.ReplaceAllString(s, "")
	s = nonWordSpaceRe.ReplaceAllString(s, " ")

	return strings.Fields(s)
}

// Tokens returns the meaningful words of text in canonical token form.
//
//	"Season 2" → ["season", "2"]
//	"S2"       → ["2"]
func Tokens(text string) []string {
	words := ExtractMeaningfulWords(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if t := NormalizeToken(w); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// IsSecondaryWord reports whether w is a season/volume/chapter-type term.
func IsSecondaryWord(w string) bool {
	_, ok := secondaryWords[strings.ToLower(w)]
	return ok
}

// IsArticle reports whether w is a definite or indefinite English article.
func IsArticle(w string) bool {
	_, ok := articles[strings.ToLower(w)]
	return ok
}

// IsStopWord reports whether ExtractMeaningfulWords drops w.
func IsStopWord(w string) bool {
	_, ok := stopWords[strings.ToLower(w)]
	return ok
}

// PrimaryTokens filters out secondary words and single-rune tokens.
func PrimaryTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if IsSecondaryWord(t) || utf8.RuneCountInString(t) <= 1 {
			continue
		}
		out = append(out, t)
	}
	return out
}

func isLetterOrDigit(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Package normalize canonicalizes manga titles for comparison.
//
// Three entry points exist and they are not interchangeable:
//
//   - Normalize produces a single unbroken lowercase token run. Spacing and
//     hyphenation differences disappear, so word boundaries are lost.
//   - ExtractMeaningfulWords keeps word boundaries and removes stop words.
//   - NormalizeToken maps one word to its canonical token (numbers, numerals,
//     season shorthand).
//
// Every function is pure and total: malformed input never panics and empty
// input yields empty output.
package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CacheKeyLength is the maximum number of runes in a cache key.
const CacheKeyLength = 30

// decorationPatterns strip release-group brackets and low-signal suffixes.
// Applied in order, each once.
//
//nolint:gochecknoglobals // Static pattern table
var decorationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*[\[【][^\]】]*[\]】]\s*`),
	regexp.MustCompile(`\s*[\[【][^\]】]*[\]】]\s*$`),
	regexp.MustCompile(`^\s*[(（][^)）]*[)）]\s*`),
	regexp.MustCompile(`\s*[(（][^)）]*[)）]\s*$`),
	regexp.MustCompile(`(?i)[\s,:-]+vol(?:ume)?\.?\s*\d+\s*$`),
	regexp.MustCompile(`(?i)[\s,:-]+ch(?:apter)?\.?\s*\d+\s*$`),
	regexp.MustCompile(`(?i)\s+(?:raw|scans?|manga|doujinshi|one-?shot)\s*$`),
}

// punctuationReplacer maps Japanese punctuation and typographic variants to ASCII.
//
//nolint:gochecknoglobals // Static lookup table
var punctuationReplacer = strings.NewReplacer(
	"、", ",", "。", ".", "，", ",",
	"「", "\"", "」", "\"", "『", "\"", "』", "\"",
	"（", "(", "）", ")",
	"！", "!", "？", "?", "：", ":", "；", ";",
	"〜", "~", "～", "~",
	"—", "-", "–", "-", "―", "-", "‐", "-", "‑", "-", "−", "-",
	"…", "...", "‥", "..",
	"×", "x", "✕", "x",
	"・", " ", "　", " ",
	"’", "'", "‘", "'", "`", "'",
)

type substitution struct {
	pattern     *regexp.Regexp
	replacement string
}

// abbreviations expands common shorthand and maps romanized particles.
// Input is already lowercase.
//
//nolint:gochecknoglobals // Static lookup table
var abbreviations = []substitution{
	{regexp.MustCompile(`\bvs\b\.?`), "versus"},
	{regexp.MustCompile(`&`), " and "},
	{regexp.MustCompile(`\bno\b`), "of"},
	{regexp.MustCompile(`\bni\b`), "in"},
	{regexp.MustCompile(`\bde\b`), "at"},
	{regexp.MustCompile(`\bkara\b`), "from"},
	{regexp.MustCompile(`\bmade\b`), "until"},
	{regexp.MustCompile(`\b(?:wa|ga)\b`), " "},
}

var (
	// Anything that is not a word character, whitespace, apostrophe or hyphen.
	nonWordRe = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s'-]+`)
	// Hyphens and whitespace are removed from the canonical form.
	separatorRe = regexp.MustCompile(`[\s-]+`)
)

// Normalize returns the canonical comparison form of a title.
//
// Stages:
//  1. Trim and strip bracketed affixes and low-signal suffixes
//  2. Unicode folding (diacritics, full-width ASCII)
//  3. Japanese punctuation and dash/ellipsis variants to ASCII
//  4. Abbreviation and particle expansion
//  5. Remove punctuation, hyphens and whitespace
//  6. Lowercase and trim
//
// Examples:
//
//	"Re:Zero"                 → "rezero"
//	"[Group] One Piece Vol. 3" → "onepiece"
//	"Pokémon Adventures"      → "pokemonadventures"
func Normalize(text string) string {
	s := strings.TrimSpace(text)
	if s == "" {
		return ""
	}

	s = StripDecorations(s)
	s = foldUnicode(s)
	s = punctuationReplacer.Replace(s)

	s = strings.ToLower(s)
	for _, sub := range abbreviations {
		s = sub.pattern.ReplaceAllString(s, sub.replacement)
	}

	s = nonWordRe.ReplaceAllString(s, " ")
	s = separatorRe.ReplaceAllString(s, "")

	return strings.TrimSpace(strings.ToLower(s))
}

// StripDecorations removes bracketed prefixes/suffixes and trailing
// low-signal words such as "raw" or "vol. 3". A pattern that would leave
// nothing behind is skipped, so "【推しの子】" survives intact.
func StripDecorations(text string) string {
	s := strings.TrimSpace(text)
	for _, re := range decorationPatterns {
		stripped := strings.TrimSpace(re.ReplaceAllString(s, ""))
		if stripped != "" {
			s = stripped
		}
	}
	return s
}

// foldUnicode decomposes, drops combining diacritical marks, recomposes and
// folds full-width ASCII to half-width.
func foldUnicode(s string) string {
	// Chains carry state, so one is built per call.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.Predicate(isCombiningDiacritic)),
		norm.NFC,
		runes.Map(foldFullWidth),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// isCombiningDiacritic reports runes in the Combining Diacritical Marks block.
// Kana voicing marks live elsewhere and are recomposed by NFC.
func isCombiningDiacritic(r rune) bool {
	return r >= 0x0300 && r <= 0x036F
}

// foldFullWidth maps U+FF01–U+FF5E onto U+0021–U+007E.
func foldFullWidth(r rune) rune {
	if r >= 0xFF01 && r <= 0xFF5E {
		return r - 0xFEE0
	}
	return r
}

// CacheKey derives the candidate-cache key for a title: the canonical form
// truncated to CacheKeyLength runes. Distinct titles may collide.
func CacheKey(title string) string {
	key := Normalize(title)
	if utf8.RuneCountInString(key) <= CacheKeyLength {
		return key
	}
	r := []rune(key)
	return string(r[:CacheKeyLength])
}

// Compact lowercases text and keeps only letters and digits.
// Used to compare a query against an initialism.
func Compact(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(foldUnicode(text)) {
		if isLetterOrDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

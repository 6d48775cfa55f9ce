package similarity

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
)

// Every metric in this file is pure and symmetric. Arguments are put in
// canonical order before any floating-point work so that f(a,b) and f(b,a)
// perform the same operations and agree bit-for-bit.

func canonical(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// exactScore: 1 on equality, min/max length on containment, else 0.
func exactScore(a, b string) float64 {
	a, b = canonical(a, b)
	if a == b {
		return 1
	}
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	if containsEither(a, b) {
		return float64(min(la, lb)) / float64(max(la, lb))
	}
	return 0
}

// substringScore is the longest common substring length over the longer length.
func substringScore(a, b string) float64 {
	a, b = canonical(a, b)
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	longest := longestCommonSubstring(ra, rb)
	return float64(longest) / float64(max(len(ra), len(rb)))
}

// longestCommonSubstring uses a rolling two-row table sized by the shorter
// input and stops once the match covers the shorter input entirely.
func longestCommonSubstring(a, b []rune) int {
	if len(b) > len(a) {
		a, b = b, a
	}
	// b is the shorter side.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	longest := 0

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > longest {
					longest = curr[j]
					if longest == len(b) {
						return longest
					}
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return longest
}

// wordOrderScore is the Jaccard index of two word sets.
func wordOrderScore(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return jaccard(toSet(a), toSet(b))
}

// characterScore averages bigram Dice and normalized Levenshtein similarity.
func characterScore(a, b string) float64 {
	a, b = canonical(a, b)
	dice := Dice(a, b)
	if dice == 1 {
		return 1
	}
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1
	}
	lev := 1 - float64(edlib.LevenshteinDistance(a, b))/float64(maxLen)
	return (dice + clamp01(lev)) / 2
}

// jaroWinklerScore wraps go-edlib. Equal strings score 1, an empty side 0.
func jaroWinklerScore(a, b string) float64 {
	a, b = canonical(a, b)
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	return clamp01(float64(edlib.JaroWinklerSimilarity(a, b)))
}

// ngramScore is the Jaccard index of character trigrams, bigrams when the
// shorter input has fewer than three runes, equality below two.
func ngramScore(a, b string) float64 {
	a, b = canonical(a, b)
	ra, rb := []rune(a), []rune(b)
	shorter := min(len(ra), len(rb))
	if shorter < 2 {
		if a == b {
			return 1
		}
		return 0
	}
	n := 3
	if shorter < 3 {
		n = 2
	}
	return jaccard(ngramSet(ra, n), ngramSet(rb, n))
}

// Dice returns the bigram Dice coefficient of two strings, counting repeated
// bigrams. Inputs shorter than two runes score 0 unless equal.
func Dice(a, b string) float64 {
	a, b = canonical(a, b)
	if a == b {
		return 1
	}
	ra, rb := []rune(a), []rune(b)
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	counts := make(map[[2]rune]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		counts[[2]rune{ra[i], ra[i+1]}]++
	}
	shared := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := [2]rune{rb[i], rb[i+1]}
		if counts[bg] > 0 {
			counts[bg]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ra)-1+len(rb)-1)
}

// Word-level match scores used by semanticScore.
const (
	stemMatchScore      = 0.95
	jaroWinklerFloor    = 0.85
	jaroWinklerFactor   = 0.9
	diceFloor           = 0.8
	diceFactor          = 0.85
	semanticBestWeight  = 0.7
	semanticStemWeight  = 0.3
	minStemLen          = 3
)

// semanticScore scores each word of the iterated side by its best match in
// the other side and blends the mean with the Jaccard index of the stem sets.
// The side with fewer words is iterated; on a tie the lexically smaller one.
func semanticScore(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) || (len(a) == len(b) && joinWords(b) < joinWords(a)) {
		a, b = b, a
	}

	stemsB := make([]string, len(b))
	for i, w := range b {
		stemsB[i] = Stem(w)
	}

	total := 0.0
	for _, w := range a {
		total += bestWordMatch(w, Stem(w), b, stemsB)
	}
	mean := total / float64(len(a))

	stemJaccard := jaccard(toSet(stemAll(a)), toSet(stemsB))
	return semanticBestWeight*mean + semanticStemWeight*stemJaccard
}

func bestWordMatch(word, wordStem string, others, otherStems []string) float64 {
	best := 0.0
	for i, o := range others {
		if word == o {
			return 1
		}
		if wordStem == otherStems[i] {
			best = max(best, stemMatchScore)
			continue
		}
		if jw := jaroWinklerScore(word, o); jw > jaroWinklerFloor {
			best = max(best, jw*jaroWinklerFactor)
		}
		if d := Dice(word, o); d > diceFloor {
			best = max(best, d*diceFactor)
		}
	}
	return best
}

// Stem applies the porter2 stemmer to plain lowercase ASCII words. Anything
// else, including kana and accented words, is returned unchanged.
func Stem(w string) string {
	if len(w) < minStemLen {
		return w
	}
	for i := 0; i < len(w); i++ {
		if c := w[i]; c < 'a' || c > 'z' {
			return w
		}
	}
	return porter2.Stem(w)
}

func stemAll(words []string) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = Stem(w)
	}
	return out
}

func joinWords(words []string) string {
	return strings.Join(words, " ")
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func ngramSet(r []rune, n int) map[string]struct{} {
	set := make(map[string]struct{}, len(r))
	for i := 0; i+n <= len(r); i++ {
		set[string(r[i:i+n])] = struct{}{}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

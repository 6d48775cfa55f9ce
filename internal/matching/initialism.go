package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/listenupapp/mangamatch/internal/normalize"
)

const (
	initialismExact         = 0.92
	initialismFuzzyMin      = 0.8
	initialismFuzzyScale    = 0.5
	initialismFuzzyCap      = 0.9
	initialismMinQueryRunes = 2
	initialismMaxQueryRunes = 10
	initialismMinWords      = 2
)

// Initialism returns the first letter of each meaningful, non-secondary word
// of title, lowercased.
//
//	"Attack on Titan"           → "aot"
//	"Fullmetal Alchemist"       → "fa"
//	"My Hero Academia Season 2" → "mha2"
func Initialism(title string) string {
	return initialismOf(normalize.ExtractMeaningfulWords(title))
}

func initialismOf(words []string) string {
	var b strings.Builder
	for _, w := range words {
		if normalize.IsSecondaryWord(w) {
			continue
		}
		r, _ := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// initialismScore compares a single-word query against the title's
// initialism. Exact equality scores 0.92; a Jaro-Winkler similarity of at
// least 0.8 scores up to 0.9.
func (e *Engine) initialismScore(q *query, titleWords []string) float64 {
	if len(strings.Fields(q.raw)) != 1 {
		return 0
	}
	compact := normalize.Compact(q.raw)
	if n := utf8.RuneCountInString(compact); n < initialismMinQueryRunes || n > initialismMaxQueryRunes {
		return 0
	}

	primary := 0
	for _, w := range titleWords {
		if !normalize.IsSecondaryWord(w) {
			primary++
		}
	}
	if primary < initialismMinWords {
		return 0
	}

	ini := initialismOf(titleWords)
	if ini == compact {
		return initialismExact
	}

	sim := e.scorer.TokenJaroWinkler(ini, compact)
	if sim < initialismFuzzyMin {
		return 0
	}
	return min(initialismFuzzyCap, initialismFuzzyMin+(sim-initialismFuzzyMin)*initialismFuzzyScale)
}

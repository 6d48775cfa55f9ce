package matching

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/listenupapp/mangamatch/internal/domain"
	"github.com/listenupapp/mangamatch/internal/normalize"
	"github.com/listenupapp/mangamatch/internal/similarity"
	"github.com/listenupapp/mangamatch/internal/trace"
)

// Word matching constants.
const (
	// A stage-2 score above this ends the cascade. A bag-of-words hit tops out
	// at exactly this value, so it never ends the cascade on its own.
	wordMatchReturnBar = 0.9

	bagMinRatio       = 0.75
	bagScale          = 0.6
	bagMinDivisor     = 2
	bagPrefixPoints   = 0.5
	bagMinPrefixRunes = 4

	enhancedShortQueryRunes = 10
	enhancedShortThreshold  = 0.6
	enhancedLongThreshold   = 0.5
	enhancedFloor           = 0.6
	enhancedScale           = 0.95

	overlapCoverageWeight = 0.65
	overlapJaccardWeight  = 0.2
	overlapOrderWeight    = 0.15
	overlapAccept         = 0.6
	overlapBase           = 0.8
	overlapScale          = 0.5
	overlapCap            = 0.98
	primaryCoverageMin    = 0.6
)

// wordMatch runs the stage-2 checks for every title and returns the best
// score. It stops early once a title exceeds wordMatchReturnBar.
func (e *Engine) wordMatch(q *query, titles []domain.NormalizedTitle, opts Options) float64 {
	best := 0.0
	for _, t := range titles {
		score := e.wordMatchTitle(q, t, opts)
		if score > best {
			best = score
		}
		if best > wordMatchReturnBar {
			break
		}
	}
	return best
}

func (e *Engine) wordMatchTitle(q *query, t domain.NormalizedTitle, opts Options) float64 {
	best := 0.0
	titleWords := normalize.ExtractMeaningfulWords(t.Original)

	if score := bagOfWordsScore(q.words, titleWords); score > 0 {
		e.emit(trace.StageWordMatch, q, t.Original, score)
		if score > wordMatchReturnBar {
			return score
		}
		best = score
	}

	if score := e.enhancedScore(q, t.Original); score > best {
		e.emit(trace.StageEnhanced, q, t.Original, score)
		best = score
	}

	if opts.DisableEnhanced {
		return best
	}

	if score := overlapScore(q.tokens, normalize.Tokens(t.Original)); score > best {
		e.emit(trace.StageOverlap, q, t.Original, score)
		best = score
	}

	if score := e.initialismScore(q, titleWords); score > best {
		e.emit(trace.StageInitialism, q, t.Original, score)
		best = score
	}

	return best
}

// bagOfWordsScore awards one point per query word found in the title and half
// a point for a prefix match between words of at least four runes. Each title
// word is used once. Ratios below 0.75 are discarded.
func bagOfWordsScore(queryWords, titleWords []string) float64 {
	if len(queryWords) == 0 || len(titleWords) == 0 {
		return 0
	}

	used := make([]bool, len(titleWords))
	points := 0.0
	for _, qw := range queryWords {
		if i := indexUnused(titleWords, used, func(tw string) bool { return tw == qw }); i >= 0 {
			used[i] = true
			points++
			continue
		}
		if i := indexUnused(titleWords, used, func(tw string) bool { return isPrefixPair(qw, tw) }); i >= 0 {
			used[i] = true
			points += bagPrefixPoints
		}
	}

	ratio := points / float64(max(bagMinDivisor, min(len(queryWords), len(titleWords))))
	if ratio < bagMinRatio {
		return 0
	}
	return bagMinRatio + (ratio-bagMinRatio)*bagScale
}

func indexUnused(words []string, used []bool, match func(string) bool) int {
	for i, w := range words {
		if !used[i] && match(w) {
			return i
		}
	}
	return -1
}

func isPrefixPair(a, b string) bool {
	if utf8.RuneCountInString(a) < bagMinPrefixRunes || utf8.RuneCountInString(b) < bagMinPrefixRunes {
		return false
	}
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

// enhancedScore folds the composite similarity into the pipeline's scale.
// Short queries need a higher similarity.
func (e *Engine) enhancedScore(q *query, title string) float64 {
	sim := e.scorer.Enhanced(q.raw, title, e.config) / 100

	threshold := enhancedLongThreshold
	if utf8.RuneCountInString(q.raw) < enhancedShortQueryRunes {
		threshold = enhancedShortThreshold
	}
	if sim <= threshold {
		return 0
	}
	return max(enhancedFloor, sim*enhancedScale)
}

// overlapScore measures how well the query's tokens are covered by the
// title's. A title is rejected outright when less than 60% of its primary
// tokens appear in the query, so "Attack on Titan" never matches a spin-off
// with extra distinguishing words.
func overlapScore(queryTokens, titleTokens []string) float64 {
	if len(queryTokens) == 0 || len(titleTokens) == 0 {
		return 0
	}

	titleStems := stemSet(titleTokens)
	queryStems := stemSet(queryTokens)

	if primary := normalize.PrimaryTokens(titleTokens); len(primary) > 0 {
		covered := 0
		for _, t := range primary {
			if containsToken(queryTokens, queryStems, t) {
				covered++
			}
		}
		if float64(covered)/float64(len(primary)) < primaryCoverageMin {
			return 0
		}
	}

	present := 0
	for _, t := range queryTokens {
		if containsToken(titleTokens, titleStems, t) {
			present++
		}
	}
	coverage := float64(present) / float64(len(queryTokens))
	jaccard := setJaccard(queryStems, titleStems)
	order := WordOrderSimilarity(queryTokens, titleTokens)

	composite := overlapCoverageWeight*coverage + overlapJaccardWeight*jaccard + overlapOrderWeight*order
	if composite < overlapAccept {
		return 0
	}
	return min(overlapCap, overlapBase+(composite-overlapAccept)*overlapScale)
}

func stemSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[similarity.Stem(t)] = struct{}{}
	}
	return set
}

func containsToken(tokens []string, stems map[string]struct{}, t string) bool {
	if slices.Contains(tokens, t) {
		return true
	}
	_, ok := stems[similarity.Stem(t)]
	return ok
}

func setJaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

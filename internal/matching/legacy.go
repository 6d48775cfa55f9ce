package matching

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/listenupapp/mangamatch/internal/domain"
	"github.com/listenupapp/mangamatch/internal/normalize"
	"github.com/listenupapp/mangamatch/internal/trace"
)

// Legacy stage scores.
const (
	// A legacy score at or above this ends the cascade.
	legacyReturnBar = 0.95

	legacyExact          = 1.0
	legacySuffixStripped = 0.95
	legacySubstring      = 0.85
	legacyMinSubRunes    = 4
	legacyMinSubShare    = 0.5
	legacyOverlapMin     = 0.75
	legacyOverlapBase    = 0.8
	legacyOverlapScale   = 0.8
	legacyContainedBase  = 0.85
	legacyContainedScale = 0.1
	legacyEnhancedFloor  = 0.8
	legacySeasonMatch    = 0.9
	legacySeasonBaseMin  = 70.0
	legacySubsetBase     = 0.5
	legacySubsetFactor   = 0.1
)

var (
	// Trailing season/part markers: "season 2", "2nd season", "part 3", "s2", "ii", "2".
	seasonSuffixRe = regexp.MustCompile(`\s+(?:(?:season|part|cour|s)\s*\d+|\d+(?:st|nd|rd|th)\s+season|ii|iii|iv|v|vi|\d+)$`)
	seasonNumberRe = regexp.MustCompile(`(?:^|\s)(?:season|part|cour|s)\s*(\d+)(?:\s|$)|(?:^|\s)(\d+)(?:st|nd|rd|th)\s+season(?:\s|$)`)
)

// legacyMatch runs the fallback checks over each raw title.
func (e *Engine) legacyMatch(q *query, titles []domain.NormalizedTitle) float64 {
	lq := legacyNormalize(q.raw)
	if lq == "" {
		return 0
	}

	best := 0.0
	for _, t := range titles {
		score := e.legacyMatchTitle(q, lq, t.Original)
		if score > best {
			best = score
			e.emit(trace.StageLegacy, q, t.Original, score)
		}
		if best >= legacyReturnBar {
			break
		}
	}
	return best
}

func (e *Engine) legacyMatchTitle(q *query, lq, raw string) float64 {
	lt := legacyNormalize(raw)
	if lt == "" {
		return 0
	}

	// 1. Exact and suffix-stripped equality
	if lq == lt {
		return legacyExact
	}
	bq, bt := stripSeasonSuffix(lq), stripSeasonSuffix(lt)
	if bq != "" && bq == bt {
		return legacySuffixStripped
	}

	best := 0.0

	// 2. Substantial substring
	if isSubstantialSubstring(lq, lt) {
		best = legacySubstring
	}

	qw, tw := strings.Fields(lq), strings.Fields(lt)

	// 3. Word overlap ratio
	if ratio := wordOverlapRatio(qw, tw); ratio >= legacyOverlapMin {
		best = max(best, legacyOverlapBase+(ratio-legacyOverlapMin)*legacyOverlapScale)
	}

	// 4. Complete title contained in the query
	if len(tw) >= 2 && strings.Contains(" "+lq+" ", " "+lt+" ") {
		ratio := float64(utf8.RuneCountInString(lt)) / float64(utf8.RuneCountInString(lq))
		best = max(best, legacyContainedBase+ratio*legacyContainedScale)
	}

	// 5. Composite similarity
	if sim := e.scorer.Enhanced(q.raw, raw, e.config) / 100; sim >= legacyEnhancedFloor {
		best = max(best, sim)
	}

	// 6. Same season/part number on similar base titles
	if nq, nt := seasonNumber(lq), seasonNumber(lt); nq != "" && nq == nt {
		if bq != "" && bt != "" && e.scorer.Enhanced(bq, bt, e.config) >= legacySeasonBaseMin {
			best = max(best, legacySeasonMatch)
		}
	}

	// 7. Subset match
	if score := subsetScore(lq, lt, qw, tw); score > best {
		best = score
	}

	return min(best, legacyExact)
}

// legacyNormalize lowercases, folds and keeps word boundaries as single spaces.
func legacyNormalize(s string) string {
	return strings.Join(normalize.SplitWords(s), " ")
}

func stripSeasonSuffix(s string) string {
	return strings.TrimSpace(seasonSuffixRe.ReplaceAllString(s, ""))
}

func seasonNumber(s string) string {
	m := seasonNumberRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	for _, g := range m[1:] {
		if g != "" {
			return normalize.NormalizeToken(g)
		}
	}
	return ""
}

// isSubstantialSubstring: the shorter side has at least four runes, covers at
// least half of the longer side and appears inside it.
func isSubstantialSubstring(a, b string) bool {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la > lb {
		a, b = b, a
		la, lb = lb, la
	}
	if la < legacyMinSubRunes || float64(la)/float64(lb) < legacyMinSubShare {
		return false
	}
	return strings.Contains(b, a)
}

// wordOverlapRatio is the number of shared words over the longer word count.
func wordOverlapRatio(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, w := range b {
		set[w] = struct{}{}
	}
	shared := 0
	for _, w := range a {
		if _, ok := set[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(max(len(a), len(b)))
}

// subsetScore rewards queries whose words all appear in the title close to
// the title's own order.
func subsetScore(lqs, lts string, qw, tw []string) float64 {
	if len(qw) == 0 || len(tw) == 0 || !IsWordOrderProximate(qw, tw) {
		return 0
	}

	lq, lt := utf8.RuneCountInString(lqs), utf8.RuneCountInString(lts)
	lengthFactor := float64(min(lq, lt)) / float64(max(lq, lt))
	coverageFactor := float64(len(qw)) / float64(max(len(qw), len(tw)))
	orderFactor := 0.5
	if LongestCommonSubsequence(qw, tw) == len(qw) {
		orderFactor = 1
	}

	return legacySubsetBase + legacySubsetFactor*(lengthFactor+coverageFactor+orderFactor)
}

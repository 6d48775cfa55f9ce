package matching

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/listenupapp/mangamatch/internal/domain"
	"github.com/listenupapp/mangamatch/internal/normalize"
	"github.com/listenupapp/mangamatch/internal/trace"
)

// Direct match scores.
const (
	directExact           = 1.0
	directArticleOnly     = 0.97
	directQueryInTitle    = 0.85
	directTitleInQuery    = 0.8
	directMinContainedLen = 6
)

// directMatch compares canonical forms. Equality scores 1. Containment counts
// only when the contained side is longer than directMinContainedLen runes.
func (e *Engine) directMatch(q *query, titles []domain.NormalizedTitle, r *domain.TitleRecord) float64 {
	if q.normalized == "" {
		return 0
	}

	for _, t := range titles {
		if t.Text == q.normalized {
			e.emit(trace.StageDirect, q, t.Original, directExact)
			return directExact
		}
	}

	queryLen := utf8.RuneCountInString(q.normalized)
	best := 0.0
	bestTitle := ""
	for _, t := range titles {
		if t.Text == "" {
			continue
		}

		var score float64
		switch {
		case queryLen > directMinContainedLen && strings.Contains(t.Text, q.normalized):
			score = directQueryInTitle
		case utf8.RuneCountInString(t.Text) > directMinContainedLen && strings.Contains(q.normalized, t.Text):
			score = directTitleInQuery
		default:
			continue
		}

		if differsOnlyByArticles(q.raw, r.PreferredTitle()) {
			score = directArticleOnly
		}
		if score > best {
			best, bestTitle = score, t.Original
		}
	}

	if best > 0 {
		e.emit(trace.StageDirect, q, bestTitle, best)
	}
	return best
}

// differsOnlyByArticles reports whether a and b are the same words once
// "a", "an" and "the" are removed, and differ before removal.
func differsOnlyByArticles(a, b string) bool {
	if b == "" {
		return false
	}
	wa, wb := normalize.SplitWords(a), normalize.SplitWords(b)
	if slices.Equal(wa, wb) {
		return false
	}
	sa, sb := withoutArticles(wa), withoutArticles(wb)
	return len(sa) > 0 && slices.Equal(sa, sb)
}

func withoutArticles(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if !normalize.IsArticle(w) {
			out = append(out, w)
		}
	}
	return out
}

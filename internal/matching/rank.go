package matching

import (
	"slices"

	"github.com/listenupapp/mangamatch/internal/domain"
)

// RankCandidates scores every comparable candidate against query and returns
// the matches ordered by score, highest first. Candidates scoring
// domain.NoMatch are dropped. Equal scores keep their input order.
func (e *Engine) RankCandidates(query string, candidates []domain.TitleRecord) []domain.MatchResult {
	results := make([]domain.MatchResult, 0, len(candidates))
	for i := range candidates {
		if !candidates[i].Format.Comparable() {
			continue
		}
		record := candidates[i]
		score := e.CalculateMatchScore(&record, query)
		if score == domain.NoMatch {
			continue
		}
		results = append(results, domain.MatchResult{Score: score, Manga: &record})
	}

	slices.SortStableFunc(results, func(a, b domain.MatchResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})
	return results
}

// BestMatch returns the highest-ranked candidate, if any candidate matched.
func (e *Engine) BestMatch(query string, candidates []domain.TitleRecord) (domain.MatchResult, bool) {
	ranked := e.RankCandidates(query, candidates)
	if len(ranked) == 0 {
		return domain.MatchResult{Score: domain.NoMatch}, false
	}
	return ranked[0], true
}

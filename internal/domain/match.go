package domain

// NoMatch is the pipeline's "no usable match" score. It is distinct from a
// genuine zero score and must be checked before a score is used in arithmetic.
const NoMatch = -1.0

// NormalizedTitle is a candidate title prepared for comparison.
type NormalizedTitle struct {
	Text     string // canonical form from normalize.Normalize
	Source   string // romaji, english, native or synonym-N
	Original string // the title before normalization
}

// MatchResult pairs a score with the record it was computed for.
// Score is in [0,1] for pipeline results or NoMatch.
type MatchResult struct {
	Score float64      `json:"score"`
	Manga *TitleRecord `json:"manga,omitempty"`
}

// Matched reports whether the result carries a usable score.
func (m MatchResult) Matched() bool {
	return m.Score != NoMatch && m.Score >= 0
}

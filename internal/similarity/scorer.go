// Package similarity implements the pairwise title metrics and the weighted
// composite score built from them.
//
// A Scorer owns one bounded LRU per metric. All methods are safe for
// concurrent use, and every metric is symmetric: Scorer.X(a, b) and
// Scorer.X(b, a) return identical values.
package similarity

import (
	"math"
	"unicode/utf8"

	"github.com/listenupapp/mangamatch/internal/normalize"
	"github.com/listenupapp/mangamatch/internal/trace"
)

// Memo names reported by Stats.
const (
	MemoNormalized  = "normalized"
	MemoExact       = "exact"
	MemoSubstring   = "substring"
	MemoWordOrder   = "word_order"
	MemoCharacter   = "character"
	MemoSemantic    = "semantic"
	MemoJaroWinkler = "jaro_winkler"
	MemoNGram       = "ngram"
	MemoComposite   = "composite"
)

// Scorer computes memoized similarity scores.
type Scorer struct {
	normalized  *LRU[string]
	exact       *LRU[float64]
	substring   *LRU[float64]
	wordOrder   *LRU[float64]
	character   *LRU[float64]
	semantic    *LRU[float64]
	jaroWinkler *LRU[float64]
	ngram       *LRU[float64]
	composite   *LRU[float64]

	hook trace.Hook
}

// Option configures a Scorer.
type Option func(*scorerOptions)

type scorerOptions struct {
	cacheSize int
	hook      trace.Hook
}

// WithCacheSize bounds every memo map to n entries.
func WithCacheSize(n int) Option {
	return func(o *scorerOptions) {
		o.cacheSize = n
	}
}

// WithTraceHook installs a hook that receives debug-mode composite events.
func WithTraceHook(h trace.Hook) Option {
	return func(o *scorerOptions) {
		o.hook = h
	}
}

// NewScorer creates a Scorer with empty memo maps.
func NewScorer(opts ...Option) *Scorer {
	o := scorerOptions{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	return &Scorer{
		normalized:  NewLRU[string](o.cacheSize),
		exact:       NewLRU[float64](o.cacheSize),
		substring:   NewLRU[float64](o.cacheSize),
		wordOrder:   NewLRU[float64](o.cacheSize),
		character:   NewLRU[float64](o.cacheSize),
		semantic:    NewLRU[float64](o.cacheSize),
		jaroWinkler: NewLRU[float64](o.cacheSize),
		ngram:       NewLRU[float64](o.cacheSize),
		composite:   NewLRU[float64](o.cacheSize),
		hook:        o.hook,
	}
}

// Normalized returns normalize.Normalize(s), memoized.
func (s *Scorer) Normalized(text string) string {
	return s.normalized.GetOrCompute(text, func() string {
		return normalize.Normalize(text)
	})
}

// normalizedMetric runs fn over the canonical forms of a and b.
func (s *Scorer) normalizedMetric(memo *LRU[float64], a, b string, fn func(string, string) float64) float64 {
	na, nb := s.Normalized(a), s.Normalized(b)
	return memo.GetOrCompute(pairKey(na, nb), func() float64 {
		return fn(na, nb)
	})
}

// wordMetric runs fn over the meaningful words of a and b, keyed on the raw pair.
func (s *Scorer) wordMetric(memo *LRU[float64], a, b string, fn func([]string, []string) float64) float64 {
	return memo.GetOrCompute(pairKey(a, b), func() float64 {
		a, b := canonical(a, b)
		return fn(normalize.ExtractMeaningfulWords(a), normalize.ExtractMeaningfulWords(b))
	})
}

// Exact is 1 for equal canonical forms, min/max length when one contains
// the other, otherwise 0.
func (s *Scorer) Exact(a, b string) float64 {
	return s.normalizedMetric(s.exact, a, b, exactScore)
}

// Substring is the longest common substring over the longer canonical form.
func (s *Scorer) Substring(a, b string) float64 {
	return s.normalizedMetric(s.substring, a, b, substringScore)
}

// WordOrder is the Jaccard index of the meaningful word sets.
func (s *Scorer) WordOrder(a, b string) float64 {
	return s.wordMetric(s.wordOrder, a, b, wordOrderScore)
}

// Character averages bigram Dice and normalized Levenshtein similarity.
func (s *Scorer) Character(a, b string) float64 {
	return s.normalizedMetric(s.character, a, b, characterScore)
}

// Semantic scores word-level matches by equality, stem, Jaro-Winkler and Dice.
func (s *Scorer) Semantic(a, b string) float64 {
	return s.wordMetric(s.semantic, a, b, semanticScore)
}

// JaroWinkler is the Jaro-Winkler similarity of the canonical forms.
func (s *Scorer) JaroWinkler(a, b string) float64 {
	return s.normalizedMetric(s.jaroWinkler, a, b, jaroWinklerScore)
}

// TokenJaroWinkler compares two already-canonical tokens, such as an
// initialism and a compacted query, without normalizing them again.
func (s *Scorer) TokenJaroWinkler(a, b string) float64 {
	return s.jaroWinkler.GetOrCompute(pairKey(a, b, "token"), func() float64 {
		return jaroWinklerScore(a, b)
	})
}

// NGram is the character n-gram Jaccard index of the canonical forms.
func (s *Scorer) NGram(a, b string) float64 {
	return s.normalizedMetric(s.ngram, a, b, ngramScore)
}

// Components holds the seven metric values for a pair.
type Components struct {
	Exact       float64 `json:"exact"`
	Substring   float64 `json:"substring"`
	WordOrder   float64 `json:"word_order"`
	Character   float64 `json:"character"`
	Semantic    float64 `json:"semantic"`
	JaroWinkler float64 `json:"jaro_winkler"`
	NGram       float64 `json:"ngram"`
}

// Map returns the components keyed by memo name.
func (c Components) Map() map[string]float64 {
	return map[string]float64{
		MemoExact:       c.Exact,
		MemoSubstring:   c.Substring,
		MemoWordOrder:   c.WordOrder,
		MemoCharacter:   c.Character,
		MemoSemantic:    c.Semantic,
		MemoJaroWinkler: c.JaroWinkler,
		MemoNGram:       c.NGram,
	}
}

func (c Components) weighted(cfg Config) float64 {
	return c.Exact*cfg.ExactWeight +
		c.Substring*cfg.SubstringWeight +
		c.WordOrder*cfg.WordOrderWeight +
		c.Character*cfg.CharacterWeight +
		c.Semantic*cfg.SemanticWeight +
		c.JaroWinkler*cfg.JaroWinklerWeight +
		c.NGram*cfg.NGramWeight
}

// Breakdown computes all seven metrics for a pair.
func (s *Scorer) Breakdown(a, b string) Components {
	a, b = s.canonicalPair(a, b)
	return Components{
		Exact:       s.Exact(a, b),
		Substring:   s.Substring(a, b),
		WordOrder:   s.WordOrder(a, b),
		Character:   s.Character(a, b),
		Semantic:    s.Semantic(a, b),
		JaroWinkler: s.JaroWinkler(a, b),
		NGram:       s.NGram(a, b),
	}
}

// canonicalPair orders a raw pair by canonical form, then by raw text.
func (s *Scorer) canonicalPair(a, b string) (string, string) {
	na, nb := s.Normalized(a), s.Normalized(b)
	if nb < na || (na == nb && b < a) {
		return b, a
	}
	return a, b
}

// Explanation describes how a composite score was reached.
type Explanation struct {
	Score       float64    `json:"score"`
	LengthRatio float64    `json:"length_ratio"`
	Penalized   bool       `json:"penalized"`
	Components  Components `json:"components"`
}

// Enhanced returns the composite similarity of a and b in [0,100].
//
// Empty input scores 0 and equal input (raw or canonical) scores 100. When
// the shorter canonical form is less than LengthDifferenceThreshold of the
// longer, the metrics are skipped and round(100 * dice * ratio) is returned.
// Otherwise the weighted mean of the seven metrics is rounded and clamped.
func (s *Scorer) Enhanced(a, b string, cfg Config) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	a, b = s.canonicalPair(a, b)

	if cfg.Debug {
		exp := s.explain(a, b, cfg)
		ev := trace.Event{
			Stage:      trace.StageComposite,
			Query:      a,
			Title:      b,
			Score:      exp.Score,
			Components: exp.Components.Map(),
		}
		if exp.Penalized {
			ev.Stage = trace.StageLengthGuard
			ev.Components = map[string]float64{"length_ratio": exp.LengthRatio}
		}
		s.hook.Emit(ev)
		return exp.Score
	}

	// Word-level metrics see boundaries the canonical form has lost, so the
	// memo key is the raw pair.
	return s.composite.GetOrCompute(pairKey(a, b, cfg.Fingerprint()), func() float64 {
		return s.explain(a, b, cfg).Score
	})
}

// Explain is Enhanced without memoization, returning every intermediate value.
func (s *Scorer) Explain(a, b string, cfg Config) Explanation {
	if a == "" || b == "" {
		return Explanation{}
	}
	if a == b {
		return Explanation{Score: 100, LengthRatio: 1}
	}
	a, b = s.canonicalPair(a, b)
	return s.explain(a, b, cfg)
}

func (s *Scorer) explain(a, b string, cfg Config) Explanation {
	na, nb := s.Normalized(a), s.Normalized(b)
	if na == "" || nb == "" {
		return Explanation{}
	}
	if na == nb {
		return Explanation{Score: 100, LengthRatio: 1}
	}

	la, lb := utf8.RuneCountInString(na), utf8.RuneCountInString(nb)
	ratio := float64(min(la, lb)) / float64(max(la, lb))
	if ratio < cfg.LengthDifferenceThreshold {
		return Explanation{
			Score:       clampScore(math.Round(100 * Dice(na, nb) * ratio)),
			LengthRatio: ratio,
			Penalized:   true,
		}
	}

	components := s.Breakdown(a, b)
	exp := Explanation{LengthRatio: ratio, Components: components}

	total := cfg.TotalWeight()
	if !(total > 0) {
		return exp
	}
	exp.Score = clampScore(math.Round(100 * components.weighted(cfg) / total))
	return exp
}

func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// Stats returns the number of entries in each memo map.
func (s *Scorer) Stats() map[string]int {
	return map[string]int{
		MemoNormalized:  s.normalized.Len(),
		MemoExact:       s.exact.Len(),
		MemoSubstring:   s.substring.Len(),
		MemoWordOrder:   s.wordOrder.Len(),
		MemoCharacter:   s.character.Len(),
		MemoSemantic:    s.semantic.Len(),
		MemoJaroWinkler: s.jaroWinkler.Len(),
		MemoNGram:       s.ngram.Len(),
		MemoComposite:   s.composite.Len(),
	}
}

// Reset clears every memo map.
func (s *Scorer) Reset() {
	s.normalized.Clear()
	s.exact.Clear()
	s.substring.Clear()
	s.wordOrder.Clear()
	s.character.Clear()
	s.semantic.Clear()
	s.jaroWinkler.Clear()
	s.ngram.Clear()
	s.composite.Clear()
}

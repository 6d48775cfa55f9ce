// Package matching scores catalogue records against a free-text title.
//
// The pipeline is a short-circuiting cascade. Each stage returns as soon as it
// clears its own bar, and stage order is also priority order:
//
//  1. Direct match on canonical titles
//  2. Word matching (bag of words, composite similarity, meaningful-word
//     overlap, initialisms)
//  3. Legacy pattern checks over the raw titles
//
// Scores are in [0,1]. domain.NoMatch (-1) means nothing usable was found and
// must be checked before the value is used as a score.
package matching

import (
	"strings"

	"github.com/listenupapp/mangamatch/internal/domain"
	"github.com/listenupapp/mangamatch/internal/normalize"
	"github.com/listenupapp/mangamatch/internal/similarity"
	"github.com/listenupapp/mangamatch/internal/trace"
)

// Options toggles pipeline behavior per call.
type Options struct {
	// DisableEnhanced skips the meaningful-word overlap and initialism checks.
	// Kept for regression comparisons against the older pipeline.
	DisableEnhanced bool `toml:"disable_enhanced"`
}

// Engine runs the title match pipeline. It is safe for concurrent use.
type Engine struct {
	scorer  *similarity.Scorer
	config  similarity.Config
	options Options
	hook    trace.Hook
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithConfig sets the composite similarity weights.
func WithConfig(cfg similarity.Config) EngineOption {
	return func(e *Engine) {
		e.config = cfg
	}
}

// WithOptions sets the default options used by CalculateMatchScore.
func WithOptions(opts Options) EngineOption {
	return func(e *Engine) {
		e.options = opts
	}
}

// WithTraceHook installs a hook that receives one event per scoring stage.
func WithTraceHook(h trace.Hook) EngineOption {
	return func(e *Engine) {
		e.hook = h
	}
}

// NewEngine creates an engine around scorer. A nil scorer gets a fresh one.
func NewEngine(scorer *similarity.Scorer, opts ...EngineOption) *Engine {
	if scorer == nil {
		scorer = similarity.NewScorer()
	}
	e := &Engine{
		scorer: scorer,
		config: similarity.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the similarity configuration in use.
func (e *Engine) Config() similarity.Config {
	return e.config
}

// Scorer returns the underlying memoizing scorer.
func (e *Engine) Scorer() *similarity.Scorer {
	return e.scorer
}

// CalculateMatchScore scores candidate against query with the engine's
// default options.
func (e *Engine) CalculateMatchScore(candidate *domain.TitleRecord, query string) float64 {
	return e.Score(candidate, query, e.options)
}

// Score scores candidate against query. It returns the best score in [0,1],
// or domain.NoMatch for a blank query or when no stage scored above zero.
func (e *Engine) Score(candidate *domain.TitleRecord, query string, opts Options) float64 {
	if strings.TrimSpace(query) == "" || candidate == nil {
		return domain.NoMatch
	}

	titles := e.normalizedTitles(candidate)
	if len(titles) == 0 {
		return domain.NoMatch
	}

	q := newQuery(e.scorer, query)

	// 1. Direct match
	if score := e.directMatch(q, titles, candidate); score > 0 {
		return e.finish(query, score)
	}

	// 2. Word matching
	wordBest := e.wordMatch(q, titles, opts)
	if wordBest > wordMatchReturnBar {
		return e.finish(query, wordBest)
	}

	// 3. Legacy matching
	legacyBest := e.legacyMatch(q, titles)
	if legacyBest >= legacyReturnBar {
		return e.finish(query, legacyBest)
	}

	return e.finish(query, max(wordBest, legacyBest))
}

func (e *Engine) finish(query string, score float64) float64 {
	if !(score > 0) {
		score = domain.NoMatch
	}
	e.hook.Emit(trace.Event{Stage: trace.StageResult, Query: query, Score: score})
	return score
}

func (e *Engine) emit(stage string, q *query, title string, score float64) {
	if e.hook == nil {
		return
	}
	e.hook.Emit(trace.Event{Stage: stage, Query: q.raw, Title: title, Score: score})
}

// normalizedTitles prepares every non-blank title of the record.
func (e *Engine) normalizedTitles(r *domain.TitleRecord) []domain.NormalizedTitle {
	fields := r.TitleFields()
	out := make([]domain.NormalizedTitle, 0, len(fields))
	for _, f := range fields {
		out = append(out, domain.NormalizedTitle{
			Text:     e.scorer.Normalized(f.Value),
			Source:   f.Source,
			Original: f.Value,
		})
	}
	return out
}

// query holds the derived forms of the search string, computed once per call.
type query struct {
	raw        string
	normalized string
	words      []string
	tokens     []string
}

func newQuery(s *similarity.Scorer, raw string) *query {
	return &query{
		raw:        raw,
		normalized: s.Normalized(raw),
		words:      normalize.ExtractMeaningfulWords(raw),
		tokens:     normalize.Tokens(raw),
	}
}

// Package migrate matches a source reading list against the target
// catalogue: candidate lookup through the cache and a Source, ranking with the
// matching engine, and confidence grading.
package migrate

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/listenupapp/mangamatch/internal/candidatecache"
	"github.com/listenupapp/mangamatch/internal/domain"
	domainerrors "github.com/listenupapp/mangamatch/internal/errors"
	"github.com/listenupapp/mangamatch/internal/matching"
)

// Service migrates reading-list entries.
type Service struct {
	engine *matching.Engine
	cache  *candidatecache.Cache
	source Source
	logger *slog.Logger
	opts   Options
}

// NewService creates a migration service. cache may be nil.
func NewService(engine *matching.Engine, cache *candidatecache.Cache, source Source, logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultOptions()
	if opts.Workers < 1 {
		opts.Workers = defaults.Workers
	}
	if opts.MaxSuggestions < 0 {
		opts.MaxSuggestions = 0
	}
	return &Service{
		engine: engine,
		cache:  cache,
		source: source,
		logger: logger,
		opts:   opts,
	}
}

// Options returns the effective options.
func (s *Service) Options() Options {
	return s.opts
}

// Run matches every entry with at most Options.Workers in flight. Results
// are in input order. A Source failure is recorded on that entry's result
// and does not stop the run; cancelling ctx does, and returns ctx's error.
func (s *Service) Run(ctx context.Context, entries []Entry) ([]Result, error) {
	start := time.Now()
	s.logger.Info("starting migration", "entries", len(entries), "workers", s.opts.Workers)

	results := make([]Result, len(entries))
	var stored atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i := range entries {
		if gctx.Err() != nil {
			break
		}
		entry := entries[i]
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, wrote := s.match(gctx, entry)
			if wrote {
				stored.Add(1)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.cache != nil && stored.Load() > 0 {
		_ = s.cache.Persist(ctx)
	}

	summary := Summarize(results)
	s.logger.Info("migration complete",
		"entries", summary.Total,
		"definitive", summary.ByConfidence[ConfidenceDefinitive],
		"strong", summary.ByConfidence[ConfidenceStrong],
		"weak", summary.ByConfidence[ConfidenceWeak],
		"unmatched", summary.ByConfidence[ConfidenceNone],
		"failed", summary.Failed,
		"cache_hits", summary.CacheHits,
		"duration", time.Since(start),
	)
	return results, nil
}

// MatchEntry matches a single entry.
func (s *Service) MatchEntry(ctx context.Context, entry Entry) Result {
	r, wrote := s.match(ctx, entry)
	if wrote && s.cache != nil {
		_ = s.cache.Persist(ctx)
	}
	return r
}

// match reports whether the cache gained an entry.
func (s *Service) match(ctx context.Context, entry Entry) (Result, bool) {
	result := Result{Entry: entry, Score: domain.NoMatch}

	// 1. Candidate lookup: cache first, then the source
	candidates, cached, wrote, err := s.candidates(ctx, entry.Title)
	if err != nil {
		s.logger.Warn("candidate search failed", "entry", entry.ID, "title", entry.Title, "error", err)
		result.Error = err.Error()
		return result, false
	}
	result.Cached = cached
	result.Candidates = len(candidates)

	// 2. Rank
	ranked := s.engine.RankCandidates(entry.Title, candidates)
	if len(ranked) == 0 {
		s.logger.Debug("no match", "entry", entry.ID, "title", entry.Title, "candidates", len(candidates))
		return result, wrote
	}

	// 3. Grade the best candidate
	best := ranked[0]
	result.Score = best.Score
	result.Confidence = Grade(best.Score, s.opts.MinConfidence)
	if result.Confidence != ConfidenceNone {
		result.Match = best.Manga
		ranked = ranked[1:]
	}

	// 4. Suggestions for review
	result.Suggestions = suggestions(ranked, s.opts.MaxSuggestions)

	s.logger.Debug("matched entry",
		"entry", entry.ID,
		"title", entry.Title,
		"score", result.Score,
		"confidence", result.Confidence.String(),
	)
	return result, wrote
}

func (s *Service) candidates(ctx context.Context, title string) (records []domain.TitleRecord, cached, wrote bool, err error) {
	if s.cache != nil {
		if records, ok := s.cache.Lookup(title); ok {
			return records, true, false, nil
		}
	}
	if s.source == nil {
		return nil, false, false, nil
	}

	records, err = s.source.Search(ctx, title)
	if err != nil {
		return nil, false, false, domainerrors.SourceFailed("search " + title).WithCause(err)
	}
	records = domain.FilterComparable(records)

	if s.cache != nil && len(records) > 0 {
		// Each record is filed under its own titles, then the query key gets
		// the full result list at the same timestamp.
		ts := s.cache.Now()
		ingested := s.cache.Ingest(ctx, records, ts)
		wrote = s.cache.StoreAt(title, records, ts) || ingested > 0
	}
	return records, false, wrote, nil
}

func suggestions(ranked []domain.MatchResult, limit int) []Suggestion {
	n := min(len(ranked), limit)
	if n == 0 {
		return nil
	}
	out := make([]Suggestion, 0, n)
	for _, r := range ranked[:n] {
		out = append(out, Suggestion{ID: r.Manga.ID, Title: r.Manga.DisplayTitle(), Score: r.Score})
	}
	return out
}

// Package candidatecache remembers which catalogue records were returned for a
// title so repeated lookups skip the search layer.
//
// Entries are keyed by normalize.CacheKey, so near-duplicate titles share an
// entry. Writes are ordered by timestamp rather than call order, and entries
// older than the TTL are ignored by Lookup but kept until cleared.
package candidatecache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/listenupapp/mangamatch/internal/domain"
	domainerrors "github.com/listenupapp/mangamatch/internal/errors"
	"github.com/listenupapp/mangamatch/internal/normalize"
	"github.com/listenupapp/mangamatch/internal/store"
)

// DefaultTTL is how long an entry stays valid for lookups.
const DefaultTTL = 24 * time.Hour

// Cache is the in-memory candidate cache with an optional persisted backend.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry

	backend Backend
	logger  *slog.Logger
	ttl     time.Duration
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates an empty cache. A nil backend keeps the cache in memory only.
func New(backend Backend, logger *slog.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Cache{
		entries: make(map[string]Entry),
		backend: backend,
		logger:  logger,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the cache key for title.
func (c *Cache) Key(title string) string {
	return normalize.CacheKey(title)
}

// Lookup returns the candidates cached for title if the entry is still valid.
func (c *Cache) Lookup(title string) ([]domain.TitleRecord, bool) {
	key := c.Key(title)
	if key == "" {
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !c.IsValid(entry) {
		return nil, false
	}
	return slices.Clone(entry.Candidates), true
}

// Store caches candidates for title with the current time.
func (c *Cache) Store(title string, candidates []domain.TitleRecord) bool {
	return c.StoreAt(title, candidates, c.now().UnixMilli())
}

// StoreAt caches candidates for title with timestamp ts (unix ms). The write
// happens only if there is no entry or ts is not older than the existing one.
// It reports whether the entry was written.
func (c *Cache) StoreAt(title string, candidates []domain.TitleRecord, ts int64) bool {
	key := c.Key(title)
	if key == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storeLocked(key, candidates, ts)
}

func (c *Cache) storeLocked(key string, candidates []domain.TitleRecord, ts int64) bool {
	if existing, ok := c.entries[key]; ok && ts < existing.Timestamp {
		return false
	}
	c.entries[key] = Entry{Candidates: slices.Clone(candidates), Timestamp: ts}
	return true
}

// Now returns the cache clock in unix milliseconds, the timestamp Store uses.
func (c *Cache) Now() int64 {
	return c.now().UnixMilli()
}

// Entry returns the raw entry for title regardless of validity.
func (c *Cache) Entry(title string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[c.Key(title)]
	return e, ok
}

// IsValid reports whether e is within the TTL.
func (c *Cache) IsValid(e Entry) bool {
	return c.now().UnixMilli()-e.Timestamp <= c.ttl.Milliseconds()
}

// Len returns the number of entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns every cache key in sorted order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.mu.RUnlock()

	slices.Sort(keys)
	return keys
}

// Snapshot returns a copy of every entry.
func (c *Cache) Snapshot() MangaSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := make(MangaSnapshot, len(c.entries))
	for k, e := range c.entries {
		snap[k] = Entry{Candidates: slices.Clone(e.Candidates), Timestamp: e.Timestamp}
	}
	return snap
}

// Clear removes every entry and persists the empty cache.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]Entry)
	c.mu.Unlock()

	c.logger.Info("candidate cache cleared")
	_ = c.Persist(ctx)
}

// ClearResult reports the outcome of ClearTitles.
type ClearResult struct {
	ClearedCount int      `json:"cleared_count"`
	Remaining    int      `json:"remaining"`
	NotFound     []string `json:"not_found"`
}

// ClearTitles removes the entries for the given titles.
func (c *Cache) ClearTitles(ctx context.Context, titles []string) ClearResult {
	result := ClearResult{NotFound: []string{}}

	c.mu.Lock()
	for _, title := range titles {
		key := c.Key(title)
		if _, ok := c.entries[key]; !ok || key == "" {
			result.NotFound = append(result.NotFound, title)
			continue
		}
		delete(c.entries, key)
		result.ClearedCount++
	}
	result.Remaining = len(c.entries)
	c.mu.Unlock()

	if result.ClearedCount > 0 {
		c.logger.Info("cleared cached titles",
			"cleared", result.ClearedCount,
			"remaining", result.Remaining,
			"not_found", len(result.NotFound),
		)
		_ = c.Persist(ctx)
	}
	return result
}

// Ingest files search results under the key of every title each comparable
// record carries, with timestamp ts, then persists. Records sharing a key are
// grouped into one entry. It returns the number of entries written.
func (c *Cache) Ingest(ctx context.Context, candidates []domain.TitleRecord, ts int64) int {
	groups := make(map[string][]domain.TitleRecord)
	var order []string

	for _, r := range domain.FilterComparable(candidates) {
		seen := make(map[string]struct{})
		for _, f := range r.TitleFields() {
			key := c.Key(f.Value)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], r)
		}
	}

	written := 0
	c.mu.Lock()
	for _, key := range order {
		if c.storeLocked(key, groups[key], ts) {
			written++
		}
	}
	c.mu.Unlock()

	c.logger.Debug("ingested search results", "records", len(candidates), "keys", len(order), "written", written)
	if written > 0 {
		_ = c.Persist(ctx)
	}
	return written
}

// Merge folds a persisted snapshot into the cache entry by entry. Incoming
// keys are re-derived with normalize.CacheKey, since the search layer keys its
// blob by raw query text; when several collapse onto one key the latest
// entry wins. An incoming entry replaces an existing one only when strictly
// newer. Non-comparable
// records are dropped; an entry left empty by that is skipped.
func (c *Cache) Merge(snapshot MangaSnapshot) MergeStats {
	var stats MergeStats

	rekeyed, collapsed := rekey(snapshot)
	stats.Skipped += collapsed

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, incoming := range rekeyed {
		kept := domain.FilterComparable(incoming.Candidates)
		stats.Filtered += len(incoming.Candidates) - len(kept)
		if len(kept) == 0 {
			stats.Skipped++
			continue
		}

		existing, ok := c.entries[key]
		switch {
		case !ok:
			stats.Added++
		case incoming.Timestamp > existing.Timestamp:
			stats.Updated++
		default:
			stats.Skipped++
			continue
		}
		c.entries[key] = Entry{Candidates: kept, Timestamp: incoming.Timestamp}
	}
	return stats
}

// Sync merges both persisted blobs into the cache and writes the merged
// manga blob back. Missing, unreadable or malformed blobs are logged and
// treated as empty; the in-memory cache is never left half-merged.
func (c *Cache) Sync(ctx context.Context) MergeStats {
	var stats MergeStats
	if c.backend == nil {
		return stats
	}

	if data, ok := c.read(ctx, MangaCacheKey); ok {
		if snap, err := ParseMangaSnapshot(data); err != nil {
			c.logger.Warn("ignoring persisted cache", "key", MangaCacheKey, "error", err)
		} else {
			stats.Add(c.Merge(snap))
		}
	}

	if data, ok := c.read(ctx, SearchCacheKey); ok {
		if snap, err := ParseSearchSnapshot(data); err != nil {
			c.logger.Warn("ignoring persisted cache", "key", SearchCacheKey, "error", err)
		} else {
			stats.Add(c.Merge(snap.MangaSnapshot()))
		}
	}

	c.logger.Info("candidate cache synced",
		"added", stats.Added,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"filtered", stats.Filtered,
		"entries", c.Len(),
	)

	if stats.Added+stats.Updated > 0 {
		_ = c.Persist(ctx)
	}
	return stats
}

func (c *Cache) read(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.backend.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		c.logger.Debug("no persisted cache", "key", key)
		return nil, false
	}
	if err != nil {
		c.logger.Warn("failed to read persisted cache", "key", key, "error", err)
		return nil, false
	}
	return data, true
}

// Persist writes the manga blob. Failures are logged and returned; callers
// may ignore them.
func (c *Cache) Persist(ctx context.Context) error {
	if c.backend == nil {
		return nil
	}

	data, err := json.Marshal(c.Snapshot())
	if err != nil {
		c.logger.Error("failed to encode candidate cache", "error", err)
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "encode candidate cache")
	}
	if err := c.backend.Set(ctx, MangaCacheKey, data); err != nil {
		c.logger.Warn("failed to persist candidate cache", "error", err)
		return err
	}
	return nil
}

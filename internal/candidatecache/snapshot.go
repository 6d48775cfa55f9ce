package candidatecache

import (
	"encoding/json"

	"github.com/listenupapp/mangamatch/internal/domain"
	domainerrors "github.com/listenupapp/mangamatch/internal/errors"
	"github.com/listenupapp/mangamatch/internal/normalize"
)

// Blob names in the persisted store.
const (
	MangaCacheKey  = "manga_cache"
	SearchCacheKey = "search_cache"
)

// Entry is the cached candidate list for one key.
type Entry struct {
	Candidates []domain.TitleRecord `json:"manga"`
	Timestamp  int64                `json:"timestamp"` // unix milliseconds
}

// MangaSnapshot is the manga-cache blob: cache key to entry.
type MangaSnapshot map[string]Entry

// SearchSnapshot is the search-results blob written by the search layer.
type SearchSnapshot map[string]SearchEntry

// SearchEntry mirrors one cached search response.
type SearchEntry struct {
	Data struct {
		Page struct {
			Media []domain.TitleRecord `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

// MangaSnapshot converts the search results into manga-cache entries.
func (s SearchSnapshot) MangaSnapshot() MangaSnapshot {
	out := make(MangaSnapshot, len(s))
	for key, e := range s {
		out[key] = Entry{Candidates: e.Data.Page.Media, Timestamp: e.Timestamp}
	}
	return out
}

// rekey maps every snapshot key onto normalize.CacheKey. Keys that normalize
// to nothing are dropped. When keys collide the newer entry is kept; on a
// timestamp tie the one whose key was already canonical, then the lexically
// smaller original key, wins. collapsed counts the entries discarded.
func rekey(snapshot MangaSnapshot) (out MangaSnapshot, collapsed int) {
	out = make(MangaSnapshot, len(snapshot))
	origin := make(map[string]string, len(snapshot))

	for key, e := range snapshot {
		k := normalize.CacheKey(key)
		if k == "" {
			continue
		}
		prev, ok := out[k]
		if ok {
			collapsed++
			if !replaces(key, e.Timestamp, origin[k], prev.Timestamp, k) {
				continue
			}
		}
		out[k] = e
		origin[k] = key
	}
	return out, collapsed
}

func replaces(key string, ts int64, prevKey string, prevTS int64, canonical string) bool {
	if ts != prevTS {
		return ts > prevTS
	}
	if (key == canonical) != (prevKey == canonical) {
		return key == canonical
	}
	return key < prevKey
}

// MergeStats counts the outcome of a merge.
type MergeStats struct {
	Added    int `json:"added"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`  // existing entry was at least as new, or a colliding key lost
	Filtered int `json:"filtered"` // non-comparable records removed
}

// Add accumulates other into s.
func (s *MergeStats) Add(other MergeStats) {
	s.Added += other.Added
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.Filtered += other.Filtered
}

// ParseMangaSnapshot decodes a manga-cache blob.
func ParseMangaSnapshot(data []byte) (MangaSnapshot, error) {
	var snap MangaSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, domainerrors.CorruptData("malformed manga cache blob").WithCause(err)
	}
	return snap, nil
}

// ParseSearchSnapshot decodes a search-results blob.
func ParseSearchSnapshot(data []byte) (SearchSnapshot, error) {
	var snap SearchSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, domainerrors.CorruptData("malformed search cache blob").WithCause(err)
	}
	return snap, nil
}

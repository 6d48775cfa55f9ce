package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/mangamatch/internal/candidatecache"
	"github.com/listenupapp/mangamatch/internal/domain"
	domainerrors "github.com/listenupapp/mangamatch/internal/errors"
	"github.com/listenupapp/mangamatch/internal/store"
)

func seedStore(t *testing.T) []string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cache")

	db, err := store.New(path, nil)
	require.NoError(t, err)
	cache := candidatecache.New(db, nil)
	cache.Store("One Piece", []domain.TitleRecord{{ID: 30, Title: domain.Titles{Romaji: "One Piece"}}})
	cache.StoreAt("Naruto", []domain.TitleRecord{{ID: 20, Title: domain.Titles{Romaji: "Naruto"}}},
		time.Now().Add(-48*time.Hour).UnixMilli())
	require.NoError(t, cache.Persist(context.Background()))
	require.NoError(t, db.Set(context.Background(), candidatecache.SearchCacheKey, []byte(`{
		"Bleach": {"data": {"Page": {"media": [
			{"id": 40, "title": {"romaji": "Bleach"}, "format": "MANGA"}
		]}}, "timestamp": 1}
	}`)))
	require.NoError(t, db.Close())

	return []string{"-env-file", filepath.Join(t.TempDir(), "none.env"), "-log-level", "error", "-store-path", path}
}

func TestRun_List(t *testing.T) {
	args := seedStore(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), args, &out))

	assert.Contains(t, out.String(), "onepiece")
	assert.Contains(t, out.String(), "naruto")
	assert.Contains(t, out.String(), "true")
	assert.Contains(t, out.String(), "false", "the 48h old entry is past the TTL")
	assert.Contains(t, out.String(), "bleach", "search results are listed under their cache key")
	assert.Contains(t, out.String(), "Blobs: manga_cache, search_cache")
}

func TestRun_Clear(t *testing.T) {
	args := seedStore(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), append(args, "clear", "One Piece", "Berserk"), &out))
	assert.Contains(t, out.String(), "Cleared 1 entries, 2 remaining")
	assert.Contains(t, out.String(), "Not cached: Berserk")

	out.Reset()
	require.NoError(t, run(context.Background(), args, &out))
	assert.NotContains(t, out.String(), "onepiece")
	assert.Contains(t, out.String(), "naruto")
}

func TestRun_ClearAll(t *testing.T) {
	args := seedStore(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), append(args, "clear-all"), &out))
	assert.Contains(t, out.String(), "Cleared 3 entries")
	assert.Contains(t, out.String(), "Removed search_cache")

	out.Reset()
	require.NoError(t, run(context.Background(), args, &out))
	assert.NotContains(t, out.String(), "naruto")
	assert.NotContains(t, out.String(), "bleach")
	assert.Contains(t, out.String(), "Blobs: manga_cache\n")
}

func TestRun_BadCommand(t *testing.T) {
	args := seedStore(t)

	err := run(context.Background(), append(args, "prune"), &bytes.Buffer{})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	err = run(context.Background(), append(args, "clear"), &bytes.Buffer{})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestRun_StoreUnavailable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	// A regular file where the store directory should be.
	path := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.WriteFile(path, []byte("not a store"), 0o600))
	args := []string{"-env-file", filepath.Join(t.TempDir(), "none.env"), "-log-level", "error", "-store-path", path}

	for _, command := range [][]string{nil, {"clear-all"}} {
		err := run(context.Background(), append(args, command...), &bytes.Buffer{})
		require.Error(t, err)
		assert.True(t, domainerrors.Is(err, domainerrors.ErrStoreUnavailable))
	}
}

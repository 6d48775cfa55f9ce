package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/mangamatch/internal/domain"
)

func TestRankCandidates(t *testing.T) {
	e := NewEngine(nil)
	candidates := []domain.TitleRecord{
		{ID: 1, Title: domain.Titles{Romaji: "Naruto"}, Format: domain.FormatManga},
		{ID: 2, Title: domain.Titles{Romaji: "One Piece"}, Format: domain.FormatNovel},
		{ID: 3, Title: domain.Titles{Romaji: "One Piece: Party"}, Format: domain.FormatManga},
		{ID: 4, Title: domain.Titles{Romaji: "One Piece"}, Format: domain.FormatManga},
	}

	ranked := e.RankCandidates("One Piece", candidates)

	require.Len(t, ranked, 2)
	assert.Equal(t, 4, ranked[0].Manga.ID)
	assert.Equal(t, 1.0, ranked[0].Score)
	assert.Equal(t, 3, ranked[1].Manga.ID)
	assert.InDelta(t, 0.85, ranked[1].Score, 1e-9)
}

func TestRankCandidates_TiesKeepInputOrder(t *testing.T) {
	e := NewEngine(nil)
	candidates := []domain.TitleRecord{
		{ID: 10, Title: domain.Titles{English: "Berserk"}},
		{ID: 11, Title: domain.Titles{Romaji: "Berserk"}},
		{ID: 12, Title: domain.Titles{Native: "Berserk"}},
	}

	ranked := e.RankCandidates("berserk", candidates)

	require.Len(t, ranked, 3)
	assert.Equal(t, []int{10, 11, 12}, []int{ranked[0].Manga.ID, ranked[1].Manga.ID, ranked[2].Manga.ID})
}

func TestRankCandidates_DoesNotAliasInput(t *testing.T) {
	e := NewEngine(nil)
	candidates := []domain.TitleRecord{{ID: 1, Title: domain.Titles{Romaji: "Berserk"}}}

	ranked := e.RankCandidates("Berserk", candidates)
	require.Len(t, ranked, 1)
	ranked[0].Manga.ID = 99

	assert.Equal(t, 1, candidates[0].ID)
}

func TestBestMatch(t *testing.T) {
	e := NewEngine(nil)
	candidates := []domain.TitleRecord{
		{ID: 1, Title: domain.Titles{Romaji: "Naruto"}},
		{ID: 2, Title: domain.Titles{Romaji: "Attack on Titan"}},
	}

	best, ok := e.BestMatch("AoT", candidates)
	require.True(t, ok)
	assert.Equal(t, 2, best.Manga.ID)
	assert.True(t, best.Matched())

	none, ok := e.BestMatch("Bleach", candidates)
	assert.False(t, ok)
	assert.False(t, none.Matched())
}

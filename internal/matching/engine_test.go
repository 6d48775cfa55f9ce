package matching

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/mangamatch/internal/domain"
	"github.com/listenupapp/mangamatch/internal/trace"
)

func romaji(title string) *domain.TitleRecord {
	return &domain.TitleRecord{Title: domain.Titles{Romaji: title}, Format: domain.FormatManga}
}

func TestCalculateMatchScore_Scenarios(t *testing.T) {
	e := NewEngine(nil)

	t.Run("exact title", func(t *testing.T) {
		assert.Equal(t, 1.0, e.CalculateMatchScore(romaji("One Piece"), "One Piece"))
	})

	t.Run("initialism", func(t *testing.T) {
		var rec trace.Recorder
		traced := NewEngine(nil, WithTraceHook(rec.Hook()))

		score := traced.CalculateMatchScore(romaji("Attack on Titan"), "AoT")

		assert.GreaterOrEqual(t, score, 0.9)
		assert.Contains(t, rec.Stages(), trace.StageInitialism)
	})

	t.Run("unrelated titles", func(t *testing.T) {
		assert.Equal(t, domain.NoMatch, e.CalculateMatchScore(romaji("Naruto"), "Bleach"))
	})
}

func TestCalculateMatchScore_BlankQueryIsSentinel(t *testing.T) {
	e := NewEngine(nil)
	candidate := romaji("One Piece")

	assert.Equal(t, domain.NoMatch, e.CalculateMatchScore(candidate, ""))
	assert.Equal(t, domain.NoMatch, e.CalculateMatchScore(candidate, "   "))
	assert.Equal(t, domain.NoMatch, e.CalculateMatchScore(candidate, "\t\n"))
}

func TestCalculateMatchScore_AbsentTitles(t *testing.T) {
	e := NewEngine(nil)

	assert.Equal(t, domain.NoMatch, e.CalculateMatchScore(nil, "One Piece"))
	assert.Equal(t, domain.NoMatch, e.CalculateMatchScore(&domain.TitleRecord{ID: 1}, "One Piece"))
	assert.Equal(t, domain.NoMatch, e.CalculateMatchScore(&domain.TitleRecord{Synonyms: []string{" "}}, "One Piece"))
}

func TestDirectMatch(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		name      string
		candidate *domain.TitleRecord
		query     string
		expected  float64
	}{
		{
			name:      "canonical equality",
			candidate: romaji("Re:Zero"),
			query:     "rezero",
			expected:  1,
		},
		{
			name: "article-only difference",
			candidate: &domain.TitleRecord{Title: domain.Titles{
				Romaji:  "Yakusoku no Neverland",
				English: "The Promised Neverland",
			}},
			query:    "Promised Neverland",
			expected: 0.97,
		},
		{
			name:      "query inside title",
			candidate: romaji("One Piece: Party"),
			query:     "One Piece",
			expected:  0.85,
		},
		{
			name:      "title inside query",
			candidate: romaji("Berserk"),
			query:     "Berserk of Gluttony",
			expected:  0.8,
		},
		{
			name:      "synonym equality",
			candidate: &domain.TitleRecord{Title: domain.Titles{Romaji: "Shingeki no Kyojin"}, Synonyms: []string{"AoT", "Attack on Titan"}},
			query:     "attack on titan",
			expected:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, e.CalculateMatchScore(tt.candidate, tt.query), 1e-9)
		})
	}
}

func TestDirectMatch_ShortContainmentIgnored(t *testing.T) {
	var rec trace.Recorder
	e := NewEngine(nil, WithTraceHook(rec.Hook()))

	// "piece" is contained in the title but too short for a direct match.
	e.CalculateMatchScore(romaji("One Piece"), "Piece")

	assert.NotContains(t, rec.Stages(), trace.StageDirect)
}

func TestWordMatch_ReorderedTitle(t *testing.T) {
	e := NewEngine(nil)

	tests := []struct {
		title string
		query string
	}{
		{"Fullmetal Alchemist", "Alchemist Fullmetal"},
		{"One Piece", "Piece One"},
		{"Kaguya sama Love is War", "Love is War Kaguya sama"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var rec trace.Recorder
			traced := NewEngine(nil, WithTraceHook(rec.Hook()))

			score := e.CalculateMatchScore(romaji(tt.title), tt.query)

			// The bag-of-words hit alone caps at 0.9; token overlap lifts
			// reordered titles into the definitive range.
			assert.GreaterOrEqual(t, score, 0.95)
			traced.CalculateMatchScore(romaji(tt.title), tt.query)
			assert.Contains(t, rec.Stages(), trace.StageWordMatch)
			assert.Contains(t, rec.Stages(), trace.StageOverlap)
		})
	}
}

func TestWordMatch_TwoWordSwapScore(t *testing.T) {
	e := NewEngine(nil)

	// coverage 1, jaccard 1, order 0.6: 0.8 + (0.94-0.6)*0.5
	score := e.CalculateMatchScore(romaji("Fullmetal Alchemist"), "Alchemist Fullmetal")

	assert.InDelta(t, 0.97, score, 1e-9)
}

func TestInitialism_Fuzzy(t *testing.T) {
	e := NewEngine(nil)

	score := e.CalculateMatchScore(romaji("Attack on Titan"), "AoTT")

	assert.Greater(t, score, 0.85)
	assert.Less(t, score, 0.9)
}

func TestDisableEnhanced(t *testing.T) {
	e := NewEngine(nil)
	candidate := romaji("Attack on Titan")

	assert.GreaterOrEqual(t, e.Score(candidate, "AoT", Options{}), 0.9)
	assert.Equal(t, domain.NoMatch, e.Score(candidate, "AoT", Options{DisableEnhanced: true}))

	legacy := NewEngine(nil, WithOptions(Options{DisableEnhanced: true}))
	assert.Equal(t, domain.NoMatch, legacy.CalculateMatchScore(candidate, "AoT"))
}

func TestTraceHook_Stages(t *testing.T) {
	var rec trace.Recorder
	e := NewEngine(nil, WithTraceHook(rec.Hook()))

	e.CalculateMatchScore(romaji("One Piece"), "One Piece")

	assert.Equal(t, []string{trace.StageDirect, trace.StageResult}, rec.Stages())
	assert.Equal(t, 1.0, rec.Events[1].Score)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := NewEngine(nil)
	candidates := []*domain.TitleRecord{
		romaji("One Piece"), romaji("Attack on Titan"), romaji("Naruto"), romaji("Fullmetal Alchemist"),
	}
	queries := []string{"One Piece", "AoT", "Bleach", "Alchemist Fullmetal"}

	want := make([]float64, len(queries))
	for i := range queries {
		want[i] = NewEngine(nil).CalculateMatchScore(candidates[i], queries[i])
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queries {
				assert.Equal(t, want[i], e.CalculateMatchScore(candidates[i], queries[i]))
			}
		}()
	}
	wg.Wait()
}

func TestCalculateMatchScore_Bounded(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 9))
	e := NewEngine(nil)
	words := []string{"one", "piece", "attack", "on", "titan", "no", "the", "season", "2", "II",
		"進撃", "巨人", "pokémon", "re:zero", "vol. 3", "[raw]", "ＡＢＣ", "-", "!!", "  "}

	phrase := func() string {
		n := r.IntN(5)
		out := ""
		for i := range n {
			if i > 0 {
				out += " "
			}
			out += words[r.IntN(len(words))]
		}
		return out
	}

	for range 1000 {
		candidate := &domain.TitleRecord{
			Title:    domain.Titles{Romaji: phrase(), English: phrase(), Native: phrase()},
			Synonyms: []string{phrase()},
		}
		query := phrase()

		score := e.CalculateMatchScore(candidate, query)
		if score == domain.NoMatch {
			continue
		}
		require.GreaterOrEqual(t, score, 0.0, "query %q", query)
		require.LessOrEqual(t, score, 1.0, "query %q", query)
	}
}

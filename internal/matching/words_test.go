package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBagOfWordsScore(t *testing.T) {
	tests := []struct {
		name     string
		query    []string
		title    []string
		expected float64
	}{
		{"all words", []string{"alchemist", "fullmetal"}, []string{"fullmetal", "alchemist"}, 0.9},
		{"prefix half point", []string{"shingeki", "kyojin"}, []string{"shingeki", "kyojinn"}, 0.75},
		{"single word divisor", []string{"naruto"}, []string{"naruto", "shippuden"}, 0},
		{"short prefix ignored", []string{"aot"}, []string{"attack", "on", "titan"}, 0},
		{"empty", nil, []string{"naruto"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, bagOfWordsScore(tt.query, tt.title), 1e-9)
		})
	}
}

func TestBagOfWordsScore_TitleWordUsedOnce(t *testing.T) {
	// Two query words cannot both claim the single "one" in the title.
	assert.Zero(t, bagOfWordsScore([]string{"one", "one"}, []string{"one", "piece"}))
}

func TestOverlapScore(t *testing.T) {
	score := overlapScore(
		[]string{"attack", "on", "titan"},
		[]string{"attack", "on", "titan", "season", "2"},
	)
	assert.InDelta(t, 0.945, score, 1e-9)
}

func TestOverlapScore_RejectsUncoveredTitle(t *testing.T) {
	score := overlapScore(
		[]string{"attack", "on", "titan"},
		[]string{"attack", "on", "titan", "junior", "high", "school"},
	)
	assert.Zero(t, score)
}

func TestOverlapScore_StemMatches(t *testing.T) {
	score := overlapScore([]string{"running", "man"}, []string{"run", "man"})
	assert.Greater(t, score, 0.9)
}

func TestInitialism(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Attack on Titan", "aot"},
		{"Fullmetal Alchemist", "fa"},
		{"My Hero Academia Season 2", "mha2"},
		{"The Promised Neverland", "pn"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Initialism(tt.input))
		})
	}
}

func TestInitialismScore_Guards(t *testing.T) {
	e := NewEngine(nil)

	// Multi-word queries are never initialisms.
	assert.Zero(t, e.initialismScore(newQuery(e.scorer, "a o t"), []string{"attack", "on", "titan"}))
	// A single-word title has no meaningful initialism.
	assert.Zero(t, e.initialismScore(newQuery(e.scorer, "N"), []string{"naruto"}))
	// Compacted query too long.
	assert.Zero(t, e.initialismScore(newQuery(e.scorer, "abcdefghijk"), []string{"attack", "on", "titan"}))

	assert.InDelta(t, 0.92, e.initialismScore(newQuery(e.scorer, "A.o.T."), []string{"attack", "on", "titan"}), 1e-9)
}

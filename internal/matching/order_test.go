package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordOrderSimilarity(t *testing.T) {
	swapped := WordOrderSimilarity([]string{"one", "piece"}, []string{"piece", "one"})
	assert.Greater(t, swapped, 0.0)
	assert.Less(t, swapped, 1.0)
	assert.InDelta(t, 0.6, swapped, 1e-9)

	assert.InDelta(t, 1.0, WordOrderSimilarity([]string{"one", "piece"}, []string{"one", "piece"}), 1e-9)
	assert.Equal(t, 1.0, WordOrderSimilarity(nil, nil))
	assert.Zero(t, WordOrderSimilarity([]string{"one"}, nil))
	assert.Zero(t, WordOrderSimilarity([]string{"naruto"}, []string{"bleach"}))
}

func TestLongestCommonSubsequence(t *testing.T) {
	tests := []struct {
		a, b     []string
		expected int
	}{
		{[]string{"a", "b", "c", "d"}, []string{"a", "c", "d"}, 3},
		{[]string{"one", "piece"}, []string{"piece", "one"}, 1},
		{[]string{"x"}, []string{"a", "b", "x", "c"}, 1},
		{nil, []string{"a"}, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, LongestCommonSubsequence(tt.a, tt.b), "%v vs %v", tt.a, tt.b)
		assert.Equal(t, tt.expected, LongestCommonSubsequence(tt.b, tt.a), "%v vs %v", tt.b, tt.a)
	}
}

func TestIsWordOrderProximate(t *testing.T) {
	tests := []struct {
		name     string
		query    []string
		title    []string
		expected bool
	}{
		{"same order with gap", []string{"attack", "titan"}, []string{"attack", "on", "titan"}, true},
		{"swapped but adjacent", []string{"piece", "one"}, []string{"one", "piece"}, true},
		{"swapped and apart", []string{"titan", "attack"}, []string{"attack", "on", "titan"}, false},
		{"missing word", []string{"attack", "giant"}, []string{"attack", "on", "titan"}, false},
		{"single word", []string{"titan"}, []string{"attack", "on", "titan"}, true},
		{"empty query", nil, []string{"titan"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsWordOrderProximate(tt.query, tt.title))
		})
	}
}

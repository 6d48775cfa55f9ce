package matching

import "slices"

// Word order similarity weights.
const (
	orderLCSWeight       = 0.5
	orderProximityWeight = 0.3
	orderCoverageWeight  = 0.2

	// Share of consecutive query-word pairs that must be adjacent in the title.
	adjacentPairShare = 0.5
)

// WordOrderSimilarity compares two word sequences:
//
//	0.5*lcsRatio + 0.3*positionProximity + 0.2*coverage
//
// lcsRatio is the longest common subsequence over the longer length.
// Position proximity gives each word of a full credit at the same index in b
// and 1 - distance/maxLen when it is present elsewhere. Coverage is the share
// of a's words present in b.
func WordOrderSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	maxLen := float64(max(len(a), len(b)))
	lcsRatio := float64(LongestCommonSubsequence(a, b)) / maxLen

	proximity := 0.0
	present := 0
	for i, w := range a {
		j := slices.Index(b, w)
		if j < 0 {
			continue
		}
		present++
		if i == j {
			proximity++
		} else {
			proximity += 1 - float64(abs(i-j))/maxLen
		}
	}
	proximity /= float64(len(a))
	coverage := float64(present) / float64(len(a))

	return orderLCSWeight*lcsRatio + orderProximityWeight*proximity + orderCoverageWeight*coverage
}

// LongestCommonSubsequence returns the LCS length of two word sequences using
// two rows sized by the shorter sequence.
func LongestCommonSubsequence(a, b []string) int {
	if len(b) > len(a) {
		a, b = b, a
	}
	if len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// IsWordOrderProximate reports whether every query word appears in the title
// and either keeps the title's relative order or at least half of the
// consecutive query pairs sit next to each other in the title.
func IsWordOrderProximate(query, title []string) bool {
	if len(query) == 0 {
		return false
	}

	positions := make([]int, len(query))
	for i, w := range query {
		j := slices.Index(title, w)
		if j < 0 {
			return false
		}
		positions[i] = j
	}
	if len(query) == 1 {
		return true
	}

	if inOrder(positions) {
		return true
	}

	adjacent := 0
	for i := 0; i+1 < len(positions); i++ {
		if abs(positions[i+1]-positions[i]) == 1 {
			adjacent++
		}
	}
	return float64(adjacent)/float64(len(positions)-1) >= adjacentPairShare
}

func inOrder(positions []int) bool {
	for i := 1; i < len(positions); i++ {
		if positions[i] <= positions[i-1] {
			return false
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package migrate

import (
	"fmt"

	"github.com/listenupapp/mangamatch/internal/domain"
)

// Confidence grades how certain a match is.
// Higher confidence = auto-migrate. Lower confidence = user review.
type Confidence int

const (
	// ConfidenceNone means no candidate cleared the minimum confidence.
	ConfidenceNone Confidence = iota

	// ConfidenceWeak means the match needs review.
	// Example: a fuzzy word-overlap match on a long title.
	ConfidenceWeak

	// ConfidenceStrong means the match is likely correct.
	ConfidenceStrong

	// ConfidenceDefinitive means the match is certain.
	// Example: an exact or decoration-only title match.
	ConfidenceDefinitive
)

// Score floors for each grade. Weak uses Options.MinConfidence.
const (
	DefinitiveScore = 0.95
	StrongScore     = 0.85
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceNone:
		return "none"
	case ConfidenceWeak:
		return "weak"
	case ConfidenceStrong:
		return "strong"
	case ConfidenceDefinitive:
		return "definitive"
	default:
		return "unknown"
	}
}

// MarshalText encodes the grade by name.
func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a grade name written by MarshalText.
func (c *Confidence) UnmarshalText(b []byte) error {
	for _, v := range []Confidence{ConfidenceNone, ConfidenceWeak, ConfidenceStrong, ConfidenceDefinitive} {
		if v.String() == string(b) {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown confidence %q", b)
}

// ShouldAutoMigrate returns true if this confidence level can be migrated
// without review.
func (c Confidence) ShouldAutoMigrate() bool {
	return c >= ConfidenceStrong
}

// Grade maps a pipeline score onto a confidence level.
func Grade(score, minConfidence float64) Confidence {
	switch {
	case score >= DefinitiveScore:
		return ConfidenceDefinitive
	case score >= StrongScore:
		return ConfidenceStrong
	case score >= minConfidence && score >= 0:
		return ConfidenceWeak
	default:
		return ConfidenceNone
	}
}

// Entry is one title from the user's source reading list.
type Entry struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title" validate:"required"`
	Status   string `json:"status,omitempty"`
	Progress int    `json:"progress,omitempty" validate:"gte=0"`
}

// Suggestion is a ranked alternative for an entry.
type Suggestion struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// Result is the outcome of matching one entry.
type Result struct {
	Entry       Entry               `json:"entry"`
	Match       *domain.TitleRecord `json:"match,omitempty"` // nil below minimum confidence
	Score       float64             `json:"score"`
	Confidence  Confidence          `json:"confidence"`
	Suggestions []Suggestion        `json:"suggestions,omitempty"`
	Candidates  int                 `json:"candidates"`
	Cached      bool                `json:"cached"`
	Error       string              `json:"error,omitempty"`
}

// Summary counts results by outcome.
type Summary struct {
	Total        int                `json:"total"`
	ByConfidence map[Confidence]int `json:"by_confidence"`
	Failed       int                `json:"failed"`
	CacheHits    int                `json:"cache_hits"`
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results), ByConfidence: make(map[Confidence]int)}
	for i := range results {
		r := &results[i]
		if r.Error != "" {
			s.Failed++
			continue
		}
		s.ByConfidence[r.Confidence]++
		if r.Cached {
			s.CacheHits++
		}
	}
	return s
}

// Options configures a Service.
type Options struct {
	// Workers bounds how many entries are scored at once.
	// Default: 4
	Workers int `validate:"gte=1"`

	// MinConfidence is the lowest score reported as a match.
	// Default: 0.7
	MinConfidence float64 `validate:"gte=0,lte=1"`

	// MaxSuggestions caps the alternatives listed per entry.
	// Default: 5
	MaxSuggestions int `validate:"gte=0"`
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Workers:        4,
		MinConfidence:  0.7,
		MaxSuggestions: 5,
	}
}

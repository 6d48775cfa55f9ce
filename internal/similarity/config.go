package similarity

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Config weights the seven metrics of the composite score.
// Weights need not sum to 1; the scorer divides by their total.
type Config struct {
	ExactWeight       float64 `toml:"exact" validate:"gte=0"`
	SubstringWeight   float64 `toml:"substring" validate:"gte=0"`
	WordOrderWeight   float64 `toml:"word_order" validate:"gte=0"`
	CharacterWeight   float64 `toml:"character" validate:"gte=0"`
	SemanticWeight    float64 `toml:"semantic" validate:"gte=0"`
	JaroWinklerWeight float64 `toml:"jaro_winkler" validate:"gte=0"`
	NGramWeight       float64 `toml:"ngram" validate:"gte=0"`

	// Below this min/max normalized length ratio the metrics are skipped and
	// a penalized Dice score is returned instead.
	LengthDifferenceThreshold float64 `toml:"length_difference_threshold" validate:"gte=0,lte=1"`

	// Debug disables composite memoization and emits a trace event per call.
	Debug bool `toml:"debug"`
}

// DefaultConfig returns the seven-weight configuration the engine ships with.
func DefaultConfig() Config {
	return Config{
		ExactWeight:               0.35,
		SubstringWeight:           0.12,
		WordOrderWeight:           0.08,
		CharacterWeight:           0.18,
		SemanticWeight:            0.10,
		JaroWinklerWeight:         0.10,
		NGramWeight:               0.07,
		LengthDifferenceThreshold: 0.70,
	}
}

// TotalWeight returns the sum of the seven weights.
func (c Config) TotalWeight() float64 {
	return c.ExactWeight + c.SubstringWeight + c.WordOrderWeight + c.CharacterWeight +
		c.SemanticWeight + c.JaroWinklerWeight + c.NGramWeight
}

// Fingerprint identifies the scoring-relevant fields of c.
// Debug is excluded because it does not change scores.
func (c Config) Fingerprint() string {
	fields := []float64{
		c.ExactWeight, c.SubstringWeight, c.WordOrderWeight, c.CharacterWeight,
		c.SemanticWeight, c.JaroWinklerWeight, c.NGramWeight, c.LengthDifferenceThreshold,
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatUint(xxhash.Sum64String(strings.Join(parts, "|")), 16)
}

// Overrides is a partial Config. Nil fields keep the base value.
type Overrides struct {
	Exact                     *float64 `toml:"exact" validate:"omitnil,gte=0"`
	Substring                 *float64 `toml:"substring" validate:"omitnil,gte=0"`
	WordOrder                 *float64 `toml:"word_order" validate:"omitnil,gte=0"`
	Character                 *float64 `toml:"character" validate:"omitnil,gte=0"`
	Semantic                  *float64 `toml:"semantic" validate:"omitnil,gte=0"`
	JaroWinkler               *float64 `toml:"jaro_winkler" validate:"omitnil,gte=0"`
	NGram                     *float64 `toml:"ngram" validate:"omitnil,gte=0"`
	LengthDifferenceThreshold *float64 `toml:"length_difference_threshold" validate:"omitnil,gte=0,lte=1"`
	Debug                     *bool    `toml:"debug"`
}

// Apply returns base with every non-nil override applied.
func (o Overrides) Apply(base Config) Config {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&base.ExactWeight, o.Exact)
	set(&base.SubstringWeight, o.Substring)
	set(&base.WordOrderWeight, o.WordOrder)
	set(&base.CharacterWeight, o.Character)
	set(&base.SemanticWeight, o.Semantic)
	set(&base.JaroWinklerWeight, o.JaroWinkler)
	set(&base.NGramWeight, o.NGram)
	set(&base.LengthDifferenceThreshold, o.LengthDifferenceThreshold)
	if o.Debug != nil {
		base.Debug = *o.Debug
	}
	return base
}

// IsZero reports whether no field is overridden.
func (o Overrides) IsZero() bool {
	return o == Overrides{}
}

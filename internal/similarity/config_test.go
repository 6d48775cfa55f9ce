package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.InDelta(t, 1.0, cfg.TotalWeight(), 1e-9)
	assert.InDelta(t, 0.70, cfg.LengthDifferenceThreshold, 1e-9)
	assert.False(t, cfg.Debug)
}

func TestFingerprint(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Debug = true
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "debug does not affect scores")

	b.ExactWeight = 0.5
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestOverrides_Apply(t *testing.T) {
	exact := 0.5
	threshold := 0.6
	debug := true

	cfg := Overrides{Exact: &exact, LengthDifferenceThreshold: &threshold, Debug: &debug}.Apply(DefaultConfig())

	assert.InDelta(t, 0.5, cfg.ExactWeight, 1e-9)
	assert.InDelta(t, 0.6, cfg.LengthDifferenceThreshold, 1e-9)
	assert.True(t, cfg.Debug)
	// Untouched fields keep the defaults.
	assert.InDelta(t, 0.12, cfg.SubstringWeight, 1e-9)
	assert.InDelta(t, 0.07, cfg.NGramWeight, 1e-9)
}

func TestOverrides_ZeroIsAllowed(t *testing.T) {
	zero := 0.0
	cfg := Overrides{Semantic: &zero}.Apply(DefaultConfig())
	assert.Zero(t, cfg.SemanticWeight)
}

func TestOverrides_IsZero(t *testing.T) {
	assert.True(t, Overrides{}.IsZero())
	v := 1.0
	assert.False(t, Overrides{NGram: &v}.IsZero())
}

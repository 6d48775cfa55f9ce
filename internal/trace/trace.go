// Package trace carries structured scoring events out of the matching engine.
//
// Scoring code never logs. It hands an Event to a Hook if the caller installed
// one; a nil Hook is valid and makes Emit a no-op.
package trace

// Stage names used by the engine.
const (
	StageComposite   = "composite"
	StageDirect      = "direct"
	StageWordMatch   = "word-match"
	StageEnhanced    = "enhanced"
	StageOverlap     = "overlap"
	StageInitialism  = "initialism"
	StageLegacy      = "legacy"
	StageLengthGuard = "length-guard"
	StageResult      = "result"
)

// Event describes one scoring decision.
type Event struct {
	Stage      string
	Query      string
	Title      string
	Score      float64
	Components map[string]float64
}

// Hook receives events. Implementations must be safe for concurrent use when
// the engine is shared between goroutines.
type Hook func(Event)

// Emit sends e to h. Safe on a nil hook.
func (h Hook) Emit(e Event) {
	if h == nil {
		return
	}
	h(e)
}

// Recorder collects events in memory. Intended for tests and debug tooling.
type Recorder struct {
	Events []Event
}

// Hook returns a hook appending to r. Not safe for concurrent use.
func (r *Recorder) Hook() Hook {
	return func(e Event) {
		r.Events = append(r.Events, e)
	}
}

// Stages returns the stage names recorded so far, in order.
func (r *Recorder) Stages() []string {
	out := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Stage)
	}
	return out
}

package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/listenupapp/mangamatch/internal/config"
	"github.com/listenupapp/mangamatch/internal/logger"
	"github.com/listenupapp/mangamatch/internal/matching"
	"github.com/listenupapp/mangamatch/internal/similarity"
	"github.com/listenupapp/mangamatch/internal/trace"
)

// traceLevel is the level scoring trace events are written at.
const traceLevel = slog.LevelDebug

// TraceHook is the scoring trace sink; nil when tracing is off.
type TraceHook struct {
	trace.Hook
}

// ProvideTraceHook provides the scoring trace hook.
func ProvideTraceHook(i do.Injector) (*TraceHook, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Logger.Trace && !cfg.Similarity.Debug {
		return &TraceHook{}, nil
	}
	return &TraceHook{Hook: log.TraceHook(traceLevel)}, nil
}

// ProvideScorer provides the memoized similarity scorer.
func ProvideScorer(i do.Injector) (*similarity.Scorer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	hook := do.MustInvoke[*TraceHook](i)

	opts := []similarity.Option{similarity.WithTraceHook(hook.Hook)}
	if cfg.Matching.MemoSize > 0 {
		opts = append(opts, similarity.WithCacheSize(cfg.Matching.MemoSize))
	}
	return similarity.NewScorer(opts...), nil
}

// ProvideEngine provides the title match pipeline.
func ProvideEngine(i do.Injector) (*matching.Engine, error) {
	cfg := do.MustInvoke[*config.Config](i)
	scorer := do.MustInvoke[*similarity.Scorer](i)
	hook := do.MustInvoke[*TraceHook](i)

	return matching.NewEngine(scorer,
		matching.WithConfig(cfg.Similarity),
		matching.WithOptions(matching.Options{DisableEnhanced: cfg.Matching.DisableEnhanced}),
		matching.WithTraceHook(hook.Hook),
	), nil
}

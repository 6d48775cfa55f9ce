package logger

import (
	"context"
	"log/slog"
	"slices"

	"github.com/listenupapp/mangamatch/internal/trace"
)

// TraceHook returns a hook that writes scoring events as log records at
// level. It returns nil when level is disabled, so callers skip the event
// allocations entirely.
func (l *Logger) TraceHook(level slog.Level) trace.Hook {
	if !l.Enabled(context.Background(), level) {
		return nil
	}
	log := l.With(slog.String("component", "scoring"))
	return func(e trace.Event) {
		attrs := make([]slog.Attr, 0, 4+len(e.Components))
		attrs = append(attrs,
			slog.String("stage", e.Stage),
			slog.String("query", e.Query),
		)
		if e.Title != "" {
			attrs = append(attrs, slog.String("title", e.Title))
		}
		attrs = append(attrs, slog.Float64("score", e.Score))

		names := make([]string, 0, len(e.Components))
		for name := range e.Components {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			attrs = append(attrs, slog.Float64(name, e.Components[name]))
		}

		log.LogAttrs(context.Background(), level, "score trace", attrs...)
	}
}

package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/mangamatch/internal/trace"
)

func TestNew_CustomWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})
	logger.Info("test message")

	assert.Contains(t, buf.String(), "test message")
	assert.Contains(t, buf.String(), `"level":"INFO"`)
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{"production uses json", "production", true},
		{"development uses pretty", "development", false},
		{"unset uses pretty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf})
			logger.Info("test")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"test"`)
			} else {
				assert.Contains(t, buf.String(), "INF")
				assert.NotContains(t, buf.String(), `"msg"`)
			}
		})
	}
}

func TestNew_ExplicitFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Environment: "development", Writer: &buf})
	logger.Info("test")

	assert.Contains(t, buf.String(), `"msg":"test"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DeBuG", slog.LevelDebug},
		{"trace", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	handler := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	logger.Info("matched entry", "title", "Attack on Titan", "id", 42, "score", 0.8333333)

	output := buf.String()
	assert.Contains(t, output, "matched entry")
	assert.Contains(t, output, `title="Attack on Titan"`)
	assert.Contains(t, output, "id=42")
	assert.Contains(t, output, "score=0.8333")
	assert.Contains(t, output, "INF")
}

func TestPrettyHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.Equal(t, handler, handler.WithGroup(""))

	logger := slog.New(handler).With("service", "cache").WithGroup("merge")
	logger.Info("synced", "added", 2, slog.Group("stats", "skipped", 1))

	output := buf.String()
	assert.Contains(t, output, "service=cache")
	assert.Contains(t, output, "merge.added=2")
	assert.Contains(t, output, "merge.stats.skipped=1")
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true}))
	logger.Info("test message")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestFormatValue(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		value slog.Value
		want  string
	}{
		{"string", slog.StringValue("naruto"), "naruto"},
		{"string with space", slog.StringValue("one piece"), `"one piece"`},
		{"empty string", slog.StringValue(""), `""`},
		{"time", slog.TimeValue(now), now.Format(time.RFC3339)},
		{"duration", slog.DurationValue(5 * time.Second), "5s"},
		{"int", slog.IntValue(42), "42"},
		{"float", slog.Float64Value(1), "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.value))
		})
	}
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.WithError(errors.New("badger closed")).Info("persist failed")
	assert.Contains(t, buf.String(), `"error":"badger closed"`)

	assert.Same(t, logger, logger.WithError(nil))
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.WithComponent("candidatecache").Info("loaded")
	assert.Contains(t, buf.String(), `"component":"candidatecache"`)
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}

func TestTraceHook(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: "json", Writer: &buf})

	hook := logger.TraceHook(slog.LevelDebug)
	require.NotNil(t, hook)

	hook.Emit(trace.Event{
		Stage:      trace.StageComposite,
		Query:      "AoT",
		Title:      "Attack on Titan",
		Score:      0.42,
		Components: map[string]float64{"exact": 0, "jaro_winkler": 0.5},
	})

	output := buf.String()
	assert.Contains(t, output, `"msg":"score trace"`)
	assert.Contains(t, output, `"stage":"`+trace.StageComposite+`"`)
	assert.Contains(t, output, `"title":"Attack on Titan"`)
	assert.Contains(t, output, `"jaro_winkler":0.5`)
	assert.Contains(t, output, `"component":"scoring"`)
}

func TestTraceHook_DisabledLevel(t *testing.T) {
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &bytes.Buffer{}})
	assert.Nil(t, logger.TraceHook(slog.LevelDebug))
}

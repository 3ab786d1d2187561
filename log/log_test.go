package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.config.level != LevelInfo {
		t.Errorf("expected default level Info, got %v", logger.config.level)
	}
	if logger.config.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.config.format != FormatJSON {
		t.Errorf("expected default format JSON, got %v", logger.config.format)
	}
}

func TestLogger_LogMethods_RespectLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"error at debug", Logger.Error, LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithLevel(tt.minLevel), WithPretty(false))
			tt.logFunc(logger, "test message")

			if hasOutput := buf.Len() > 0; hasOutput != tt.logged {
				t.Errorf("expected logged=%v, got output %q", tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_Make_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}
		if result["msg"] != "test message" || result["key"] != "value" {
			t.Errorf("unexpected entry %v", result)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		if !strings.Contains(buf.String(), "key=value") {
			t.Errorf("key=value not found in %q", buf.String())
		}
	})
}

func TestLogger_Trace_RendersLevelName(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer
		logger := Make(&buf,
			WithLevel(LevelTrace),
			WithFormat(FormatText),
			WithPretty(pretty))

		logger.Trace("parse start")

		if !strings.Contains(buf.String(), "TRACE") {
			t.Errorf("pretty=%v: expected TRACE level in %q", pretty, buf.String())
		}
		if strings.Contains(buf.String(), "DEBUG-4") {
			t.Errorf("pretty=%v: raw slog level leaked: %q", pretty, buf.String())
		}
	}
}

func TestLogger_Pretty_KeepsWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatText), WithPretty(true))

	logger.With(slog.String("unit", "main")).Info("run")

	if !strings.Contains(buf.String(), "unit") ||
		!strings.Contains(buf.String(), "main") {
		t.Errorf("expected With attribute in pretty output, got %q", buf.String())
	}
}

type valuer struct{}

func (valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("error", "boom"), slog.Int("line", 3))
}

func TestLogger_Pretty_ResolvesLogValuer(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithFormat(FormatJSON), WithPretty(true))

	logger.Error("failed", slog.Any("err", valuer{}))

	out := buf.String()
	for _, want := range []string{`"err.error"`, `"boom"`, `"err.line"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %q", want, out)
		}
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithPretty(false))

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("concurrent message", slog.Int("id", id))
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("expected 100 log lines, got %d", len(lines))
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var l Logger

	l.Trace("test")
	l.Info("test")
	l.Error("test", slog.Any("error", errors.New("x")))

	if l2 := l.With(slog.String("key", "value")); l2.Logger != nil {
		t.Error("expected nil logger from zero value With")
	}
}

func TestLogger_EdgeCases_NoTime(t *testing.T) {
	var buf bytes.Buffer
	l := Make(&buf, WithTimeLayout("none"), WithPretty(false))
	l.Info("test")

	if strings.Contains(buf.String(), `"time"`) {
		t.Errorf("expected no time field, got: %s", buf.String())
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LevelInfo + 1, "info+1"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}

		if tt.level.String() == tt.want && tt.want != "info+1" {
			if got := ParseLevel(tt.want); got != tt.level {
				t.Errorf("ParseLevel(%q) = %v", tt.want, got)
			}
		}
	}

	if got := FormatText.String(); got != "text" {
		t.Errorf("FormatText.String() = %q", got)
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer
	logger := Make(&buf)

	for i := 0; b.Loop(); i++ {
		logger.Info("benchmark message", slog.Int("iteration", i))
	}
}

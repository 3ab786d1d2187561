package log

import (
	"bytes"
	"io"
	"testing"
	"time"
)

func TestConfig_Options(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		name  string
		opt   Option
		check func(config) bool
	}{
		{"trace level", WithLevel(LevelTrace), func(c config) bool { return c.level == LevelTrace }},
		{"error level", WithLevel(LevelError), func(c config) bool { return c.level == LevelError }},
		{"text format", WithFormat(FormatText), func(c config) bool { return c.format == FormatText }},
		{"json format", WithFormat(FormatJSON), func(c config) bool { return c.format == FormatJSON }},
		{"caller", WithCaller(true), func(c config) bool { return c.caller }},
		{"plain", WithPretty(false), func(c config) bool { return !c.pretty }},
		{"output", WithOutput(&buf), func(c config) bool { return c.output == &buf }},
		{"nil output", WithOutput(nil), func(c config) bool { return c.output == io.Discard }},
		{"defaults", WithDefaults(nil), func(c config) bool {
			return c.level == DefaultLevel && c.format == DefaultFormat &&
				c.pretty == DefaultPretty && c.output == io.Discard
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if c := tt.opt(config{}); !tt.check(c) {
				t.Errorf("option not applied: %+v", c)
			}
		})
	}
}

func TestConfig_Clone_Independent(t *testing.T) {
	base := makeConfig(io.Discard, WithLevel(LevelWarn))
	derived := base.clone(WithLevel(LevelTrace))

	if base.level != LevelWarn || derived.level != LevelTrace {
		t.Errorf("levels = %v, %v; want warn, trace", base.level, derived.level)
	}

	if base.mutex == derived.mutex {
		t.Error("clone shares the original lock")
	}
}

func TestConfig_TimeLayout(t *testing.T) {
	when := time.Date(2026, 3, 7, 9, 5, 2, 250_000_000, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2026-03-07T09:05:02Z"},
		{"rfc-3339", "2026-03-07T09:05:02Z"},
		{"RFC3339Nano", "2026-03-07T09:05:02.25Z"},
		{"ms", "Mar  7 09:05:02.250"},
		{"Kitchen", "9:05AM"},
		{"15:04", "09:05"},
		{"none", ""},
		{"", ""},
		{" \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})

			if got := c.formatTime(when); got != tt.want {
				t.Errorf("formatTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	levels := map[string]Level{
		"trace":   LevelTrace,
		"TRACE":   LevelTrace,
		"debug":   LevelDebug,
		"warn":    LevelWarn,
		"debug+4": LevelInfo,
		"bogus":   DefaultLevel,
	}

	for s, want := range levels {
		if got := ParseLevel(s); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", s, got, want)
		}
	}

	formats := map[string]Format{
		"json":   FormatJSON,
		" Text ": FormatText,
		"yaml":   DefaultFormat,
	}

	for s, want := range formats {
		if got := ParseFormat(s); got != want {
			t.Errorf("ParseFormat(%q) = %v, want %v", s, got, want)
		}
	}
}

func BenchmarkConfig_formatTime(b *testing.B) {
	for _, layout := range []string{"RFC3339", "RFC3339Nano", "ms"} {
		b.Run(layout, func(b *testing.B) {
			c := WithTimeLayout(layout)(config{})
			now := time.Now()

			for b.Loop() {
				_ = c.formatTime(now)
			}
		})
	}
}

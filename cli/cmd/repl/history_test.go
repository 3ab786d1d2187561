package repl

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ardnew/ajscript/log"
)

func testLogger() log.Logger { return log.Make(io.Discard) }

func TestHistoryAdd(t *testing.T) {
	tests := []struct {
		name string
		add  []HistoryEntry
		want []HistoryEntry
	}{
		{
			name: "appends in order",
			add:  []HistoryEntry{{"1 + 2", modeEval}, {"list", modeCtrl}},
			want: []HistoryEntry{{"1 + 2", modeEval}, {"list", modeCtrl}},
		},
		{
			name: "skips blank lines",
			add:  []HistoryEntry{{"  ", modeEval}, {"x", modeEval}},
			want: []HistoryEntry{{"x", modeEval}},
		},
		{
			name: "moves duplicate to end",
			add:  []HistoryEntry{{"a", modeEval}, {"b", modeEval}, {"a", modeEval}},
			want: []HistoryEntry{{"b", modeEval}, {"a", modeEval}},
		},
		{
			name: "mode distinguishes entries",
			add:  []HistoryEntry{{"help", modeEval}, {"help", modeCtrl}},
			want: []HistoryEntry{{"help", modeEval}, {"help", modeCtrl}},
		},
		{
			name: "trims whitespace",
			add:  []HistoryEntry{{" x ", modeEval}, {"x", modeEval}},
			want: []HistoryEntry{{"x", modeEval}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), baseHistory)
			h := NewHistory(path)

			for _, e := range tt.add {
				if err := h.Add(e.Line, e.Mode); err != nil {
					t.Fatalf("Add(%q) error = %v", e.Line, err)
				}
			}

			if got := h.Entries(); !slices.Equal(got, tt.want) {
				t.Errorf("Entries() = %v, want %v", got, tt.want)
			}

			reloaded := NewHistory(path)
			if err := reloaded.Load(); err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if got := reloaded.Entries(); !slices.Equal(got, tt.want) {
				t.Errorf("reloaded Entries() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistoryLoad(t *testing.T) {
	dir := t.TempDir()

	missing := NewHistory(filepath.Join(dir, "missing"))
	if err := missing.Load(); err != nil {
		t.Fatalf("Load() of missing file error = %v", err)
	}

	if missing.Len() != 0 {
		t.Errorf("Len() = %d, want 0", missing.Len())
	}

	path := filepath.Join(dir, baseHistory)
	if err := os.WriteFile(path, []byte("E:a\n\nC:quit\nlegacy\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(path)
	if err := h.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []HistoryEntry{{"a", modeEval}, {"quit", modeCtrl}, {"legacy", modeEval}}
	if got := h.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestHistoryEntry(t *testing.T) {
	h := NewHistory("")

	if err := h.Add("first", modeEval); err != nil {
		t.Fatal(err)
	}

	e, err := h.Entry(0)
	if err != nil {
		t.Fatalf("Entry(0) error = %v", err)
	}

	if e.Line != "first" || e.Mode != modeEval {
		t.Errorf("Entry(0) = %v, want {first eval}", e)
	}

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}

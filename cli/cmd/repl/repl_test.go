package repl

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/ajscript/lang"
)

func newTestModel(t *testing.T, src string) (model, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	session, err := lang.NewSession(t.Context(), lang.WithOutput(&out))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if src != "" {
		if _, err := session.Exec(t.Context(), src); err != nil {
			t.Fatalf("Exec(%q) error = %v", src, err)
		}
	}

	return newModel(t.Context(), session, &out, NewHistory(""), testLogger()), &out
}

func submit(m model, input string) model {
	m.input.SetValue(input)
	m, _ = m.executeInput()

	return m
}

func TestExecuteInputEval(t *testing.T) {
	m, out := newTestModel(t, "")

	m = submit(m, "var x = 20")
	m = submit(m, "x = x + 1")
	m = submit(m, "writeln(x)")

	v, ok := m.session.Value("x")
	if !ok || v != 21 {
		t.Errorf("Value(x) = %v, %v, want 21, true", v, ok)
	}

	if m.history.Len() != 3 {
		t.Errorf("history.Len() = %d, want 3", m.history.Len())
	}

	if m.lastSource != "writeln(x)" {
		t.Errorf("lastSource = %q, want %q", m.lastSource, "writeln(x)")
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q, want empty", m.input.Value())
	}

	// Output is drained when the result is reported.
	if out.Len() != 0 {
		t.Errorf("output not drained: %q", out.String())
	}
}

func TestExecuteInputError(t *testing.T) {
	m, _ := newTestModel(t, "var x = 1;")

	m = submit(m, "var = 3")
	m = submit(m, "x = x + 1")

	v, _ := m.session.Value("x")
	if v != 2 {
		t.Errorf("Value(x) = %v, want 2", v)
	}
}

func TestExecuteCommand(t *testing.T) {
	m, _ := newTestModel(t, "var a = [1, 2, 3]; var b = 'two';")
	m, _ = m.switchToMode(modeCtrl)

	listing := m.listVariables()
	for _, want := range []string{"a", "[1, 2, 3]", "b", `"two"`} {
		if !strings.Contains(listing, want) {
			t.Errorf("listVariables() = %q, missing %q", listing, want)
		}
	}

	m = submit(m, "quit")
	if !m.quitting {
		t.Error("quit did not set quitting")
	}

	e, err := m.history.Entry(0)
	if err != nil || e.Mode != modeCtrl {
		t.Errorf("Entry(0) = %v, %v, want ctrl entry", e, err)
	}
}

func TestSwitchToModePreservesInput(t *testing.T) {
	m, _ := newTestModel(t, "")

	m.input.SetValue("1 + ")
	m, _ = m.toggleMode()

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("after toggle: mode = %v, input = %q", m.mode, m.input.Value())
	}

	m.input.SetValue("he")
	m, _ = m.toggleMode()

	if m.mode != modeEval || m.input.Value() != "1 + " {
		t.Errorf("after toggle back: mode = %v, input = %q", m.mode, m.input.Value())
	}

	if m.ctrlText != "he" {
		t.Errorf("ctrlText = %q, want %q", m.ctrlText, "he")
	}
}

func TestHistoryStep(t *testing.T) {
	m, _ := newTestModel(t, "")

	for _, e := range []HistoryEntry{{"1", modeEval}, {"list", modeCtrl}, {"2", modeEval}} {
		if err := m.history.Add(e.Line, e.Mode); err != nil {
			t.Fatal(err)
		}
	}

	m.historyIdx = m.history.Len()

	m, _ = m.historyStep(-1, false)
	if m.input.Value() != "2" || m.mode != modeEval {
		t.Errorf("step 1: input = %q, mode = %v", m.input.Value(), m.mode)
	}

	m, _ = m.historyStep(-1, false)
	if m.input.Value() != "list" || m.mode != modeCtrl {
		t.Errorf("step 2: input = %q, mode = %v", m.input.Value(), m.mode)
	}

	m, _ = m.switchToMode(modeEval)
	m.historyIdx = m.history.Len()

	m, _ = m.historyStep(-1, true)
	m, _ = m.historyStep(-1, true)

	if m.input.Value() != "1" || m.mode != modeEval {
		t.Errorf("same-mode step: input = %q, mode = %v", m.input.Value(), m.mode)
	}

	m, _ = m.historyStep(1, true)
	m, _ = m.historyStep(1, true)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("past newest: input = %q, idx = %d", m.input.Value(), m.historyIdx)
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line string
	}{
		{"syntax", "var x = ;", "var x = ;"},
		{"lexical", "var x = 1;\nx # 2;", "x # 2;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lang.ParseString(t.Context(), tt.src)
			if err == nil {
				t.Fatal("ParseString() error = nil, want error")
			}

			if !isSyntaxError(err) {
				t.Errorf("isSyntaxError(%v) = false, want true", err)
			}

			got := describeError(err)
			if !strings.HasPrefix(got, err.Error()) || !strings.Contains(got, tt.line) {
				t.Errorf("describeError() = %q, want error followed by %q", got, tt.line)
			}

			if !strings.Contains(got, "^") {
				t.Errorf("describeError() = %q, want caret", got)
			}
		})
	}

	plain := errors.New("boom")
	if got := describeError(plain); got != "boom" {
		t.Errorf("describeError(%v) = %q, want %q", plain, got, "boom")
	}

	if isSyntaxError(plain) {
		t.Errorf("isSyntaxError(%v) = true, want false", plain)
	}
}

package repl

import (
	"slices"
	"testing"

	"github.com/ardnew/ajscript/lang"
)

func newTestSession(t *testing.T, src string) *lang.Session {
	t.Helper()

	session, err := lang.NewSession(t.Context())
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	if src != "" {
		if _, err := session.Exec(t.Context(), src); err != nil {
			t.Fatalf("Exec(%q) error = %v", src, err)
		}
	}

	return session
}

func TestWordBounds_ExprOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"dot_separated", "bar.baz", 7, "baz", 4, 7},
		{"after_plus", "a + fo", 6, "fo", 4, 6},
		{"after_paren", "double(fo", 9, "fo", 7, 9},
		{"after_comma", "add(a, fo", 9, "fo", 7, 9},
		{"after_comparison", "a > fo", 6, "fo", 4, 6},
		{"empty_at_boundary", "a + ", 4, "", 4, 4},
		{"mid_word", "foobar", 3, "foobar", 0, 6},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"between_operators", "a+b", 2, "b", 2, 3},
		{"after_minus", "n-co", 4, "co", 2, 4},
		{"after_brace", "{x: fo", 6, "fo", 4, 6},
		{"inside_string", "'ab", 3, "ab", 1, 3},
		{"identifier_chars", "$my_var", 7, "$my_var", 0, 7},
		{"cursor_past_end", "foo", 10, "foo", 0, 3},
		// After dot is an empty word (for triggering child completions).
		{"empty_after_dot", "host.", 5, "", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestParentPath_WithOperators(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		want      string
	}{
		{"top_level", "fo", 0, ""},
		{"simple_chain", "bar.baz.", 8, "bar.baz"},
		{"after_operator", "foo + bar.baz.", 14, "bar.baz"},
		{"after_paren", "(bar.baz.", 9, "bar.baz"},
		{"no_chain", "a + ", 4, ""},
		{"deep_chain", "a.b.c.", 6, "a.b.c"},
		{"after_equals", "x = a.b.", 8, "a.b"},
		{"after_minus", "n-host.path.", 12, "host.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parentPath(tt.input, tt.wordStart)
			if got != tt.want {
				t.Errorf("parentPath(%q, %d) = %q, want %q",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestChildCandidates(t *testing.T) {
	session := newTestSession(t, "var point = {x: 1, y: 2}; var n = 3;")

	tests := []struct {
		name    string
		parent  string
		want    []string
		notWant []string
	}{
		{
			name:   "top_level",
			parent: "",
			want:   []string{"point", "n", "writeln", "host", "var", "function"},
		},
		{
			name:    "object_members",
			parent:  "point",
			want:    []string{"x", "y"},
			notWant: []string{"point", "var"},
		},
		{
			name:   "host_members",
			parent: "host.path",
			want:   []string{"abs", "cat", "rel"},
		},
		{
			name:    "scalar_parent",
			parent:  "n",
			notWant: []string{"n"},
		},
		{
			name:    "unknown_parent",
			parent:  "missing.member",
			notWant: []string{"missing"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := childCandidates(session, tt.parent)

			for _, w := range tt.want {
				if !slices.Contains(got, w) {
					t.Errorf("childCandidates(%q) = %v, missing %q", tt.parent, got, w)
				}
			}

			for _, w := range tt.notWant {
				if slices.Contains(got, w) {
					t.Errorf("childCandidates(%q) = %v, unexpected %q", tt.parent, got, w)
				}
			}
		})
	}
}

func TestCallable(t *testing.T) {
	session := newTestSession(t, "function twice(v) { return v * 2; } var data = {f: twice, v: 1};")

	tests := []struct {
		parent string
		name   string
		want   bool
	}{
		{"", "twice", true},
		{"", "writeln", true},
		{"", "data", false},
		{"data", "f", true},
		{"data", "v", false},
		{"host.path", "cat", true},
		{"", "missing", false},
	}

	for _, tt := range tests {
		t.Run(tt.parent+"."+tt.name, func(t *testing.T) {
			if got := callable(session, tt.parent, tt.name); got != tt.want {
				t.Errorf("callable(%q, %q) = %v, want %v", tt.parent, tt.name, got, tt.want)
			}
		})
	}
}

func TestComputeMatches(t *testing.T) {
	session := newTestSession(t, "var counter = 0; var config = {level: 'info', limit: 3};")

	tests := []struct {
		name       string
		mode       inputMode
		input      string
		wantFirst  string
		wantParent string
		wantNone   bool
	}{
		{name: "empty_top_level", input: "", wantNone: true},
		{name: "variable_prefix", input: "coun", wantFirst: "counter"},
		{name: "member_prefix", input: "config.lev", wantFirst: "level", wantParent: "config"},
		{name: "all_members_after_dot", input: "config.", wantFirst: "level", wantParent: "config"},
		{name: "ctrl_command", mode: modeCtrl, input: "he", wantFirst: "help"},
		{name: "ctrl_argument", mode: modeCtrl, input: "load con", wantNone: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t.Context(), session, nil, NewHistory(""), testLogger())
			m.mode = tt.mode
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, parent, _, _ := m.computeMatches()

			if tt.wantNone {
				if len(matches) != 0 {
					t.Errorf("computeMatches(%q) = %d matches, want none", tt.input, len(matches))
				}

				return
			}

			if len(matches) == 0 {
				t.Fatalf("computeMatches(%q) returned no matches", tt.input)
			}

			if parent != tt.wantParent {
				t.Errorf("computeMatches(%q) parent = %q, want %q", tt.input, parent, tt.wantParent)
			}

			var found bool
			for _, match := range matches {
				found = found || match.Str == tt.wantFirst
			}

			if !found {
				t.Errorf("computeMatches(%q) does not include %q", tt.input, tt.wantFirst)
			}
		})
	}
}

func TestFormatPreview(t *testing.T) {
	session := newTestSession(t, "var s = 'abcdefghijklmnopqrstuvwxyz'; var n = 42;")

	tests := []struct {
		name  string
		width int
		want  string
	}{
		{"n", 10, "42"},
		{"s", 10, `"abcdef...`},
		{"s", 2, `"abcdefghijklmnopqrstuvwxyz"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := session.Value(tt.name)
			if got := formatPreview(v, tt.width); got != tt.want {
				t.Errorf("formatPreview(%s, %d) = %q, want %q", tt.name, tt.width, got, tt.want)
			}
		})
	}
}

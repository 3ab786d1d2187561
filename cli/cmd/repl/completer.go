package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/lang/token"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "load", "edit", "clear", "quit"}

// isWordBoundary returns true if the rune is a word delimiter for completion
// purposes: whitespace, the member-access dot, quotes, and operator or
// punctuation characters.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']', '{', '}',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!',
		'&', '|', ',', ':', ';',
		'"', '\'':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// between dots, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the dot-separated member chain leading up to the word
// starting at wordStart. For input "x + host.path.ca" with the word "ca",
// the parent path is "host.path". Returns "" for top-level words.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimSuffix(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.Trim(prefix[pos:], ".")
}

// resolvePath returns the value reached by following the dot-separated
// path from a session variable or global name.
func resolvePath(session *lang.Session, path string) (runtime.Value, bool) {
	segments := strings.Split(path, ".")

	v, ok := session.Value(segments[0])
	if !ok {
		return nil, false
	}

	for _, seg := range segments[1:] {
		obj, ok := v.(runtime.Object)
		if !ok {
			return nil, false
		}

		if v = obj.GetValue(seg); v == runtime.Undefined {
			return nil, false
		}
	}

	return v, true
}

// childCandidates returns the names that complete a word under parent. The
// top level offers session variables, global names and keywords; a member
// chain offers the property names of the object it resolves to.
func childCandidates(session *lang.Session, parent string) []string {
	if parent == "" {
		return append(session.Names(), token.Keywords()...)
	}

	v, ok := resolvePath(session, parent)
	if !ok {
		return nil
	}

	obj, ok := v.(runtime.Object)
	if !ok {
		return nil
	}

	return obj.GetNames()
}

// callable reports whether name under parent resolves to a function.
func callable(session *lang.Session, parent, name string) bool {
	if session == nil {
		return false
	}

	path := name
	if parent != "" {
		path = parent + "." + name
	}

	v, ok := resolvePath(session, path)
	if !ok {
		return false
	}

	_, ok = v.(runtime.Callable)

	return ok
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the parent path of the word,
// and the word boundaries. When the current word is empty at the top level,
// it returns nil matches. When the word is empty after a dot, it returns
// all members as matches.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	parent string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, wordStart, wordEnd := wordBounds(input, cursor)

	var candidates []string

	if m.mode == modeCtrl {
		if word == "" || strings.ContainsRune(input[:wordStart], ' ') {
			return nil, "", wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent = parentPath(input, wordStart)
		candidates = childCandidates(m.session, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, parent, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, parent, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, parent, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), parent, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing)
// uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected, isFunc(match.Str))
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted. Functions are displayed with a "()" suffix.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if function {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// formatPreview returns a one-line preview of a value, cut to width runes.
func formatPreview(v runtime.Value, width int) string {
	s := lang.FormatResult(v)
	if width < 4 || utf8.RuneCountInString(s) <= width {
		return s
	}

	r := []rune(s)

	return string(r[:width-3]) + "..."
}

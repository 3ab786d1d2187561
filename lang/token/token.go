// Package token defines the lexical vocabulary shared by the lexer and the
// parser.
package token

import (
	"slices"
	"strconv"
	"strings"
)

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota
	Name
	Keyword
	Integer
	Real
	String
	Boolean
	Operator
	Separator
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "end of input"
	case Name:
		return "name"
	case Keyword:
		return "keyword"
	case Integer:
		return "integer"
	case Real:
		return "real"
	case String:
		return "string"
	case Boolean:
		return "boolean"
	case Operator:
		return "operator"
	case Separator:
		return "separator"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Position locates a token in its source. Line and Column are 1-based;
// Offset is a 0-based byte offset.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether p refers to a location in a source.
func (p Position) IsValid() bool { return p.Line > 0 }

// Snippet returns the line of source holding p with a caret under its
// column, or an empty string when p is outside source.
func (p Position) Snippet(source string) string {
	lines := strings.Split(source, "\n")
	if p.Line <= 0 || p.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	num := strconv.Itoa(p.Line)

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(lines[p.Line-1])
	sb.WriteRune('\n')

	// 2 leading spaces + " | "
	padding := strings.Repeat(" ", len(num)+5)
	if p.Column > 0 {
		padding += strings.Repeat(" ", p.Column-1)
	}

	sb.WriteString(padding)
	sb.WriteString("^\n")

	return sb.String()
}

// Token is a classified lexeme. Value holds the decoded text: string
// literals are unquoted, other kinds carry their source spelling.
type Token struct {
	Kind  Kind
	Value string
	Pos   Position
}

// Is reports whether t has kind k and, when values are given, one of them.
func (t Token) Is(k Kind, values ...string) bool {
	if t.Kind != k {
		return false
	}

	return len(values) == 0 || slices.Contains(values, t.Value)
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return t.Kind.String()
	case String:
		return strconv.Quote(t.Value)
	default:
		return strconv.Quote(t.Value) + " (" + t.Kind.String() + ")"
	}
}

// keywords lists the reserved words of the language in sorted order.
//
//nolint:gochecknoglobals
var keywords = []string{
	"break", "continue", "else", "for", "function", "if", "in", "new",
	"null", "return", "this", "undefined", "var", "while",
}

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, found := slices.BinarySearch(keywords, s)

	return found
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string { return slices.Clone(keywords) }

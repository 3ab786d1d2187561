package parser

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/ajscript/lang/token"
	"github.com/ardnew/ajscript/pkg"
)

// Syntax errors. A failed parse returns an [*Error] that matches one of
// these with [errors.Is]. Lexical errors are returned unchanged as
// [*lexer.Error].
var (
	ErrUnexpectedToken   = pkg.NewError("unexpected token")
	ErrInvalidAssignment = pkg.NewError("invalid assignment target")
	ErrUndefinedVariable = pkg.NewError("assignment to undefined variable")
	ErrInvalidLiteral    = pkg.NewError("invalid literal")
)

// Error locates a syntax error in its source.
type Error struct {
	Err      *pkg.Error
	Pos      token.Position
	Found    string
	Expected []string
	Source   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString("parse error at line ")
	sb.WriteString(strconv.Itoa(e.Pos.Line))
	sb.WriteString(", column ")
	sb.WriteString(strconv.Itoa(e.Pos.Column))
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())

	if e.Found != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Found)
	}

	if exp := e.expected(); len(exp) > 0 {
		sb.WriteString(" (expected ")
		sb.WriteString(strings.Join(exp, ", "))
		sb.WriteString(")")
	}

	return sb.String()
}

// Unwrap returns the sentinel-derived cause.
func (e *Error) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Err.Error()),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
	}

	if e.Found != "" {
		attrs = append(attrs, slog.String("found", e.Found))
	}

	if exp := e.expected(); len(exp) > 0 {
		attrs = append(attrs, slog.String("expected", strings.Join(exp, ", ")))
	}

	return slog.GroupValue(append(attrs, e.Err.Attrs()...)...)
}

// Snippet returns the offending source line with a caret under the error
// column, or an empty string when the position is outside the source.
func (e *Error) Snippet() string { return e.Pos.Snippet(e.Source) }

func (e *Error) expected() []string {
	exp := make([]string, 0, len(e.Expected))
	for _, s := range e.Expected {
		exp = append(exp, strconv.Quote(s))
	}

	slices.Sort(exp)

	return slices.Compact(exp)
}

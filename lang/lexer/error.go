package lexer

import (
	"log/slog"
	"strconv"

	"github.com/ardnew/ajscript/lang/token"
	"github.com/ardnew/ajscript/pkg"
)

// Error locates a lexical error in its source.
type Error struct {
	Err    *pkg.Error
	Pos    token.Position
	Source string
}

func (e *Error) Error() string {
	return "lexical error at line " + strconv.Itoa(e.Pos.Line) +
		", column " + strconv.Itoa(e.Pos.Column) + ": " + e.Err.Error()
}

// Unwrap returns the sentinel-derived cause.
func (e *Error) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	return slog.GroupValue(append([]slog.Attr{
		slog.String("error", e.Err.Error()),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
	}, e.Err.Attrs()...)...)
}

// Snippet returns the offending source line with a caret under the error
// column.
func (e *Error) Snippet() string { return e.Pos.Snippet(e.Source) }

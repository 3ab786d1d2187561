package eval

import (
	"errors"
	"log/slog"

	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/lang/token"
	"github.com/ardnew/ajscript/pkg"
)

// ErrControlFlow reports a break or continue that escaped every loop.
var ErrControlFlow = pkg.NewError("break or continue outside of a loop")

// Error locates an evaluation fault at the innermost node that raised it.
type Error struct {
	Err error
	Pos token.Position
}

func (e *Error) Error() string {
	if !e.Pos.IsValid() {
		return e.Err.Error()
	}

	return "runtime error at " + e.Pos.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.Err.Error()),
		slog.String("pos", e.Pos.String()),
	}

	var perr *pkg.Error
	if errors.As(e.Err, &perr) {
		attrs = append(attrs, perr.Attrs()...)
	}

	return slog.GroupValue(attrs...)
}

// at attaches the position of node to err unless err is already located.
func at(node ast.Node, err error) error {
	if err == nil {
		return nil
	}

	if node == nil {
		return err
	}

	var located *Error
	if errors.As(err, &located) {
		return err
	}

	return &Error{Err: err, Pos: node.Pos()}
}

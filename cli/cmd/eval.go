package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/log"
)

// Eval evaluates an expression and prints its value.
type Eval struct {
	Expression string `arg:"" help:"Expression to evaluate. A missing final ';' is supplied." name:"expression"`

	Source []string `help:"Scripts to run before the expression, or '-' for stdin." name:"source" short:"s"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	session, err := lang.NewSession(ctx, langOptions(ctx)...)
	if err != nil {
		return err
	}

	if err := preload(ctx, session, e.Source); err != nil {
		return err
	}

	result, err := session.Eval(ctx, e.Expression)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(outputFrom(ctx), lang.FormatResult(result))

	return err
}

// preload runs each named script in session, in order.
func preload(ctx context.Context, session *lang.Session, names []string) error {
	sources, err := loadSources(ctx, names)
	if err != nil {
		return err
	}

	for _, src := range sources {
		log.DebugContext(ctx, "preload script", slog.String("script", src.name))

		if _, err := session.Exec(ctx, src.text); err != nil {
			return ErrPreload.With(slog.String("script", src.name)).Wrap(err)
		}
	}

	return nil
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/log"
)

// Run executes a script.
type Run struct {
	Script string   `arg:"" default:"-" help:"Script file, script name on the search path, or '-' for stdin." name:"script"`
	Args   []string `arg:"" help:"Arguments available to the script as the global array args." name:"args" optional:""`

	Print bool `help:"Print the value of the last expression." short:"p"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := openSource(ctx, r.Script)
	if err != nil {
		return err
	}
	defer src.Close()

	prog, err := lang.ParseReader(ctx, src)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "run script",
		slog.String("script", r.Script),
		slog.Int("args", len(r.Args)),
	)

	result, err := lang.Run(ctx, prog, langOptions(ctx, lang.WithArgs(r.Args...))...)
	if err != nil {
		return err
	}

	if r.Print {
		fmt.Fprintln(outputFrom(ctx), lang.FormatResult(result))
	}

	return nil
}

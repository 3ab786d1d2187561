package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/ajscript/lang"
	"github.com/ardnew/ajscript/lang/ast"
)

// Fmt parses a script and writes it back in the chosen format.
type Fmt struct {
	Source Source `cmd:"" default:"withargs" help:"Format as script source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the syntax tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the syntax tree as YAML."`
	AST    AST    `cmd:""                    help:"Format the syntax tree as an indented outline."`
}

// format parses the script named by script and writes it with fn.
func format(
	ctx context.Context,
	script, name string,
	fn func(context.Context, io.Writer, *ast.Program) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := openSource(ctx, script)
	if err != nil {
		return err
	}
	defer src.Close()

	prog, err := lang.ParseReader(ctx, src)
	if err != nil {
		return err
	}

	if err := fn(ctx, outputFrom(ctx), prog); err != nil {
		return ErrFormat.With(slog.String("format", name)).Wrap(err)
	}

	return nil
}

// Source formats a script as canonical script source.
type Source struct {
	Indent int `default:"2" help:"Indent width for blocks, or 0 for tabs" short:"i"`

	Script string `arg:"" default:"-" help:"Script file or '-' for default stdin." name:"script"`
}

// Run executes the fmt source command.
func (f *Source) Run(ctx context.Context) error {
	return format(ctx, f.Script, "source",
		func(ctx context.Context, w io.Writer, prog *ast.Program) error {
			return lang.FormatSource(ctx, w, prog, f.Indent)
		},
	)
}

// JSON formats the syntax tree of a script as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output, or 0 for compact output" short:"i"`

	Script string `arg:"" default:"-" help:"Script file or '-' for default stdin." name:"script"`
}

// Run executes the fmt json command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, j.Script, "json",
		func(ctx context.Context, w io.Writer, prog *ast.Program) error {
			return lang.FormatJSON(ctx, w, prog, j.Indent)
		},
	)
}

// YAML formats the syntax tree of a script as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output, or 0 for flow style" short:"i"`

	Script string `arg:"" default:"-" help:"Script file or '-' for default stdin." name:"script"`
}

// Run executes the fmt yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, y.Script, "yaml",
		func(ctx context.Context, w io.Writer, prog *ast.Program) error {
			return lang.FormatYAML(ctx, w, prog, y.Indent)
		},
	)
}

// AST formats the syntax tree of a script as an indented outline.
type AST struct {
	Indent int `default:"2" help:"Indent width for nested nodes" short:"i"`

	Script string `arg:"" default:"-" help:"Script file or '-' for default stdin." name:"script"`
}

// Run executes the fmt ast command.
func (a *AST) Run(ctx context.Context) error {
	return format(ctx, a.Script, "ast",
		func(ctx context.Context, w io.Writer, prog *ast.Program) error {
			return lang.FormatText(ctx, w, prog, a.Indent)
		},
	)
}

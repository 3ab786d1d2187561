// Package lang is the entry point for parsing and running ajscript source.
//
// It ties the parser, interpreter, native built-ins and host bindings
// together:
//
//	prog, err := lang.ParseString(ctx, src)
//	if err != nil {
//		return err
//	}
//
//	result, err := lang.Run(ctx, prog, lang.WithOutput(os.Stdout))
//
// Programs parsed without options are cached by source hash, so parsing the
// same text twice returns the same immutable tree. A [Session] keeps its
// variables between inputs and backs the interactive shell.
package lang

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/readahead"

	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/lang/eval"
	"github.com/ardnew/ajscript/lang/host"
	"github.com/ardnew/ajscript/lang/parser"
	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/log"
	"github.com/ardnew/ajscript/pkg"
)

// ErrReadInput is returned when source cannot be read.
var ErrReadInput = pkg.NewError("failed to read input")

type options struct {
	logger   log.Logger
	maxDepth int
	output   io.Writer
	environ  []string
	bindings []host.Binding
	args     []string
}

// Option configures parsing and evaluation.
type Option func(*options)

// WithLogger sets the logger used by the parser and interpreter.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMaxDepth sets the call depth at which evaluation fails with a stack
// overflow.
func WithMaxDepth(depth int) Option {
	return func(o *options) { o.maxDepth = depth }
}

// WithOutput sets the destination of the write and writeln built-ins.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithEnviron replaces the process environment seen by scripts and
// bindings with a list of KEY=VALUE entries.
func WithEnviron(environ []string) Option {
	return func(o *options) { o.environ = environ }
}

// WithBindings evaluates name=expression bindings into the global object
// before any script runs.
func WithBindings(bindings ...host.Binding) Option {
	return func(o *options) { o.bindings = append(o.bindings, bindings...) }
}

// WithArgs exposes script arguments as the global array args.
func WithArgs(args ...string) Option {
	return func(o *options) { o.args = append(o.args, args...) }
}

func makeOptions(opts ...Option) options {
	o := options{
		logger:   log.Default(),
		maxDepth: eval.DefaultMaxDepth,
		output:   os.Stdout,
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// ParseString parses src into a program. Without options the result is
// cached by source hash.
func ParseString(ctx context.Context, src string, opts ...Option) (*ast.Program, error) {
	if len(opts) == 0 {
		return parseCached(ctx, src)
	}

	return parse(ctx, src, makeOptions(opts...))
}

// ParseReader reads all of r and parses it like [ParseString].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*ast.Program, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("source", "reader"))
	}

	makeOptions(opts...).logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return ParseString(ctx, string(data), opts...)
}

func parse(ctx context.Context, src string, o options) (*ast.Program, error) {
	prog, err := parser.New(src, parser.WithLogger(o.logger)).ParseProgram()
	if err != nil {
		o.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	return prog, nil
}

// Run executes prog in a new interpreter with the built-ins and host
// object installed and returns the value of the program.
func Run(ctx context.Context, prog *ast.Program, opts ...Option) (runtime.Value, error) {
	s, err := NewSession(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return s.interp.Run(ctx, prog)
}

// RunString parses and runs src.
func RunString(ctx context.Context, src string, opts ...Option) (runtime.Value, error) {
	prog, err := ParseString(ctx, src, opts...)
	if err != nil {
		return nil, err
	}

	return Run(ctx, prog, opts...)
}

// EvaluateString evaluates src, usually a single expression, in a fresh
// session and returns its value. A missing final semicolon is supplied.
func EvaluateString(ctx context.Context, src string, opts ...Option) (runtime.Value, error) {
	s, err := NewSession(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return s.Eval(ctx, src)
}

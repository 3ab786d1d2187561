// Package eval executes syntax trees.
//
// An [Interpreter] owns the global object and walks [ast.Expression] and
// [ast.Command] nodes against a [Frame]. Commands report their control
// effect as a [Signal] instead of unwinding the Go stack, so return,
// break, and continue propagate as ordinary values through blocks and
// loops.
//
// A function value closes over the frame it was created in. Names that had
// no slot at parse time are looked up when evaluated: first among the
// variables of the current frame and the frames enclosing it, then in the
// global object.
//
// Loops stop with the context's error once the context passed to
// [Interpreter.Exec] is done.
package eval

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/log"
)

// DefaultMaxDepth is the default limit on nested invocations.
const DefaultMaxDepth = 1000

// Interpreter evaluates programs against a global object. It is not safe
// for concurrent use.
type Interpreter struct {
	global   *runtime.DynamicObject
	logger   log.Logger
	maxDepth int
	depth    int

	// ctx is the context of the running program.
	ctx context.Context //nolint:containedctx
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for trace output.
func WithLogger(l log.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// WithMaxDepth limits the number of nested invocations. Values below one
// select [DefaultMaxDepth].
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) {
		if n < 1 {
			n = DefaultMaxDepth
		}

		in.maxDepth = n
	}
}

// WithGlobal sets the global object.
func WithGlobal(g *runtime.DynamicObject) Option {
	return func(in *Interpreter) {
		if g != nil {
			in.global = g
		}
	}
}

// New returns an Interpreter with an empty global object unless one is
// supplied.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		global:   runtime.NewObject(nil),
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(in)
	}

	return in
}

// Global returns the global object.
func (in *Interpreter) Global() *runtime.DynamicObject { return in.global }

// Run executes prog in a new frame. The result is the value of a
// top-level return, or else the value of the last expression command.
func (in *Interpreter) Run(ctx context.Context, prog *ast.Program) (runtime.Value, error) {
	return in.Exec(ctx, prog, NewFrame(prog.FrameSize, in.global))
}

// Exec executes prog in frame, growing it to the program's frame size.
// Reusing a frame across programs parsed against one scope continues a
// session.
func (in *Interpreter) Exec(ctx context.Context, prog *ast.Program, frame *Frame) (runtime.Value, error) {
	id := uuid.NewString()
	start := time.Now()
	logger := in.logger.With(slog.String("run", id))

	logger.DebugContext(ctx, "run start",
		slog.Int("slots", prog.FrameSize),
		slog.Int("commands", prog.Body.CommandCount()),
	)

	frame.Grow(prog.FrameSize)
	frame.names = prog.Names

	outer := in.ctx
	in.ctx = ctx

	defer func() { in.ctx = outer }()

	sig, err := in.executeUnit(prog.Body, frame)
	if err != nil {
		logger.DebugContext(ctx, "run failed", slog.Any("error", err))

		return nil, err
	}

	if sig.Flow == Break || sig.Flow == Continue {
		return nil, ErrControlFlow.With(slog.String("flow", sig.Flow.String()))
	}

	logger.DebugContext(ctx, "run complete",
		slog.Duration("elapsed", time.Since(start)),
		slog.String("result", runtime.TypeOf(sig.Value)),
	)

	return sig.Value, nil
}

// executeUnit binds the function declarations of body before running it,
// so functions may be called above their declaration.
func (in *Interpreter) executeUnit(body *ast.Composite, frame *Frame) (Signal, error) {
	for _, cmd := range body.Commands {
		if def, ok := cmd.(*ast.DefineFunction); ok {
			in.define(def, frame)
		}
	}

	return in.Execute(body, frame)
}

// define binds a function declaration to its slot in frame or, at top
// level, to the global object.
func (in *Interpreter) define(def *ast.DefineFunction, frame *Frame) {
	fn := in.closure(def.Function, frame)

	if def.Local {
		frame.Set(def.Slot, fn)

		return
	}

	in.global.SetValue(def.Name, fn)
}

// interrupted returns the error of the running program's context once it
// is done.
func (in *Interpreter) interrupted() error {
	if in.ctx == nil {
		return nil
	}

	return in.ctx.Err()
}

// lookup resolves a name that has no slot in the current unit.
func (in *Interpreter) lookup(name string, frame *Frame) (runtime.Value, bool) {
	if v, ok := frame.lookup(name); ok {
		return v, true
	}

	if in.global.Has(name) {
		return in.global.GetValue(name), true
	}

	return nil, false
}

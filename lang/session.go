package lang

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/ardnew/ajscript/lang/builtin"
	"github.com/ardnew/ajscript/lang/eval"
	"github.com/ardnew/ajscript/lang/host"
	"github.com/ardnew/ajscript/lang/parser"
	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/lang/scope"
	"github.com/ardnew/ajscript/log"
)

// Session runs a sequence of sources as one unit. Variables declared by
// one input stay visible to the next.
type Session struct {
	scope  *scope.Scope
	interp *eval.Interpreter
	frame  *eval.Frame
	logger log.Logger
}

// NewSession returns a Session whose global object holds the built-ins, the
// host object, and any bindings given with [WithBindings].
func NewSession(ctx context.Context, opts ...Option) (*Session, error) {
	o := makeOptions(opts...)

	interp := eval.New(
		eval.WithLogger(o.logger),
		eval.WithMaxDepth(o.maxDepth),
	)

	global := interp.Global()

	lookup := os.LookupEnv
	if o.environ != nil {
		lookup = lookupIn(o.environ)
	}

	builtin.Register(global,
		builtin.WithOutput(o.output),
		builtin.WithLookup(lookup),
		builtin.WithLogger(o.logger),
	)
	host.Register(global)

	args := make([]runtime.Value, len(o.args))
	for i, a := range o.args {
		args[i] = a
	}

	global.SetValue("args", runtime.NewArray(args...))

	if len(o.bindings) > 0 {
		binder := host.NewBinder(
			host.WithEnviron(o.environ),
			host.WithLogger(o.logger),
		)

		if err := binder.Bind(ctx, global, o.bindings...); err != nil {
			return nil, err
		}
	}

	return &Session{
		scope:  scope.New(),
		interp: interp,
		frame:  eval.NewFrame(0, global),
		logger: o.logger,
	}, nil
}

// Exec parses src against the session scope and runs it in the session
// frame. A source that fails to parse leaves the scope unchanged.
func (s *Session) Exec(ctx context.Context, src string) (runtime.Value, error) {
	sc := s.scope.Clone()

	prog, err := parser.New(src,
		parser.WithScope(sc),
		parser.WithLogger(s.logger),
	).ParseProgram()
	if err != nil {
		return nil, err
	}

	s.scope = sc

	s.logger.TraceContext(ctx, "session exec",
		slog.Int("frame_size", prog.FrameSize),
		slog.Int("commands", prog.Body.CommandCount()),
	)

	return s.interp.Exec(ctx, prog, s.frame)
}

// Eval is Exec for interactive input: a source whose last command lacks
// its semicolon is terminated first.
func (s *Session) Eval(ctx context.Context, src string) (runtime.Value, error) {
	return s.Exec(ctx, Terminate(src))
}

// Terminate appends a semicolon to src unless it is blank or already ends
// with one.
func Terminate(src string) string {
	trimmed := strings.TrimRightFunc(src, unicode.IsSpace)
	if trimmed == "" || strings.HasSuffix(trimmed, ";") {
		return src
	}

	return trimmed + ";"
}

// Global returns the global object.
func (s *Session) Global() *runtime.DynamicObject { return s.interp.Global() }

// Names returns the session variables and global names, sorted and without
// duplicates.
func (s *Session) Names() []string {
	names := append(s.scope.Visible(), s.Global().GetNames()...)
	slices.Sort(names)

	return slices.Compact(names)
}

// Variables returns the names declared by the session's own commands,
// sorted.
func (s *Session) Variables() []string {
	names := s.scope.Visible()
	slices.Sort(names)

	return slices.Compact(names)
}

// Value returns the current value of a session variable or global name.
func (s *Session) Value(name string) (runtime.Value, bool) {
	if slot := s.scope.Offset(name); slot != scope.NotFound {
		return s.frame.Get(slot), true
	}

	if g := s.Global(); g.Has(name) {
		return g.GetValue(name), true
	}

	return nil, false
}

// lookupIn returns an environment lookup over KEY=VALUE entries. Later
// entries win.
func lookupIn(environ []string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		for _, entry := range slices.Backward(environ) {
			if k, v, ok := strings.Cut(entry, "="); ok && k == key {
				return v, true
			}
		}

		return "", false
	}
}

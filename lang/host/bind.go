package host

import (
	"context"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/log"
	"github.com/ardnew/ajscript/pkg"
)

var (
	// ErrInvalidBinding is returned for assignments not of the form
	// name=expression.
	ErrInvalidBinding = pkg.NewError("invalid binding")
	// ErrExprCompile is returned when a binding expression does not compile.
	ErrExprCompile = pkg.NewError("expression compile failed")
	// ErrExprRun is returned when a binding expression fails at run time.
	ErrExprRun = pkg.NewError("expression evaluation failed")
)

// Binding is one name=expression assignment.
type Binding struct {
	Name   string
	Source string
}

// ParseBinding splits s at the first '=' into a name and an expression.
func ParseBinding(s string) (Binding, error) {
	name, src, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)

	if !ok || !isIdentifier(name) || strings.TrimSpace(src) == "" {
		return Binding{}, ErrInvalidBinding.With(slog.String("binding", s))
	}

	return Binding{Name: name, Source: src}, nil
}

// UnmarshalText implements encoding.TextUnmarshaler so a Binding can be
// read directly from a command-line flag.
func (b *Binding) UnmarshalText(text []byte) error {
	parsed, err := ParseBinding(string(text))
	if err != nil {
		return err
	}

	*b = parsed

	return nil
}

// String returns the binding in name=expression form.
func (b Binding) String() string { return b.Name + "=" + b.Source }

func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return s != ""
}

// Binder evaluates bindings with expr-lang and installs their results in a
// global object.
type Binder struct {
	environ []string
	logger  log.Logger
}

// BinderOption configures a [Binder].
type BinderOption func(*Binder)

// WithEnviron replaces the process environment seen by env(key) with a
// list of KEY=VALUE entries.
func WithEnviron(environ []string) BinderOption {
	return func(b *Binder) { b.environ = environ }
}

// WithLogger sets the logger used to trace bindings.
func WithLogger(l log.Logger) BinderOption {
	return func(b *Binder) { b.logger = l }
}

// NewBinder returns a Binder over the current process environment.
func NewBinder(opts ...BinderOption) *Binder {
	b := &Binder{}
	for _, opt := range opts {
		opt(b)
	}

	if b.environ == nil {
		b.environ = os.Environ()
	}

	return b
}

// Bind evaluates each binding in order and sets the result as a property
// of global. Each expression sees the host environment, env(key), and every
// name bound before it.
func (b *Binder) Bind(ctx context.Context, global runtime.Object, bindings ...Binding) error {
	env := Info()
	env["env"] = envFunc(processEnv(b.environ))

	for _, bnd := range bindings {
		program, err := expr.Compile(bnd.Source, expr.Env(env))
		if err != nil {
			return ErrExprCompile.Wrap(err).With(
				slog.String("name", bnd.Name),
				slog.String("source", bnd.Source),
			)
		}

		out, err := expr.Run(program, env)
		if err != nil {
			return ErrExprRun.Wrap(err).With(
				slog.String("name", bnd.Name),
				slog.String("source", bnd.Source),
			)
		}

		b.logger.DebugContext(ctx, "bind",
			slog.String("name", bnd.Name),
			slog.Any("value", out),
		)

		env[bnd.Name] = out
		global.SetValue(bnd.Name, ToScript(out))
	}

	return nil
}

// Register installs the host environment as the global "host" object.
func Register(global runtime.Object) {
	global.SetValue("host", ToScript(Info()))
}

// ToScript converts native data into script values. Maps become objects
// with sorted property order and the host's function shapes become
// callable natives. Everything else converts through runtime.FromNative.
func ToScript(v any) runtime.Value {
	switch v := v.(type) {
	case map[string]any:
		obj := runtime.NewObject(nil)
		for _, k := range slices.Sorted(maps.Keys(v)) {
			obj.SetValue(k, ToScript(v[k]))
		}

		return obj
	case []any:
		elems := make([]runtime.Value, len(v))
		for i, e := range v {
			elems[i] = ToScript(e)
		}

		return runtime.NewArray(elems...)
	case func() string:
		return native(func([]string) runtime.Value { return v() }, 0)
	case func(string) bool:
		return native(func(a []string) runtime.Value { return v(a[0]) }, 1)
	case func(string) string:
		return native(func(a []string) runtime.Value { return v(a[0]) }, 1)
	case func(string, string) string:
		return native(func(a []string) runtime.Value { return v(a[0], a[1]) }, 2)
	case func(...string) string:
		return native(func(a []string) runtime.Value { return v(a...) }, 0)
	case func(string, ...string) string:
		return native(func(a []string) runtime.Value { return v(a[0], a[1:]...) }, 1)
	default:
		return runtime.FromNative(v)
	}
}

// native adapts fn to a script function taking at least arity string
// arguments.
func native(fn func([]string) runtime.Value, arity int) *runtime.NativeFunction {
	return runtime.NewFunction("native",
		func(_ runtime.Object, args []runtime.Value) (runtime.Value, error) {
			if len(args) < arity {
				return nil, runtime.ErrArgumentCount.With(
					slog.Int("want", arity),
					slog.Int("got", len(args)),
				)
			}

			strs := make([]string, len(args))
			for i, a := range args {
				strs[i] = runtime.ToString(a)
			}

			return fn(strs), nil
		})
}

// processEnv converts KEY=VALUE entries to a map.
func processEnv(environ []string) map[string]string {
	m := make(map[string]string, len(environ))

	for _, entry := range environ {
		if k, v, ok := strings.Cut(entry, "="); ok {
			m[k] = v
		}
	}

	return m
}

func envFunc(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

// Package builtin installs the native functions available to every script.
package builtin

import (
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/log"
	"github.com/ardnew/ajscript/pkg"
)

// ErrQuery is returned when a jq filter fails to parse or run.
var ErrQuery = pkg.NewError("query failed")

type config struct {
	out    io.Writer
	lookup func(string) (string, bool)
	logger log.Logger
}

// Option configures [Register].
type Option func(*config)

// WithOutput sets the destination of write and writeln.
func WithOutput(w io.Writer) Option {
	return func(c *config) { c.out = w }
}

// WithLookup replaces the environment lookup used by env.
func WithLookup(fn func(string) (string, bool)) Option {
	return func(c *config) { c.lookup = fn }
}

// WithLogger sets the logger used to trace native calls.
func WithLogger(l log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Register binds the native functions into global.
func Register(global runtime.Object, opts ...Option) {
	c := config{out: os.Stdout, lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&c)
	}

	for _, fn := range []*runtime.NativeFunction{
		runtime.NewFunction("write", c.write(false)),
		runtime.NewFunction("writeln", c.write(true)),
		runtime.NewFunction("Array", newArray).WithConstructor(constructArray),
		runtime.NewFunction("Object", newObject).WithConstructor(constructObject),
		runtime.NewFunction("env", c.env),
		runtime.NewFunction("len", length),
		runtime.NewFunction("typeof", typeOf),
		runtime.NewFunction("keys", keys),
		runtime.NewFunction("jq", c.jq),
	} {
		global.SetValue(fn.Name(), fn)
	}
}

// params names the arguments of each native function for display.
var params = map[string][]string{
	"write":   {"...values"},
	"writeln": {"...values"},
	"Array":   {"...elements"},
	"Object":  {"value"},
	"env":     {"name", "fallback"},
	"len":     {"value"},
	"typeof":  {"value"},
	"keys":    {"object"},
	"jq":      {"filter", "value"},
}

// Parameters returns the argument names of the native function called
// name. A name prefixed with "..." takes any number of arguments.
func Parameters(name string) ([]string, bool) {
	p, ok := params[name]

	return slices.Clone(p), ok
}

func (c config) write(newline bool) func(runtime.Object, []runtime.Value) (runtime.Value, error) {
	return func(_ runtime.Object, args []runtime.Value) (runtime.Value, error) {
		var sb strings.Builder

		for _, a := range args {
			sb.WriteString(runtime.ToString(a))
		}

		if newline {
			sb.WriteByte('\n')
		}

		if _, err := io.WriteString(c.out, sb.String()); err != nil {
			return nil, err
		}

		return runtime.Undefined, nil
	}
}

// newArray builds an array of its arguments, or an array of n undefined
// elements when called with one integer.
func newArray(_ runtime.Object, args []runtime.Value) (runtime.Value, error) {
	return constructArray(args)
}

func constructArray(args []runtime.Value) (runtime.Value, error) {
	if len(args) == 1 {
		if n, ok := args[0].(int); ok {
			if n < 0 {
				return nil, runtime.ErrIndexOutOfRange.With(slog.Int("length", n))
			}

			a := runtime.NewArray()
			if err := a.SetLength(n); err != nil {
				return nil, err
			}

			return a, nil
		}
	}

	return runtime.NewArray(args...), nil
}

func newObject(_ runtime.Object, args []runtime.Value) (runtime.Value, error) {
	return constructObject(args)
}

// constructObject returns its object argument unchanged, or a new empty
// object.
func constructObject(args []runtime.Value) (runtime.Value, error) {
	if len(args) > 0 {
		if o, ok := args[0].(runtime.Object); ok {
			return o, nil
		}
	}

	return runtime.NewObject(nil), nil
}

// env returns the named environment variable, the optional default, or
// undefined.
func (c config) env(_ runtime.Object, args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 || len(args) > 2 {
		return nil, runtime.ErrArgumentCount.With(
			slog.String("function", "env"),
			slog.Int("got", len(args)),
		)
	}

	if v, ok := c.lookup(runtime.ToString(args[0])); ok {
		return v, nil
	}

	if len(args) == 2 {
		return args[1], nil
	}

	return runtime.Undefined, nil
}

func length(_ runtime.Object, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, runtime.ErrArgumentCount.With(
			slog.String("function", "len"),
			slog.Int("got", len(args)),
		)
	}

	switch v := args[0].(type) {
	case string:
		return len([]rune(v)), nil
	case *runtime.Array:
		return v.Len(), nil
	case runtime.Object:
		return len(v.GetNames()), nil
	default:
		return nil, runtime.ErrTypeMismatch.With(
			slog.String("function", "len"),
			slog.String("type", runtime.TypeOf(v)),
		)
	}
}

func typeOf(_ runtime.Object, args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.TypeOf(runtime.Undefined), nil
	}

	return runtime.TypeOf(args[0]), nil
}

func keys(_ runtime.Object, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 1 {
		return nil, runtime.ErrArgumentCount.With(
			slog.String("function", "keys"),
			slog.Int("got", len(args)),
		)
	}

	obj, err := runtime.AsObject(args[0])
	if err != nil {
		return nil, err
	}

	names := obj.GetNames()
	out := make([]runtime.Value, len(names))

	for i, n := range names {
		out[i] = n
	}

	return runtime.NewArray(out...), nil
}

// jq runs a jq filter over a value. A filter producing one result returns
// it directly; any other number of results is returned as an array.
func (c config) jq(_ runtime.Object, args []runtime.Value) (runtime.Value, error) {
	if len(args) != 2 {
		return nil, runtime.ErrArgumentCount.With(
			slog.String("function", "jq"),
			slog.Int("want", 2),
			slog.Int("got", len(args)),
		)
	}

	filter, ok := args[0].(string)
	if !ok {
		return nil, runtime.ErrTypeMismatch.With(
			slog.String("function", "jq"),
			slog.String("filter", runtime.TypeOf(args[0])),
		)
	}

	q, err := gojq.Parse(filter)
	if err != nil {
		return nil, ErrQuery.Wrap(err).With(slog.String("filter", filter))
	}

	c.logger.Trace("jq", slog.String("filter", filter))

	var results []runtime.Value

	iter := q.Run(jqInput(runtime.ToNative(args[1])))

	for {
		v, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := v.(error); isErr {
			return nil, ErrQuery.Wrap(err).With(slog.String("filter", filter))
		}

		results = append(results, runtime.FromNative(v))
	}

	if len(results) == 1 {
		return results[0], nil
	}

	return runtime.NewArray(results...), nil
}

// jqInput normalizes native values to the types gojq accepts.
func jqInput(v any) any {
	switch v := v.(type) {
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = jqInput(e)
		}

		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = jqInput(e)
		}

		return out
	case nil, bool, int, float64, string:
		return v
	default:
		return runtime.ToString(v)
	}
}

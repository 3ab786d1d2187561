package eval

import (
	"log/slog"
	"strings"

	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/lang/runtime"
)

// Closure is a script function bound to the interpreter that created it
// and to the frame it was created in. It is callable, constructible with
// new, and carries its own properties.
type Closure struct {
	in    *Interpreter
	fn    *ast.Function
	env   *Frame
	props *runtime.DynamicObject
}

func (in *Interpreter) closure(fn *ast.Function, env *Frame) *Closure {
	return &Closure{in: in, fn: fn, env: env, props: runtime.NewObject(nil)}
}

// Name returns the declared function name, which may be empty.
func (c *Closure) Name() string { return c.fn.Name }

// Parameters returns the parameter names.
func (c *Closure) Parameters() []string { return append([]string(nil), c.fn.Parameters...) }

func (c *Closure) String() string {
	return "function " + c.fn.Name + "(" + strings.Join(c.fn.Parameters, ", ") + ") { ... }"
}

// Call runs the function body in a new frame whose first slots hold args
// and whose outer frame is the one c was created in. Missing arguments
// are Undefined and extra arguments are ignored.
func (c *Closure) Call(this runtime.Object, args []runtime.Value) (runtime.Value, error) {
	in := c.in

	if in.depth >= in.maxDepth {
		return nil, runtime.ErrStackOverflow.With(
			slog.String("function", c.fn.Name),
			slog.Int("depth", in.depth),
		)
	}

	in.depth++
	defer func() { in.depth-- }()

	frame := NewFrame(c.fn.FrameSize, this)
	frame.outer = c.env
	frame.names = c.fn.Names

	for i := range min(len(args), len(c.fn.Parameters)) {
		frame.Set(i, args[i])
	}

	in.logger.Trace("call",
		slog.String("function", c.fn.Name),
		slog.Int("args", len(args)),
		slog.Int("depth", in.depth),
	)

	sig, err := in.executeUnit(c.fn.Body, frame)
	if err != nil {
		return nil, err
	}

	switch sig.Flow {
	case Return:
		return sig.Value, nil
	case Break, Continue:
		return nil, at(c.fn, ErrControlFlow.With(slog.String("flow", sig.Flow.String())))
	default:
		return runtime.Undefined, nil
	}
}

// Construct calls the function with a new object as receiver. The object
// is the result unless the function returns another object.
func (c *Closure) Construct(args []runtime.Value) (runtime.Value, error) {
	obj := runtime.NewObject(c)

	v, err := c.Call(obj, args)
	if err != nil {
		return nil, err
	}

	if o, ok := v.(runtime.Object); ok {
		return o, nil
	}

	return obj, nil
}

// Function returns nil.
func (c *Closure) Function() runtime.Callable { return nil }

// GetValue returns the function name, the parameter count as length, or
// an attached property.
func (c *Closure) GetValue(name string) runtime.Value {
	switch {
	case c.props.Has(name):
		return c.props.GetValue(name)
	case name == "name":
		return c.fn.Name
	case name == "length":
		return len(c.fn.Parameters)
	default:
		return runtime.Undefined
	}
}

// SetValue attaches a property to the function.
func (c *Closure) SetValue(name string, value runtime.Value) { c.props.SetValue(name, value) }

// GetNames returns the attached property names.
func (c *Closure) GetNames() []string { return c.props.GetNames() }

// Invoke calls an attached member with c as receiver.
func (c *Closure) Invoke(name string, args []runtime.Value) (runtime.Value, error) {
	member, ok := c.GetValue(name).(runtime.Callable)
	if !ok {
		return nil, runtime.ErrNotCallable.With(slog.String("name", name))
	}

	return member.Call(c, args)
}

// InvokeCallable calls fn with c as receiver.
func (c *Closure) InvokeCallable(fn runtime.Callable, args []runtime.Value) (runtime.Value, error) {
	return fn.Call(c, args)
}

package eval

import (
	"log/slog"

	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/lang/runtime"
)

// Evaluate returns the value of expr in frame. Constants may be evaluated
// with a nil frame.
func (in *Interpreter) Evaluate(expr ast.Expression, frame *Frame) (runtime.Value, error) {
	v, err := in.evaluate(expr, frame)
	if err != nil {
		return nil, at(expr, err)
	}

	return v, nil
}

//nolint:cyclop,gocyclo
func (in *Interpreter) evaluate(expr ast.Expression, frame *Frame) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.Constant:
		return e.Value, nil

	case *ast.LocalVariable:
		f, err := variableFrame(frame, e)
		if err != nil {
			return nil, err
		}

		return f.Get(e.Slot), nil

	case *ast.GlobalVariable:
		if v, ok := in.lookup(e.Name, frame); ok {
			return v, nil
		}

		return nil, runtime.ErrUndefinedVariable.With(slog.String("name", e.Name))

	case *ast.ArithmeticUnary:
		v, err := in.Evaluate(e.Operand, frame)
		if err != nil {
			return nil, err
		}

		return runtime.Negate(v)

	case *ast.ArithmeticBinary:
		l, r, err := in.pair(e.Left, e.Right, frame)
		if err != nil {
			return nil, err
		}

		return arithmetic(e.Operator, l, r)

	case *ast.Compare:
		l, r, err := in.pair(e.Left, e.Right, frame)
		if err != nil {
			return nil, err
		}

		return compare(e.Operator, l, r)

	case *ast.And:
		l, err := in.Evaluate(e.Left, frame)
		if err != nil || !runtime.Truthy(l) {
			return false, err
		}

		r, err := in.Evaluate(e.Right, frame)

		return runtime.Truthy(r), err

	case *ast.Or:
		l, err := in.Evaluate(e.Left, frame)
		if err != nil || runtime.Truthy(l) {
			return true, err
		}

		r, err := in.Evaluate(e.Right, frame)

		return runtime.Truthy(r), err

	case *ast.Not:
		v, err := in.Evaluate(e.Operand, frame)

		return !runtime.Truthy(v), err

	case *ast.Increment:
		return in.increment(e, frame)

	case *ast.Dot:
		return in.dot(e, frame)

	case *ast.Index:
		return in.index(e, frame)

	case *ast.Invoke:
		callee, err := in.Evaluate(e.Callee, frame)
		if err != nil {
			return nil, err
		}

		args, err := in.arguments(e.Arguments, frame)
		if err != nil {
			return nil, err
		}

		return in.invoke(callee, in.global, args)

	case *ast.New:
		return in.construct(e, frame)

	case *ast.This:
		if frame == nil || frame.This() == nil {
			return runtime.Undefined, nil
		}

		return frame.This(), nil

	case *ast.ArrayLiteral:
		elems, err := in.arguments(e.Elements, frame)
		if err != nil {
			return nil, err
		}

		return runtime.NewArray(elems...), nil

	case *ast.ObjectLiteral:
		obj := runtime.NewObject(nil)

		for i, key := range e.Keys {
			v, err := in.Evaluate(e.Values[i], frame)
			if err != nil {
				return nil, err
			}

			obj.SetValue(key, v)
		}

		return obj, nil

	case *ast.Function:
		return in.closure(e, frame), nil

	default:
		return nil, ast.ErrUnsupportedNode.With(slog.String("kind", ast.Kind(expr)))
	}
}

// variableFrame returns the frame holding the slot of v.
func variableFrame(frame *Frame, v *ast.LocalVariable) (*Frame, error) {
	f := frame.Up(v.Depth)
	if f == nil {
		return nil, runtime.ErrUndefinedVariable.With(
			slog.String("name", v.Name),
			slog.Int("depth", v.Depth),
		)
	}

	return f, nil
}

// pair evaluates two operands left to right.
func (in *Interpreter) pair(left, right ast.Expression, frame *Frame) (runtime.Value, runtime.Value, error) {
	l, err := in.Evaluate(left, frame)
	if err != nil {
		return nil, nil, err
	}

	r, err := in.Evaluate(right, frame)
	if err != nil {
		return nil, nil, err
	}

	return l, r, nil
}

// arguments evaluates exprs left to right.
func (in *Interpreter) arguments(exprs []ast.Expression, frame *Frame) ([]runtime.Value, error) {
	args := make([]runtime.Value, len(exprs))

	for i, e := range exprs {
		v, err := in.Evaluate(e, frame)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return args, nil
}

func arithmetic(op ast.BinaryOperator, l, r runtime.Value) (runtime.Value, error) {
	switch op {
	case ast.Add:
		return runtime.Add(l, r)
	case ast.Subtract:
		return runtime.Subtract(l, r)
	case ast.Multiply:
		return runtime.Multiply(l, r)
	case ast.Divide:
		return runtime.Divide(l, r)
	case ast.Modulo:
		return runtime.Modulo(l, r)
	default:
		return nil, ast.ErrUnsupportedNode.With(slog.String("operator", op.String()))
	}
}

func compare(op ast.CompareOperator, l, r runtime.Value) (runtime.Value, error) {
	switch op {
	case ast.Equal:
		return runtime.Equal(l, r), nil
	case ast.NotEqual:
		return !runtime.Equal(l, r), nil
	case ast.Less:
		return runtime.Less(l, r)
	case ast.LessEqual:
		return runtime.LessEqual(l, r)
	case ast.Greater:
		return runtime.Greater(l, r)
	case ast.GreaterEqual:
		return runtime.GreaterEqual(l, r)
	default:
		return nil, ast.ErrUnsupportedNode.With(slog.String("operator", op.String()))
	}
}

// object evaluates expr and views the result through the object protocol.
// Reading through null or undefined is an undefined property fault.
func (in *Interpreter) object(expr ast.Expression, member string, frame *Frame) (runtime.Object, error) {
	v, err := in.Evaluate(expr, frame)
	if err != nil {
		return nil, err
	}

	if v == nil || v == runtime.Undefined {
		return nil, runtime.ErrUndefinedProperty.With(
			slog.String("name", member),
			slog.String("base", runtime.TypeOf(v)),
		)
	}

	return runtime.AsObject(v)
}

func (in *Interpreter) dot(e *ast.Dot, frame *Frame) (runtime.Value, error) {
	obj, err := in.object(e.Target, e.Name, frame)
	if err != nil {
		return nil, err
	}

	if !e.Call {
		return obj.GetValue(e.Name), nil
	}

	args, err := in.arguments(e.Arguments, frame)
	if err != nil {
		return nil, err
	}

	in.logger.Trace("invoke",
		slog.String("member", e.Name),
		slog.Int("args", len(args)),
		slog.Int("depth", in.depth),
	)

	return obj.Invoke(e.Name, args)
}

func (in *Interpreter) index(e *ast.Index, frame *Frame) (runtime.Value, error) {
	obj, err := in.object(e.Target, "[]", frame)
	if err != nil {
		return nil, err
	}

	args, err := in.arguments(e.Arguments, frame)
	if err != nil {
		return nil, err
	}

	return getIndex(obj, args)
}

// getIndex reads obj[args...] through its Indexer, or as a property named
// by a single key.
func getIndex(obj runtime.Object, args []runtime.Value) (runtime.Value, error) {
	if ix, ok := obj.(runtime.Indexer); ok {
		return ix.GetIndex(args)
	}

	if len(args) != 1 {
		return nil, runtime.ErrArgumentCount.With(slog.Int("want", 1), slog.Int("got", len(args)))
	}

	return obj.GetValue(runtime.ToString(args[0])), nil
}

// setIndex writes obj[args...] through its Indexer, or as a property named
// by a single key.
func setIndex(obj runtime.Object, args []runtime.Value, value runtime.Value) error {
	if ix, ok := obj.(runtime.Indexer); ok {
		return ix.SetIndex(args, value)
	}

	if len(args) != 1 {
		return runtime.ErrArgumentCount.With(slog.Int("want", 1), slog.Int("got", len(args)))
	}

	return runtime.SetProperty(obj, runtime.ToString(args[0]), value)
}

func (in *Interpreter) invoke(callee runtime.Value, this runtime.Object, args []runtime.Value) (runtime.Value, error) {
	fn, ok := callee.(runtime.Callable)
	if !ok {
		return nil, runtime.ErrNotCallable.With(slog.String("type", runtime.TypeOf(callee)))
	}

	in.logger.Trace("invoke", slog.Int("args", len(args)), slog.Int("depth", in.depth))

	return this.InvokeCallable(fn, args)
}

func (in *Interpreter) construct(e *ast.New, frame *Frame) (runtime.Value, error) {
	ctor, err := in.Evaluate(e.Constructor, frame)
	if err != nil {
		return nil, err
	}

	args, err := in.arguments(e.Arguments, frame)
	if err != nil {
		return nil, err
	}

	switch c := ctor.(type) {
	case runtime.Constructor:
		return c.Construct(args)
	case runtime.Callable:
		obj := runtime.NewObject(c)

		v, err := c.Call(obj, args)
		if err != nil {
			return nil, err
		}

		if o, ok := v.(runtime.Object); ok {
			return o, nil
		}

		return obj, nil
	default:
		return nil, runtime.ErrNotCallable.With(
			slog.String("constructor", runtime.TypeOf(ctor)),
		)
	}
}

// increment reads the target, stores the value plus or minus one, and
// returns the old value for postfix forms and the new one for prefix
// forms.
func (in *Interpreter) increment(e *ast.Increment, frame *Frame) (runtime.Value, error) {
	var (
		read  func() runtime.Value
		write func(runtime.Value) error
	)

	switch target := e.Target.(type) {
	case *ast.LocalVariable:
		f, err := variableFrame(frame, target)
		if err != nil {
			return nil, err
		}

		read = func() runtime.Value { return f.Get(target.Slot) }
		write = func(v runtime.Value) error {
			f.Set(target.Slot, v)

			return nil
		}

	case *ast.Dot:
		obj, err := in.object(target.Target, target.Name, frame)
		if err != nil {
			return nil, err
		}

		read = func() runtime.Value { return obj.GetValue(target.Name) }
		write = func(v runtime.Value) error { return runtime.SetProperty(obj, target.Name, v) }

	default:
		return nil, ast.ErrUnsupportedNode.With(slog.String("kind", ast.Kind(e.Target)))
	}

	old := read()

	switch old.(type) {
	case int, float64:
	default:
		return nil, runtime.ErrTypeMismatch.With(
			slog.String("operator", e.Operator.String()),
			slog.String("operand", runtime.TypeOf(old)),
		)
	}

	updated, err := runtime.Add(old, e.Operator.Delta())
	if err != nil {
		return nil, err
	}

	if err := write(updated); err != nil {
		return nil, err
	}

	if e.Operator.IsPrefix() {
		return updated, nil
	}

	return old, nil
}

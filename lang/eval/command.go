package eval

import (
	"log/slog"

	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/lang/runtime"
)

// Execute runs cmd in frame and reports its control effect.
func (in *Interpreter) Execute(cmd ast.Command, frame *Frame) (Signal, error) {
	sig, err := in.execute(cmd, frame)
	if err != nil {
		return Signal{}, at(cmd, err)
	}

	return sig, nil
}

//nolint:cyclop,gocyclo
func (in *Interpreter) execute(cmd ast.Command, frame *Frame) (Signal, error) {
	switch c := cmd.(type) {
	case *ast.SetLocalVariable:
		v, err := in.Evaluate(c.Value, frame)
		if err != nil {
			return Signal{}, err
		}

		frame.Set(c.Slot, v)

		return done, nil

	case *ast.Set:
		return in.set(c, frame)

	case *ast.SetArray:
		return in.setArray(c, frame)

	case *ast.ExpressionCommand:
		v, err := in.Evaluate(c.Expression, frame)
		if err != nil {
			return Signal{}, err
		}

		return normal(v), nil

	case *ast.Return:
		if c.Value == nil {
			return Signal{Flow: Return, Value: runtime.Undefined}, nil
		}

		v, err := in.Evaluate(c.Value, frame)
		if err != nil {
			return Signal{}, err
		}

		return Signal{Flow: Return, Value: v}, nil

	case *ast.If:
		cond, err := in.Evaluate(c.Condition, frame)
		if err != nil {
			return Signal{}, err
		}

		switch {
		case runtime.Truthy(cond):
			return in.Execute(c.Then, frame)
		case c.Else != nil:
			return in.Execute(c.Else, frame)
		default:
			return done, nil
		}

	case *ast.While:
		return in.loop(frame, c.Condition, c.Body, nil)

	case *ast.For:
		if c.Init != nil {
			if _, err := in.Execute(c.Init, frame); err != nil {
				return Signal{}, err
			}
		}

		return in.loop(frame, c.Condition, c.Body, c.End)

	case *ast.ForEach:
		return in.forEach(c, frame)

	case *ast.Composite:
		last := done

		for _, sub := range c.Commands {
			sig, err := in.Execute(sub, frame)
			if err != nil {
				return Signal{}, err
			}

			if sig.Flow != Normal {
				return sig, nil
			}

			last = sig
		}

		return last, nil

	case *ast.Break:
		return Signal{Flow: Break, Value: runtime.Undefined}, nil

	case *ast.Continue:
		return Signal{Flow: Continue, Value: runtime.Undefined}, nil

	case *ast.DefineFunction:
		in.define(c, frame)

		return done, nil

	default:
		return Signal{}, ast.ErrUnsupportedNode.With(slog.String("kind", ast.Kind(cmd)))
	}
}

func (in *Interpreter) set(c *ast.Set, frame *Frame) (Signal, error) {
	var (
		read  func() (runtime.Value, error)
		write func(runtime.Value) error
	)

	switch target := c.Target.(type) {
	case *ast.LocalVariable:
		f, err := variableFrame(frame, target)
		if err != nil {
			return Signal{}, err
		}

		read = func() (runtime.Value, error) { return f.Get(target.Slot), nil }
		write = func(v runtime.Value) error {
			f.Set(target.Slot, v)

			return nil
		}

	case *ast.Dot:
		obj, err := in.object(target.Target, target.Name, frame)
		if err != nil {
			return Signal{}, err
		}

		read = func() (runtime.Value, error) { return obj.GetValue(target.Name), nil }
		write = func(v runtime.Value) error { return runtime.SetProperty(obj, target.Name, v) }

	default:
		return Signal{}, ast.ErrUnsupportedNode.With(slog.String("kind", ast.Kind(c.Target)))
	}

	return in.store(c.Operator, c.Value, frame, read, write)
}

// setArray resolves the base, then the index arguments left to right,
// then the value. Base and arguments are evaluated once.
func (in *Interpreter) setArray(c *ast.SetArray, frame *Frame) (Signal, error) {
	obj, err := in.object(c.Target, "[]", frame)
	if err != nil {
		return Signal{}, err
	}

	args, err := in.arguments(c.Arguments, frame)
	if err != nil {
		return Signal{}, err
	}

	return in.store(c.Operator, c.Value, frame,
		func() (runtime.Value, error) { return getIndex(obj, args) },
		func(v runtime.Value) error { return setIndex(obj, args, v) },
	)
}

// store evaluates value and writes it through write. A compound operator
// reads the old value first and writes the combination of the two.
func (in *Interpreter) store(
	op ast.AssignOperator,
	value ast.Expression,
	frame *Frame,
	read func() (runtime.Value, error),
	write func(runtime.Value) error,
) (Signal, error) {
	binary, compound := op.Binary()

	var old runtime.Value

	if compound {
		var err error
		if old, err = read(); err != nil {
			return Signal{}, err
		}
	}

	v, err := in.Evaluate(value, frame)
	if err != nil {
		return Signal{}, err
	}

	if compound {
		if v, err = arithmetic(binary, old, v); err != nil {
			return Signal{}, err
		}
	}

	if err := write(v); err != nil {
		return Signal{}, err
	}

	return normal(v), nil
}

// loop runs body while cond is truthy, running end after each iteration
// that completes or continues. A nil cond is always true.
func (in *Interpreter) loop(frame *Frame, cond ast.Expression, body, end ast.Command) (Signal, error) {
	for {
		if err := in.interrupted(); err != nil {
			return Signal{}, err
		}

		if cond != nil {
			v, err := in.Evaluate(cond, frame)
			if err != nil {
				return Signal{}, err
			}

			if !runtime.Truthy(v) {
				return done, nil
			}
		}

		sig, err := in.Execute(body, frame)
		if err != nil {
			return Signal{}, err
		}

		switch sig.Flow {
		case Return:
			return sig, nil
		case Break:
			return done, nil
		case Normal, Continue:
		}

		if end != nil {
			if _, err := in.Execute(end, frame); err != nil {
				return Signal{}, err
			}
		}
	}
}

// forEach binds the loop variable to each member name of the iterable in
// enumeration order. Null and undefined iterate zero times.
func (in *Interpreter) forEach(c *ast.ForEach, frame *Frame) (Signal, error) {
	v, err := in.Evaluate(c.Iterable, frame)
	if err != nil {
		return Signal{}, err
	}

	if v == nil || v == runtime.Undefined {
		return done, nil
	}

	obj, err := runtime.AsObject(v)
	if err != nil {
		return Signal{}, err
	}

	for _, name := range obj.GetNames() {
		if err := in.interrupted(); err != nil {
			return Signal{}, err
		}

		frame.Set(c.Slot, name)

		sig, err := in.Execute(c.Body, frame)
		if err != nil {
			return Signal{}, err
		}

		switch sig.Flow {
		case Return:
			return sig, nil
		case Break:
			return done, nil
		case Normal, Continue:
		}
	}

	return done, nil
}

// Package runtime defines script values and the object protocol through
// which the evaluator reaches properties, indices, and invocations.
//
// Scalar values are plain Go values: int, float64, string, bool, nil for
// null, and [Undefined]. Structured values implement [Object].
package runtime

import "log/slog"

// Value is any script value.
type Value = any

// UndefinedType is the type of [Undefined].
type UndefinedType struct{}

func (UndefinedType) String() string { return "undefined" }

// MarshalText renders undefined in data dumps.
func (UndefinedType) MarshalText() ([]byte, error) { return []byte("undefined"), nil }

// Undefined is the value of uninitialized variables and missing properties.
//
//nolint:gochecknoglobals
var Undefined = UndefinedType{}

// Object is the capability interface shared by every structured value.
type Object interface {
	// Function returns the constructor associated with the object, or nil.
	Function() Callable
	// GetValue returns the named property, or Undefined if absent.
	GetValue(name string) Value
	// SetValue creates or replaces the named property.
	SetValue(name string, value Value)
	// GetNames returns the property names in enumeration order.
	GetNames() []string
	// Invoke calls the named member with the object as receiver.
	Invoke(name string, args []Value) (Value, error)
	// InvokeCallable calls fn with the object as receiver.
	InvokeCallable(fn Callable, args []Value) (Value, error)
}

// Callable is a value that can be called.
type Callable interface {
	Call(this Object, args []Value) (Value, error)
}

// Constructor is implemented by callables with their own construction
// behavior for the new operator.
type Constructor interface {
	Construct(args []Value) (Value, error)
}

// Indexer is implemented by objects with indexed access.
type Indexer interface {
	GetIndex(args []Value) (Value, error)
	SetIndex(args []Value, value Value) error
}

// PropertySetter is implemented by objects that can refuse a property
// write. [Object.SetValue] on such an object drops a write that
// SetProperty would reject.
type PropertySetter interface {
	SetProperty(name string, value Value) error
}

// SetProperty writes the named property of obj, reporting the error of a
// [PropertySetter] that rejects it.
func SetProperty(obj Object, name string, value Value) error {
	if ps, ok := obj.(PropertySetter); ok {
		return ps.SetProperty(name, value)
	}

	obj.SetValue(name, value)

	return nil
}

// invokeMember implements [Object.Invoke] in terms of GetValue.
func invokeMember(o Object, name string, args []Value) (Value, error) {
	member := o.GetValue(name)
	if member == Undefined {
		return nil, ErrUndefinedProperty.With(slog.String("name", name))
	}

	fn, ok := member.(Callable)
	if !ok {
		return nil, ErrNotCallable.With(
			slog.String("name", name),
			slog.String("type", TypeOf(member)),
		)
	}

	return fn.Call(o, args)
}

// AsObject returns v viewed through the object protocol. Strings are boxed
// as [StringObject]; other scalars have no properties.
func AsObject(v Value) (Object, error) {
	switch v := v.(type) {
	case Object:
		return v, nil
	case string:
		return NewString(v), nil
	default:
		return nil, ErrTypeMismatch.With(
			slog.String("want", "object"),
			slog.String("type", TypeOf(v)),
		)
	}
}

// Call invokes fn with receiver this, failing when fn is not callable.
func Call(fn Value, this Object, args []Value) (Value, error) {
	c, ok := fn.(Callable)
	if !ok {
		return nil, ErrNotCallable.With(slog.String("type", TypeOf(fn)))
	}

	return c.Call(this, args)
}

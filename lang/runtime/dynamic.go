package runtime

import "log/slog"

// DynamicObject is a user object with properties kept in insertion order.
type DynamicObject struct {
	ctor   Callable
	names  []string
	values map[string]Value
}

// NewObject returns an empty object whose constructor is ctor, which may
// be nil.
func NewObject(ctor Callable) *DynamicObject {
	return &DynamicObject{ctor: ctor, values: make(map[string]Value)}
}

// Function returns the constructor the object was created with.
func (o *DynamicObject) Function() Callable { return o.ctor }

// GetValue returns the named property, or Undefined.
func (o *DynamicObject) GetValue(name string) Value {
	if v, ok := o.values[name]; ok {
		return v
	}

	return Undefined
}

// SetValue creates or replaces the named property.
func (o *DynamicObject) SetValue(name string, value Value) {
	if o.values == nil {
		o.values = make(map[string]Value)
	}

	if _, ok := o.values[name]; !ok {
		o.names = append(o.names, name)
	}

	o.values[name] = value
}

// Has reports whether the object holds the named property.
func (o *DynamicObject) Has(name string) bool {
	_, ok := o.values[name]

	return ok
}

// GetNames returns the property names in insertion order.
func (o *DynamicObject) GetNames() []string {
	return append([]string(nil), o.names...)
}

// Len returns the number of properties.
func (o *DynamicObject) Len() int { return len(o.names) }

// Invoke calls the named member with o as receiver.
func (o *DynamicObject) Invoke(name string, args []Value) (Value, error) {
	return invokeMember(o, name, args)
}

// InvokeCallable calls fn with o as receiver.
func (o *DynamicObject) InvokeCallable(fn Callable, args []Value) (Value, error) {
	return fn.Call(o, args)
}

// GetIndex reads the property named by the single key argument.
func (o *DynamicObject) GetIndex(args []Value) (Value, error) {
	key, err := propertyKey(args)
	if err != nil {
		return nil, err
	}

	return o.GetValue(key), nil
}

// SetIndex writes the property named by the single key argument.
func (o *DynamicObject) SetIndex(args []Value, value Value) error {
	key, err := propertyKey(args)
	if err != nil {
		return err
	}

	o.SetValue(key, value)

	return nil
}

func propertyKey(args []Value) (string, error) {
	if len(args) != 1 {
		return "", ErrArgumentCount.With(
			slog.Int("want", 1),
			slog.Int("got", len(args)),
		)
	}

	return ToString(args[0]), nil
}

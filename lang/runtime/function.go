package runtime

// NativeFunction is a callable implemented in Go.
type NativeFunction struct {
	name      string
	fn        func(this Object, args []Value) (Value, error)
	construct func(args []Value) (Value, error)
	props     *DynamicObject
}

// NewFunction returns a NativeFunction named name that runs fn.
func NewFunction(name string, fn func(this Object, args []Value) (Value, error)) *NativeFunction {
	return &NativeFunction{name: name, fn: fn}
}

// WithConstructor sets the behavior of the new operator for f and
// returns f.
func (f *NativeFunction) WithConstructor(construct func(args []Value) (Value, error)) *NativeFunction {
	f.construct = construct

	return f
}

// Name returns the function name.
func (f *NativeFunction) Name() string { return f.name }

func (f *NativeFunction) String() string { return "function " + f.name + "() { [native code] }" }

// Call runs the function.
func (f *NativeFunction) Call(this Object, args []Value) (Value, error) {
	return f.fn(this, args)
}

// Construct runs the constructor set with WithConstructor, or calls the
// function with a fresh object as receiver.
func (f *NativeFunction) Construct(args []Value) (Value, error) {
	if f.construct != nil {
		return f.construct(args)
	}

	obj := NewObject(f)

	v, err := f.fn(obj, args)
	if err != nil {
		return nil, err
	}

	if o, ok := v.(Object); ok {
		return o, nil
	}

	return obj, nil
}

// Function returns nil.
func (f *NativeFunction) Function() Callable { return nil }

// GetValue returns the function name or an attached property.
func (f *NativeFunction) GetValue(name string) Value {
	if name == "name" {
		return f.name
	}

	if f.props == nil {
		return Undefined
	}

	return f.props.GetValue(name)
}

// SetValue attaches a property to the function.
func (f *NativeFunction) SetValue(name string, value Value) {
	if f.props == nil {
		f.props = NewObject(nil)
	}

	f.props.SetValue(name, value)
}

// GetNames returns the attached property names.
func (f *NativeFunction) GetNames() []string {
	if f.props == nil {
		return nil
	}

	return f.props.GetNames()
}

// Invoke calls an attached member with f as receiver.
func (f *NativeFunction) Invoke(name string, args []Value) (Value, error) {
	return invokeMember(f, name, args)
}

// InvokeCallable calls fn with f as receiver.
func (f *NativeFunction) InvokeCallable(fn Callable, args []Value) (Value, error) {
	return fn.Call(f, args)
}

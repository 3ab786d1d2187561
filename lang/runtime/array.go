package runtime

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// MaxLength is the largest length an array may grow to by index or length
// writes, pushes, or construction.
const MaxLength = 1 << 24

// Array is an ordered, growable list of values. Its indices enumerate as
// property names.
type Array struct {
	elems []Value
	props *DynamicObject
}

// NewArray returns an array holding elems.
func NewArray(elems ...Value) *Array {
	return &Array{elems: elems}
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elems) }

// Elements returns a copy of the elements.
func (a *Array) Elements() []Value { return slices.Clone(a.elems) }

// At returns element i, or Undefined when i is out of range.
func (a *Array) At(i int) Value {
	if i < 0 || i >= len(a.elems) {
		return Undefined
	}

	return a.elems[i]
}

// Push appends values and returns the new length.
func (a *Array) Push(values ...Value) int {
	a.elems = append(a.elems, values...)

	return len(a.elems)
}

// Function returns nil; arrays have no user constructor.
func (a *Array) Function() Callable { return nil }

// GetValue returns an element for numeric names, the length, an array
// method, or an ad hoc property.
func (a *Array) GetValue(name string) Value {
	if i, ok := arrayIndex(name); ok {
		return a.At(i)
	}

	if name == "length" {
		return len(a.elems)
	}

	if m, ok := arrayMethods[name]; ok {
		return m
	}

	if a.props != nil {
		return a.props.GetValue(name)
	}

	return Undefined
}

// SetValue is SetProperty without the error. A write that would grow the
// array past [MaxLength] is dropped.
func (a *Array) SetValue(name string, value Value) {
	_ = a.SetProperty(name, value)
}

// SetProperty writes an element for numeric names, resizes the array when
// name is length, and stores any other name as a property. A length that
// is not a non-negative integer is ignored.
func (a *Array) SetProperty(name string, value Value) error {
	if i, ok := arrayIndex(name); ok {
		return a.set(i, value)
	}

	if name == "length" {
		if n, ok := ToInt(value); ok && n >= 0 {
			return a.SetLength(n)
		}

		return nil
	}

	if a.props == nil {
		a.props = NewObject(nil)
	}

	a.props.SetValue(name, value)

	return nil
}

// SetLength truncates the array to n elements or pads it with Undefined.
// Growing past [MaxLength] fails with [ErrIndexOutOfRange].
func (a *Array) SetLength(n int) error {
	if n > MaxLength {
		return ErrIndexOutOfRange.With(
			slog.Int("length", n),
			slog.Int("max", MaxLength),
		)
	}

	if grow := n - len(a.elems); grow > 0 {
		a.elems = slices.Grow(a.elems, grow)
		for range grow {
			a.elems = append(a.elems, Undefined)
		}
	}

	a.elems = a.elems[:n]

	return nil
}

// GetNames returns the element indices followed by ad hoc properties.
func (a *Array) GetNames() []string {
	names := make([]string, 0, len(a.elems))

	for i := range a.elems {
		names = append(names, strconv.Itoa(i))
	}

	if a.props != nil {
		names = append(names, a.props.GetNames()...)
	}

	return names
}

// Invoke calls the named array method or property.
func (a *Array) Invoke(name string, args []Value) (Value, error) {
	return invokeMember(a, name, args)
}

// InvokeCallable calls fn with a as receiver.
func (a *Array) InvokeCallable(fn Callable, args []Value) (Value, error) {
	return fn.Call(a, args)
}

// GetIndex returns the element at the single integer argument.
func (a *Array) GetIndex(args []Value) (Value, error) {
	i, err := a.index(args)
	if err != nil {
		return nil, err
	}

	if i >= len(a.elems) {
		return nil, ErrIndexOutOfRange.With(
			slog.Int("index", i),
			slog.Int("length", len(a.elems)),
		)
	}

	return a.elems[i], nil
}

// SetIndex stores value at the single integer argument, growing the array
// with Undefined as needed up to [MaxLength].
func (a *Array) SetIndex(args []Value, value Value) error {
	i, err := a.index(args)
	if err != nil {
		return err
	}

	return a.set(i, value)
}

func (a *Array) index(args []Value) (int, error) {
	if len(args) != 1 {
		return 0, ErrArgumentCount.With(
			slog.Int("want", 1),
			slog.Int("got", len(args)),
		)
	}

	i, ok := ToInt(args[0])
	if !ok {
		return 0, ErrTypeMismatch.With(
			slog.String("want", "integer index"),
			slog.String("type", TypeOf(args[0])),
		)
	}

	if i < 0 {
		return 0, ErrIndexOutOfRange.With(slog.Int("index", i))
	}

	return i, nil
}

// Join concatenates the string forms of the elements separated by sep.
// Null and undefined elements contribute empty strings.
func (a *Array) Join(sep string) string {
	parts := make([]string, len(a.elems))

	for i, e := range a.elems {
		if e != nil && e != Undefined {
			parts[i] = ToString(e)
		}
	}

	return strings.Join(parts, sep)
}

func (a *Array) set(i int, value Value) error {
	if i >= len(a.elems) {
		if i >= MaxLength {
			return ErrIndexOutOfRange.With(
				slog.Int("index", i),
				slog.Int("max", MaxLength),
			)
		}

		if err := a.SetLength(i + 1); err != nil {
			return err
		}
	}

	a.elems[i] = value

	return nil
}

func arrayIndex(name string) (int, bool) {
	if name == "" || (len(name) > 1 && name[0] == '0') {
		return 0, false
	}

	i, err := strconv.Atoi(name)
	if err != nil || i < 0 {
		return 0, false
	}

	return i, true
}

// arrayMethods are the members every array responds to.
//
//nolint:gochecknoglobals
var arrayMethods = map[string]*NativeFunction{
	"push": NewFunction("push", func(this Object, args []Value) (Value, error) {
		a, err := arrayReceiver(this)
		if err != nil {
			return nil, err
		}

		if n := a.Len() + len(args); n > MaxLength {
			return nil, ErrIndexOutOfRange.With(
				slog.Int("length", n),
				slog.Int("max", MaxLength),
			)
		}

		return a.Push(args...), nil
	}),
	"pop": NewFunction("pop", func(this Object, _ []Value) (Value, error) {
		a, err := arrayReceiver(this)
		if err != nil {
			return nil, err
		}

		if len(a.elems) == 0 {
			return Undefined, nil
		}

		last := a.elems[len(a.elems)-1]
		a.elems = a.elems[:len(a.elems)-1]

		return last, nil
	}),
	"join": NewFunction("join", func(this Object, args []Value) (Value, error) {
		a, err := arrayReceiver(this)
		if err != nil {
			return nil, err
		}

		sep := ","
		if len(args) > 0 && args[0] != Undefined {
			sep = ToString(args[0])
		}

		return a.Join(sep), nil
	}),
	"indexOf": NewFunction("indexOf", func(this Object, args []Value) (Value, error) {
		a, err := arrayReceiver(this)
		if err != nil {
			return nil, err
		}

		if len(args) == 0 {
			return -1, nil
		}

		for i, e := range a.elems {
			if StrictEqual(e, args[0]) {
				return i, nil
			}
		}

		return -1, nil
	}),
	"slice": NewFunction("slice", func(this Object, args []Value) (Value, error) {
		a, err := arrayReceiver(this)
		if err != nil {
			return nil, err
		}

		start, end := sliceBounds(len(a.elems), args)

		return NewArray(slices.Clone(a.elems[start:end])...), nil
	}),
}

func arrayReceiver(this Object) (*Array, error) {
	a, ok := this.(*Array)
	if !ok {
		return nil, ErrTypeMismatch.With(slog.String("want", "array receiver"))
	}

	return a, nil
}

// sliceBounds resolves optional start and end arguments against n,
// counting negative values from the end.
func sliceBounds(n int, args []Value) (int, int) {
	bound := func(i int, def int) int {
		if i >= len(args) || args[i] == Undefined {
			return def
		}

		v, ok := ToInt(args[i])
		if !ok {
			return def
		}

		if v < 0 {
			v += n
		}

		return min(max(v, 0), n)
	}

	start, end := bound(0, 0), bound(1, n)
	if end < start {
		end = start
	}

	return start, end
}

package runtime

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// StringObject boxes a string so its characters and methods are reachable
// through the object protocol. Boxed strings are immutable; SetValue is
// ignored.
type StringObject struct {
	value string
}

// NewString boxes s.
func NewString(s string) *StringObject { return &StringObject{value: s} }

func (s *StringObject) String() string { return s.value }

// Function returns nil.
func (s *StringObject) Function() Callable { return nil }

// GetValue returns a character for numeric names, the length in runes, or
// a string method.
func (s *StringObject) GetValue(name string) Value {
	if i, ok := arrayIndex(name); ok {
		return s.charAt(i)
	}

	if name == "length" {
		return utf8.RuneCountInString(s.value)
	}

	if m, ok := stringMethods[name]; ok {
		return m
	}

	return Undefined
}

// SetValue does nothing.
func (s *StringObject) SetValue(string, Value) {}

// GetNames returns the character indices.
func (s *StringObject) GetNames() []string {
	n := utf8.RuneCountInString(s.value)
	names := make([]string, n)

	for i := range n {
		names[i] = strconv.Itoa(i)
	}

	return names
}

// Invoke calls the named string method.
func (s *StringObject) Invoke(name string, args []Value) (Value, error) {
	return invokeMember(s, name, args)
}

// InvokeCallable calls fn with s as receiver.
func (s *StringObject) InvokeCallable(fn Callable, args []Value) (Value, error) {
	return fn.Call(s, args)
}

func (s *StringObject) charAt(i int) Value {
	r := []rune(s.value)
	if i < 0 || i >= len(r) {
		return Undefined
	}

	return string(r[i])
}

//nolint:gochecknoglobals
var stringMethods = map[string]*NativeFunction{
	"charAt": NewFunction("charAt", func(this Object, args []Value) (Value, error) {
		s := receiverString(this)

		i, _ := ToInt(argAt(args, 0))
		if c, ok := NewString(s).charAt(i).(string); ok {
			return c, nil
		}

		return "", nil
	}),
	"indexOf": NewFunction("indexOf", func(this Object, args []Value) (Value, error) {
		s := receiverString(this)

		i := strings.Index(s, ToString(argAt(args, 0)))
		if i < 0 {
			return -1, nil
		}

		return utf8.RuneCountInString(s[:i]), nil
	}),
	"substring": NewFunction("substring", func(this Object, args []Value) (Value, error) {
		r := []rune(receiverString(this))
		start, end := sliceBounds(len(r), args)

		return string(r[start:end]), nil
	}),
	"toUpperCase": NewFunction("toUpperCase", func(this Object, _ []Value) (Value, error) {
		return strings.ToUpper(receiverString(this)), nil
	}),
	"toLowerCase": NewFunction("toLowerCase", func(this Object, _ []Value) (Value, error) {
		return strings.ToLower(receiverString(this)), nil
	}),
}

func receiverString(this Object) string {
	if s, ok := this.(*StringObject); ok {
		return s.value
	}

	return ToString(this)
}

func argAt(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}

	return Undefined
}

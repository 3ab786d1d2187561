package runtime

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b Value) (Value, error)
		a, b Value
		want Value
		err  error
	}{
		{"int add", Add, 1, 2, 3, nil},
		{"mixed add", Add, 1, 0.5, 1.5, nil},
		{"concat", Add, "a", 1, "a1", nil},
		{"concat number", Add, 1, "x", "1x", nil},
		{"add bool", Add, true, 1, nil, ErrTypeMismatch},
		{"subtract", Subtract, 5, 7, -2, nil},
		{"multiply", Multiply, 3, 4, 12, nil},
		{"exact divide", Divide, 6, 3, 2, nil},
		{"inexact divide", Divide, 7, 2, 3.5, nil},
		{"divide by zero", Divide, 1, 0, nil, ErrDivideByZero},
		{"real divide by zero", Divide, 1.0, 0.0, nil, ErrDivideByZero},
		{"modulo", Modulo, 7, 3, 1, nil},
		{"negative modulo", Modulo, -7, 3, -1, nil},
		{"modulo by zero", Modulo, 7, 0, nil, ErrDivideByZero},
		{"subtract string", Subtract, "a", 1, nil, ErrTypeMismatch},
		{"undefined operand", Multiply, Undefined, 1, nil, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)

			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("error = %v, want %v", err, tt.err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNegate(t *testing.T) {
	if v, err := Negate(2); err != nil || v != -2 {
		t.Errorf("Negate(2) = %v, %v", v, err)
	}

	if _, err := Negate("x"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Negate(string) error = %v", err)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b Value) (bool, error)
		a, b Value
		want bool
	}{
		{"less ints", Less, 1, 2, true},
		{"less mixed", Less, 2, 1.5, false},
		{"less equal", LessEqual, 2, 2, true},
		{"greater strings", Greater, "b", "a", true},
		{"greater equal", GreaterEqual, 1, 2, false},
		{"nan less", Less, math.NaN(), 1, false},
		{"nan greater", Greater, math.NaN(), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := Less("a", 1); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Less(string, int) error = %v", err)
	}
}

func TestEquality(t *testing.T) {
	obj := NewObject(nil)

	tests := []struct {
		a, b  Value
		loose bool
	}{
		{1, 1.0, true},
		{"a", "a", true},
		{nil, Undefined, true},
		{obj, obj, true},
		{obj, NewObject(nil), false},
		{1, "1", false},
		{true, 1, false},
	}

	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.loose {
			t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.loose)
		}
	}

	if StrictEqual(nil, Undefined) {
		t.Error("StrictEqual(null, undefined) = true")
	}
}

func TestTruthyAndTypeOf(t *testing.T) {
	tests := []struct {
		v      Value
		truthy bool
		typ    string
	}{
		{Undefined, false, "undefined"},
		{nil, false, "null"},
		{0, false, "number"},
		{0.5, true, "number"},
		{"", false, "string"},
		{"x", true, "string"},
		{true, true, "boolean"},
		{NewArray(), true, "object"},
		{NewFunction("f", nil), true, "function"},
	}

	for _, tt := range tests {
		if got := Truthy(tt.v); got != tt.truthy {
			t.Errorf("Truthy(%v) = %v", tt.v, got)
		}

		if got := TypeOf(tt.v); got != tt.typ {
			t.Errorf("TypeOf(%v) = %q, want %q", tt.v, got, tt.typ)
		}
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{1, "1"},
		{1.5, "1.5"},
		{2.0, "2"},
		{1e21, "1e+21"},
		{Undefined, "undefined"},
		{nil, "null"},
		{NewArray(1, "a", nil), "1,a,"},
		{NewObject(nil), "[object Object]"},
		{NewString("s"), "s"},
	}

	for _, tt := range tests {
		if got := ToString(tt.v); got != tt.want {
			t.Errorf("ToString(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestDynamicObject(t *testing.T) {
	ctor := NewFunction("Person", nil)
	obj := NewObject(ctor)

	obj.SetValue("name", "Adam")
	obj.SetValue("age", 800)
	obj.SetValue("name", "Eve")

	if obj.Function() != ctor {
		t.Error("Function() is not the constructor")
	}

	if got := obj.GetNames(); !slices.Equal(got, []string{"name", "age"}) {
		t.Errorf("GetNames() = %v", got)
	}

	if obj.GetValue("name") != "Eve" || obj.GetValue("missing") != Undefined {
		t.Error("GetValue mismatch")
	}

	obj.SetValue("greet", NewFunction("greet", func(this Object, args []Value) (Value, error) {
		return ToString(this.GetValue("name")) + ToString(args[0]), nil
	}))

	got, err := obj.Invoke("greet", []Value{"!"})
	if err != nil || got != "Eve!" {
		t.Errorf("Invoke(greet) = %v, %v", got, err)
	}

	if _, err := obj.Invoke("missing", nil); !errors.Is(err, ErrUndefinedProperty) {
		t.Errorf("Invoke(missing) error = %v", err)
	}

	if _, err := obj.Invoke("age", nil); !errors.Is(err, ErrNotCallable) {
		t.Errorf("Invoke(age) error = %v", err)
	}

	if err := obj.SetIndex([]Value{1}, "one"); err != nil {
		t.Fatal(err)
	}

	if v, _ := obj.GetIndex([]Value{"1"}); v != "one" {
		t.Errorf("GetIndex(1) = %v", v)
	}
}

func TestArray(t *testing.T) {
	a := NewArray(1, 2)

	if n, _ := a.Invoke("push", []Value{3}); n != 3 {
		t.Errorf("push returned %v", n)
	}

	if got := a.GetNames(); !slices.Equal(got, []string{"0", "1", "2"}) {
		t.Errorf("GetNames() = %v", got)
	}

	if a.GetValue("length") != 3 || a.GetValue("1") != 2 {
		t.Error("length or element read mismatch")
	}

	if err := a.SetIndex([]Value{5}, "x"); err != nil {
		t.Fatal(err)
	}

	if a.Len() != 6 || a.At(4) != Undefined {
		t.Errorf("SetIndex did not grow: %v", a.Elements())
	}

	if _, err := a.GetIndex([]Value{10}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("GetIndex(10) error = %v", err)
	}

	if _, err := a.GetIndex([]Value{"x"}); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("GetIndex(x) error = %v", err)
	}

	if v, _ := a.Invoke("pop", nil); v != "x" {
		t.Errorf("pop = %v", v)
	}

	if v, _ := a.Invoke("indexOf", []Value{3.0}); v != 2 {
		t.Errorf("indexOf(3) = %v", v)
	}

	s, _ := a.Invoke("slice", []Value{1, -1})
	if got := ToString(s); got != "2,3," {
		t.Errorf("slice(1, -1) = %q", got)
	}

	if v, _ := a.Invoke("join", []Value{"-"}); v != "1-2-3--" {
		t.Errorf("join = %v", v)
	}

	a.SetValue("length", 1)

	if a.Len() != 1 {
		t.Errorf("length assignment left %d elements", a.Len())
	}
}

func TestArrayMaxLength(t *testing.T) {
	tests := []struct {
		name string
		grow func(a *Array) error
	}{
		{"index", func(a *Array) error { return a.SetIndex([]Value{MaxLength}, 1) }},
		{"far index", func(a *Array) error { return a.SetIndex([]Value{2000000000}, 1) }},
		{"numeric name", func(a *Array) error { return a.SetProperty("20000000", 1) }},
		{"length", func(a *Array) error { return a.SetProperty("length", MaxLength+1) }},
		{"real length", func(a *Array) error { return a.SetProperty("length", 1e12) }},
		{"set length", func(a *Array) error { return a.SetLength(1 << 40) }},
		{"generic setter", func(a *Array) error { return SetProperty(a, "length", 1<<40) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewArray(1, 2)

			if err := tt.grow(a); !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("error = %v, want %v", err, ErrIndexOutOfRange)
			}

			if a.Len() != 2 {
				t.Errorf("Len() = %d after failed growth, want 2", a.Len())
			}
		})
	}

	a := NewArray()

	a.SetValue("length", MaxLength+1)

	if a.Len() != 0 {
		t.Errorf("SetValue(length) grew past limit to %d", a.Len())
	}

	if err := a.SetLength(1000); err != nil || a.Len() != 1000 || a.At(999) != Undefined {
		t.Errorf("SetLength(1000) = %v, Len() = %d", err, a.Len())
	}
}

func TestStringObject(t *testing.T) {
	o, err := AsObject("héllo")
	if err != nil {
		t.Fatal(err)
	}

	if o.GetValue("length") != 5 || o.GetValue("1") != "é" {
		t.Error("length or character read mismatch")
	}

	tests := []struct {
		method string
		args   []Value
		want   Value
	}{
		{"charAt", []Value{4}, "o"},
		{"indexOf", []Value{"llo"}, 2},
		{"substring", []Value{1, 3}, "él"},
		{"toUpperCase", nil, "HÉLLO"},
	}

	for _, tt := range tests {
		if got, err := o.Invoke(tt.method, tt.args); err != nil || got != tt.want {
			t.Errorf("%s(%v) = %v, %v; want %v", tt.method, tt.args, got, err, tt.want)
		}
	}

	if _, err := AsObject(1); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("AsObject(1) error = %v", err)
	}
}

func TestNativeConstruct(t *testing.T) {
	f := NewFunction("Point", func(this Object, args []Value) (Value, error) {
		this.SetValue("x", args[0])

		return Undefined, nil
	})

	v, err := f.Construct([]Value{4})
	if err != nil {
		t.Fatal(err)
	}

	obj, ok := v.(*DynamicObject)
	if !ok || obj.GetValue("x") != 4 || obj.Function() != f {
		t.Errorf("Construct() = %#v", v)
	}
}

func TestNativeConversion(t *testing.T) {
	v := FromNative(map[string]any{
		"b": []any{int64(1), 2.5, "s"},
		"a": true,
	})

	obj, ok := v.(*DynamicObject)
	if !ok {
		t.Fatalf("FromNative(map) = %T", v)
	}

	if got := obj.GetNames(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("names = %v", got)
	}

	arr, ok := obj.GetValue("b").(*Array)
	if !ok || arr.At(0) != 1 || arr.At(1) != 2.5 {
		t.Errorf("array = %#v", obj.GetValue("b"))
	}

	back, ok := ToNative(obj).(map[string]any)
	if !ok || back["a"] != true {
		t.Errorf("ToNative() = %#v", back)
	}

	if ToNative(Undefined) != nil {
		t.Error("ToNative(Undefined) != nil")
	}
}

package eval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/lang/parser"
	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/lang/scope"
)

// run parses and executes src with a write function that records its
// arguments.
func run(t *testing.T, src string, opts ...Option) (runtime.Value, string, error) {
	t.Helper()

	prog, err := parser.New(src).ParseProgram()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	var out strings.Builder

	in := New(opts...)
	in.Global().SetValue("write", runtime.NewFunction("write",
		func(_ runtime.Object, args []runtime.Value) (runtime.Value, error) {
			for _, a := range args {
				out.WriteString(runtime.ToString(a))
			}

			return runtime.Undefined, nil
		}))

	v, err := in.Run(t.Context(), prog)

	return v, out.String(), err
}

func TestEvaluateConstantWithoutFrame(t *testing.T) {
	v, err := New().Evaluate(&ast.Constant{Value: 1}, nil)
	if err != nil || v != 1 {
		t.Errorf("Evaluate(1) = %v, %v", v, err)
	}
}

func TestRunResults(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want runtime.Value
	}{
		{"arithmetic", "1 + 2 * 3;", 7},
		{"left assoc", "10 - 2 - 3;", 5},
		{"inexact division", "7 / 2;", 3.5},
		{"concatenation", `"n=" + 4;`, "n=4"},
		{"comparison", "1 + 1 == 2;", true},
		{"not", "!0;", true},
		{"return", "var x = 2; return x * x; x = 0;", 4},
		{"var shadow", "var a = 1; var a = a + 1; a;", 2},
		{"compound", "var a = 5; a -= 2; a += 10; a;", 13},
		{"while", "var i = 0; while (i < 5) i++; i;", 5},
		{"for", "var s = 0; for (var k = 1; k <= 5; k++) s = s + k; s;", 15},
		{"for break", "var i = 0; for (;;) { i++; if (i == 3) break; } i;", 3},
		{"for continue", "var s = 0; for (var k = 0; k < 5; k++) { if (k % 2 == 0) continue; s += k; } s;", 4},
		{"for-in names", `var o = { x: 1, y: 2 }; var s = ""; for (var k in o) s = s + k; s;`, "xy"},
		{"for-in array", "var a = [5, 6, 7]; var s = 0; for (var i in a) s = s + a[i]; s;", 18},
		{"for-in null", "var n = 0; for (var k in null) n++; n;", 0},
		{"pre increment", "var a = 1; ++a;", 2},
		{"post increment", "var a = 1; a++;", 1},
		{"post decrement value", "var a = 1; a--; a;", 0},
		{"property increment", "var o = { n: 1 }; o.n++; ++o.n;", 3},
		{"array literal", "var a = [1, 2]; a.push(3); a.length;", 3},
		{"index assignment", "var a = []; a[2] = 'x'; a.join('-');", "--x"},
		{"nested index", "var m = [[0, 0], [0, 0]]; m[1][0] = 9; m[1][0];", 9},
		{"property assignment", `var p = {}; p.FirstName = "Adam"; p.FirstName;`, "Adam"},
		{"missing property", "var p = {}; p.x;", runtime.Undefined},
		{"string methods", `"abc".toUpperCase() + "xyz".length;`, "ABC3"},
		{"string index", `var s = "hey"; s[1];`, "e"},
		{"closure", "var f = function (x) { return x + 1; }; f(41);", 42},
		{"recursion", "function fact(n) { if (n <= 1) return 1; return n * fact(n - 1); } fact(5);", 120},
		{"hoisting", "var r = twice(4); function twice(x) { return x * 2; } r;", 8},
		{"root variable from function", "var base = 10; function add(x) { return base + x; } add(5);", 15},
		{"missing arguments", "function f(a, b) { return b; } f(1);", runtime.Undefined},
		{"method this", "var o = { n: 2, get: function () { return this.n; } }; o.get();", 2},
		{"constructor", "function P(n) { this.n = n; } var p = new P(7); p.n;", 7},
		{"constructor result", "function P() { return [1]; } var p = new P(); p.length;", 1},
		{"short circuit and", "var c = { n: 0 }; function hit() { c.n++; return true; } false && hit(); c.n;", 0},
		{"short circuit or", "var c = { n: 0 }; function hit() { c.n++; return true; } true || hit(); c.n;", 0},
		{"and evaluates right", "var c = { n: 0 }; function hit() { c.n++; return true; } true && hit(); c.n;", 1},
		{"for end skipped", "var e = 0; for (var i = 0; i < 0; e++) ; e;", 0},
		{"if else", "var r; if (1 > 2) r = 'a'; else r = 'b'; r;", "b"},
		{"compound index once", `var o = [10, 20, 30]; var i = 0; o[i++] += 1; o.join(",") + " i=" + i;`, "11,20,30 i=1"},
		{"compound arguments once", "var a = [1, 2]; var k = 0; function idx() { k++; return 1; } a[idx()] += 5; a[1] * 10 + k;", 71},
		{"compound property", "var o = { n: 1 }; o.n -= 3; o.n;", -2},
		{"enclosing local", "function outer() { var x = 5; var g = function () { return x; }; return g(); } outer();", 5},
		{"counter", "function counter() { var n = 0; return function () { n += 1; return n; }; } var c = counter(); c(); c(); c();", 3},
		{"independent closures", "function counter() { var n = 0; return function () { return ++n; }; } var a = counter(); var b = counter(); a(); a(); b();", 1},
		{"closure outlives call", "function make(k) { return function (x) { return k * x; }; } var triple = make(3); triple(7);", 21},
		{"nested declaration", "function outer() { function inner(n) { return n + 1; } return inner(1); } outer();", 2},
		{"nested recursion", "function outer(k) { function fact(n) { if (n <= 1) return 1; return n * fact(n - 1); } return fact(k); } outer(5);", 120},
		{"two levels up", "function a() { var v = 'a'; function b() { function c() { return v; } return c(); } return b(); } a();", "a"},
		{"hoisted before var", "function f() { return later; } var later = 9; f();", 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := run(t, tt.src)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRunWrite(t *testing.T) {
	_, out, err := run(t, `for (var k = 1; k <= 3; k++) write(k, ";");`)
	if err != nil {
		t.Fatal(err)
	}

	if out != "1;2;3;" {
		t.Errorf("output = %q", out)
	}
}

func TestRunFaults(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"undefined variable", "nope + 1;", runtime.ErrUndefinedVariable},
		{"property of undefined", "var u; u.x;", runtime.ErrUndefinedProperty},
		{"missing method", "var o = {}; o.f();", runtime.ErrUndefinedProperty},
		{"not callable", "var o = { f: 1 }; o.f();", runtime.ErrNotCallable},
		{"call number", "var n = 1; n();", runtime.ErrNotCallable},
		{"type mismatch", "true - 1;", runtime.ErrTypeMismatch},
		{"increment string", "var s = 'a'; s++;", runtime.ErrTypeMismatch},
		{"divide by zero", "1 / 0;", runtime.ErrDivideByZero},
		{"index out of range", "var a = [1]; a[3];", runtime.ErrIndexOutOfRange},
		{"stack overflow", "function f() { return f(); } f();", runtime.ErrStackOverflow},
		{"break outside loop", "break;", ErrControlFlow},
		{"property of number", "var n = 1; n.x;", runtime.ErrTypeMismatch},
		{"index past limit", "var a = []; a[2000000000] = 1;", runtime.ErrIndexOutOfRange},
		{"length past limit", "var a = []; a.length = 1e12;", runtime.ErrIndexOutOfRange},
		{"compound index past limit", "var a = []; a[1073741824] += 1;", runtime.ErrIndexOutOfRange},
		{"nested name outside", "function outer() { function inner() {} } inner();", runtime.ErrUndefinedVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.src, WithMaxDepth(50))
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFaultPosition(t *testing.T) {
	_, _, err := run(t, "var a = 1;\nvar b = a / 0;")

	var located *Error
	if !errors.As(err, &located) {
		t.Fatalf("error = %T %v", err, err)
	}

	if located.Pos.Line != 2 {
		t.Errorf("fault at %v, want line 2", located.Pos)
	}
}

func TestExecuteSignals(t *testing.T) {
	in := New()
	frame := NewFrame(0, nil)

	sig, err := in.Execute(&ast.Return{Value: &ast.Constant{Value: 3}}, frame)
	if err != nil || sig.Flow != Return || sig.Value != 3 {
		t.Errorf("return signal = %+v, %v", sig, err)
	}

	block := &ast.Composite{Commands: []ast.Command{
		&ast.Break{},
		&ast.Return{Value: &ast.Constant{Value: 1}},
	}}

	sig, err = in.Execute(block, frame)
	if err != nil || sig.Flow != Break {
		t.Errorf("composite did not stop at break: %+v, %v", sig, err)
	}
}

func TestExecSession(t *testing.T) {
	s := scope.New()
	in := New()
	frame := NewFrame(0, in.Global())

	for i, src := range []string{"var x = 40;", "x = x + 2;", "x;"} {
		prog, err := parser.New(src, parser.WithScope(s)).ParseProgram()
		if err != nil {
			t.Fatal(err)
		}

		v, err := in.Exec(t.Context(), prog, frame)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		if i == 2 && v != 42 {
			t.Errorf("x = %v, want 42", v)
		}
	}
}

func TestNestedDeclarationIsLocal(t *testing.T) {
	_, _, err := run(t, "function outer() { function inner() { return 1; } return inner(); } outer(); inner();")
	if !errors.Is(err, runtime.ErrUndefinedVariable) {
		t.Fatalf("error = %v, want %v", err, runtime.ErrUndefinedVariable)
	}

	in := New()

	prog, err := parser.New("function outer() { function inner() {} } outer();").ParseProgram()
	if err != nil {
		t.Fatal(err)
	}

	if _, err := in.Run(t.Context(), prog); err != nil {
		t.Fatal(err)
	}

	if in.Global().Has("inner") {
		t.Error("inner is a property of the global object")
	}

	if !in.Global().Has("outer") {
		t.Error("outer is not a property of the global object")
	}
}

func TestRunCanceled(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"while", "while (true) {}"},
		{"for", "for (;;) ;"},
		{"for-in", "var o = { a: 1 }; for (var k in o) ;"},
		{"in function", "function spin() { while (true) ; } spin();"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := parser.New(tt.src).ParseProgram()
			if err != nil {
				t.Fatal(err)
			}

			ctx, cancel := context.WithCancel(t.Context())
			cancel()

			if _, err := New().Run(ctx, prog); !errors.Is(err, context.Canceled) {
				t.Errorf("error = %v, want %v", err, context.Canceled)
			}
		})
	}
}

func TestUnsupportedNode(t *testing.T) {
	var bogus ast.Expression

	if _, err := New().Evaluate(bogus, nil); !errors.Is(err, ast.ErrUnsupportedNode) {
		t.Errorf("error = %v", err)
	}
}

package builtin

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/ajscript/lang/eval"
	"github.com/ardnew/ajscript/lang/parser"
	"github.com/ardnew/ajscript/lang/runtime"
)

func exec(t *testing.T, src string) (runtime.Value, string, error) {
	t.Helper()

	prog, err := parser.New(src).ParseProgram()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	var out strings.Builder

	in := eval.New()
	Register(in.Global(),
		WithOutput(&out),
		WithLookup(func(name string) (string, bool) {
			if name == "HOME" {
				return "/home/ajs", true
			}

			return "", false
		}),
	)

	v, err := in.Run(t.Context(), prog)

	return v, out.String(), err
}

func TestBuiltins(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want runtime.Value
	}{
		{"array of elements", "Array(1, 2, 3).join('');", "123"},
		{"array of length", "new Array(3).length;", 3},
		{"object", "var o = new Object(); o.x = 1; o.x;", 1},
		{"object passthrough", "var a = { k: 2 }; Object(a).k;", 2},
		{"env", "env('HOME');", "/home/ajs"},
		{"env default", "env('NOPE', 'x');", "x"},
		{"env missing", "env('NOPE');", runtime.Undefined},
		{"len string", "len('héllo');", 5},
		{"len array", "len([1, 2]);", 2},
		{"len object", "len({ a: 1, b: 2, c: 3 });", 3},
		{"typeof", "typeof(null) + typeof(len);", "nullfunction"},
		{"keys", "keys({ b: 1, a: 2 }).join(',');", "b,a"},
		{"jq single", "jq('.a.b', { a: { b: 7 } });", 7},
		{"jq string", `jq(".name | ascii_upcase", { name: "ajs" });`, "AJS"},
		{"jq many", "jq('.[] | . * 2', [1, 2, 3]).join(',');", "2,4,6"},
		{"jq none", "jq('empty', 1).length;", 0},
		{"jq object", "jq('{ n: (.xs | length) }', { xs: [1, 2] }).n;", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := exec(t, tt.src)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	_, out, err := exec(t, "write('a', 1); writeln(true); writeln();")
	if err != nil {
		t.Fatal(err)
	}

	if want := "a1true\n\n"; out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestFaults(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"jq syntax", "jq('.[', 1);", ErrQuery},
		{"jq runtime", "jq('.a', 1);", ErrQuery},
		{"jq arity", "jq('.');", runtime.ErrArgumentCount},
		{"jq filter type", "jq(1, 1);", runtime.ErrTypeMismatch},
		{"len number", "len(1);", runtime.ErrTypeMismatch},
		{"env arity", "env();", runtime.ErrArgumentCount},
		{"negative array", "new Array(-1);", runtime.ErrIndexOutOfRange},
		{"array past limit", "new Array(1000000000);", runtime.ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := exec(t, tt.src)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParameters(t *testing.T) {
	in := eval.New()
	Register(in.Global())

	for _, name := range in.Global().GetNames() {
		if _, ok := Parameters(name); !ok {
			t.Errorf("no parameters recorded for %s", name)
		}
	}

	p, _ := Parameters("env")
	p[0] = "changed"

	if q, _ := Parameters("env"); q[0] != "name" {
		t.Error("Parameters returned shared storage")
	}
}

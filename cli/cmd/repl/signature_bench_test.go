package repl

import (
	"testing"

	"github.com/ardnew/ajscript/lang"
)

// BenchmarkDetectFunctionCall benchmarks call detection on a nested
// expression with the cursor at the end.
func BenchmarkDetectFunctionCall(b *testing.B) {
	input := "writeln(host.path.cat(host.cwd(), 'a', [1, 2, 3]), keys({a: 1}), "

	for b.Loop() {
		_ = detectFunctionCall(input, len(input))
	}
}

// BenchmarkGetSignature_Builtin benchmarks the full signature lookup path
// for a native built-in.
func BenchmarkGetSignature_Builtin(b *testing.B) {
	session, err := lang.NewSession(b.Context())
	if err != nil {
		b.Fatalf("NewSession() error = %v", err)
	}

	for b.Loop() {
		_, _ = getSignature(session, "jq")
	}
}

// BenchmarkGetSignature_Closure benchmarks the full signature lookup path
// for a script function reached through a member chain.
func BenchmarkGetSignature_Closure(b *testing.B) {
	session, err := lang.NewSession(b.Context())
	if err != nil {
		b.Fatalf("NewSession() error = %v", err)
	}

	if _, err := session.Exec(b.Context(), "function add(x, y) { return x + y; } var math = {add: add};"); err != nil {
		b.Fatalf("Exec() error = %v", err)
	}

	for b.Loop() {
		_, _ = getSignature(session, "math.add")
	}
}

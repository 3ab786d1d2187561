package eval

import "github.com/ardnew/ajscript/lang/runtime"

// Flow is the control effect of executing a command.
type Flow int

const (
	// Normal continues with the next command.
	Normal Flow = iota
	// Return unwinds to the nearest invocation.
	Return
	// Break leaves the innermost loop.
	Break
	// Continue starts the next iteration of the innermost loop.
	Continue
)

func (f Flow) String() string {
	switch f {
	case Normal:
		return "normal"
	case Return:
		return "return"
	case Break:
		return "break"
	case Continue:
		return "continue"
	default:
		return "unknown"
	}
}

// Signal is the outcome of [Interpreter.Execute]. For Return it carries the
// returned value; for Normal it carries the value of the last expression
// command executed, or Undefined.
type Signal struct {
	Flow  Flow
	Value runtime.Value
}

func normal(v runtime.Value) Signal { return Signal{Flow: Normal, Value: v} }

//nolint:gochecknoglobals
var done = Signal{Flow: Normal, Value: runtime.Undefined}

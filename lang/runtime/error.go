package runtime

import "github.com/ardnew/ajscript/pkg"

// Evaluation faults. Each is a distinct sentinel so callers can classify a
// failure with [errors.Is].
var (
	ErrUndefinedVariable = pkg.NewError("undefined variable")
	ErrUndefinedProperty = pkg.NewError("undefined property")
	ErrNotCallable       = pkg.NewError("value is not callable")
	ErrTypeMismatch      = pkg.NewError("type mismatch")
	ErrDivideByZero      = pkg.NewError("division by zero")
	ErrIndexOutOfRange   = pkg.NewError("index out of range")
	ErrStackOverflow     = pkg.NewError("call depth exceeded")
	ErrInvalidOperand    = pkg.NewError("invalid operand")
	ErrArgumentCount     = pkg.NewError("wrong number of arguments")
)

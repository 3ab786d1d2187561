package ast

import "strconv"

// UnaryOperator selects the operation of an [ArithmeticUnary].
type UnaryOperator int

const (
	Minus UnaryOperator = iota
)

func (o UnaryOperator) String() string {
	if o == Minus {
		return "-"
	}

	return "UnaryOperator(" + strconv.Itoa(int(o)) + ")"
}

// BinaryOperator selects the operation of an [ArithmeticBinary].
type BinaryOperator int

const (
	Add BinaryOperator = iota
	Subtract
	Multiply
	Divide
	Modulo
)

func (o BinaryOperator) String() string {
	switch o {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulo:
		return "%"
	default:
		return "BinaryOperator(" + strconv.Itoa(int(o)) + ")"
	}
}

// CompareOperator selects the relation tested by a [Compare].
type CompareOperator int

const (
	Equal CompareOperator = iota
	NotEqual
	Less
	LessEqual
	Greater
	GreaterEqual
)

func (o CompareOperator) String() string {
	switch o {
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case Less:
		return "<"
	case LessEqual:
		return "<="
	case Greater:
		return ">"
	case GreaterEqual:
		return ">="
	default:
		return "CompareOperator(" + strconv.Itoa(int(o)) + ")"
	}
}

// IncrementOperator selects the form of an [Increment].
type IncrementOperator int

const (
	PreIncrement IncrementOperator = iota
	PreDecrement
	PostIncrement
	PostDecrement
)

func (o IncrementOperator) String() string {
	switch o {
	case PreIncrement, PostIncrement:
		return "++"
	case PreDecrement, PostDecrement:
		return "--"
	default:
		return "IncrementOperator(" + strconv.Itoa(int(o)) + ")"
	}
}

// IsPrefix reports whether the operator is written before its target.
func (o IncrementOperator) IsPrefix() bool {
	return o == PreIncrement || o == PreDecrement
}

// Delta returns the amount added to the target: +1 or -1.
func (o IncrementOperator) Delta() int {
	if o == PreDecrement || o == PostDecrement {
		return -1
	}

	return 1
}

// AssignOperator selects how a [Set] or [SetArray] combines its value with
// the target's current one.
type AssignOperator int

const (
	Assign AssignOperator = iota
	AddAssign
	SubtractAssign
)

func (o AssignOperator) String() string {
	switch o {
	case Assign:
		return "="
	case AddAssign:
		return "+="
	case SubtractAssign:
		return "-="
	default:
		return "AssignOperator(" + strconv.Itoa(int(o)) + ")"
	}
}

// Binary returns the arithmetic applied by a compound operator. It reports
// false for plain assignment.
func (o AssignOperator) Binary() (BinaryOperator, bool) {
	switch o {
	case AddAssign:
		return Add, true
	case SubtractAssign:
		return Subtract, true
	default:
		return 0, false
	}
}

// MarshalText encodes operators by their source spelling in tree dumps.
func (o UnaryOperator) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// MarshalText encodes operators by their source spelling in tree dumps.
func (o BinaryOperator) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// MarshalText encodes operators by their source spelling in tree dumps.
func (o CompareOperator) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// MarshalText encodes the increment form including its placement.
func (o IncrementOperator) MarshalText() ([]byte, error) {
	if o.IsPrefix() {
		return []byte(o.String() + "x"), nil
	}

	return []byte("x" + o.String()), nil
}

// MarshalText encodes operators by their source spelling in tree dumps.
func (o AssignOperator) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

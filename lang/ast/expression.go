package ast

import "github.com/ardnew/ajscript/lang/runtime"

// Constant is a literal value: an integer, real, string, boolean, null, or
// [runtime.Undefined].
type Constant struct {
	Span

	Value runtime.Value
}

// LocalVariable reads the frame slot assigned to a name at parse time.
// Depth counts the function boundaries between the reference and the unit
// that declared the name; zero is the current frame.
type LocalVariable struct {
	Span

	Name  string
	Slot  int
	Depth int
}

// GlobalVariable reads a name that had no slot when it was parsed. It is
// resolved against the global object during evaluation.
type GlobalVariable struct {
	Span

	Name string
}

// ArithmeticUnary applies a unary arithmetic operator to its operand.
type ArithmeticUnary struct {
	Span

	Operator UnaryOperator
	Operand  Expression
}

// ArithmeticBinary applies a binary arithmetic operator.
type ArithmeticBinary struct {
	Span

	Operator    BinaryOperator
	Left, Right Expression
}

// Compare tests a relation between two operands.
type Compare struct {
	Span

	Operator    CompareOperator
	Left, Right Expression
}

// And is short-circuit conjunction.
type And struct {
	Span

	Left, Right Expression
}

// Or is short-circuit disjunction.
type Or struct {
	Span

	Left, Right Expression
}

// Not is logical negation.
type Not struct {
	Span

	Operand Expression
}

// Increment adds or subtracts one from an assignable target and yields the
// old value for postfix forms or the new value for prefix forms.
type Increment struct {
	Span

	Operator IncrementOperator
	Target   Expression
}

// Dot reads the member Name of Target, or calls it when Call is set.
// Arguments is empty for property reads.
type Dot struct {
	Span

	Target    Expression
	Name      string
	Arguments []Expression
	Call      bool
}

// Index reads Target[Arguments...].
type Index struct {
	Span

	Target    Expression
	Arguments []Expression
}

// Invoke calls the value of Callee, which is not a member access.
type Invoke struct {
	Span

	Callee    Expression
	Arguments []Expression
}

// New constructs an object with Constructor.
type New struct {
	Span

	Constructor Expression
	Arguments   []Expression
}

// This reads the receiver of the current invocation.
type This struct {
	Span
}

// ArrayLiteral builds an array from its elements.
type ArrayLiteral struct {
	Span

	Elements []Expression
}

// ObjectLiteral builds an object whose properties are Keys[i]: Values[i].
type ObjectLiteral struct {
	Span

	Keys   []string
	Values []Expression
}

// Function is a function literal. Its body is a separate parse unit whose
// first slots hold the parameters.
type Function struct {
	Span

	Name       string
	Parameters []string
	Body       *Composite
	FrameSize  int
	Names      []string
}

func (*Constant) expressionNode()         {}
func (*LocalVariable) expressionNode()    {}
func (*GlobalVariable) expressionNode()   {}
func (*ArithmeticUnary) expressionNode()  {}
func (*ArithmeticBinary) expressionNode() {}
func (*Compare) expressionNode()          {}
func (*And) expressionNode()              {}
func (*Or) expressionNode()               {}
func (*Not) expressionNode()              {}
func (*Increment) expressionNode()        {}
func (*Dot) expressionNode()              {}
func (*Index) expressionNode()            {}
func (*Invoke) expressionNode()           {}
func (*New) expressionNode()              {}
func (*This) expressionNode()             {}
func (*ArrayLiteral) expressionNode()     {}
func (*ObjectLiteral) expressionNode()    {}
func (*Function) expressionNode()         {}

// IsAssignable reports whether e may be the target of an assignment or an
// increment.
func IsAssignable(e Expression) bool {
	switch e := e.(type) {
	case *LocalVariable:
		return true
	case *Dot:
		return !e.Call
	default:
		return false
	}
}

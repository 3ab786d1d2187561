package ast

// SetLocalVariable stores Value in a frame slot. It is produced by var
// declarations and by assignments to local names.
type SetLocalVariable struct {
	Span

	Name  string
	Slot  int
	Value Expression
}

// Set assigns Value to an assignable Target. A compound Operator reads the
// target once, combines it with Value, and stores the result in the same
// location.
type Set struct {
	Span

	Operator AssignOperator
	Target   Expression
	Value    Expression
}

// SetArray assigns Value to Target[Arguments...]. Arguments is never empty.
// Target and Arguments are evaluated once, even for compound operators.
type SetArray struct {
	Span

	Operator  AssignOperator
	Target    Expression
	Arguments []Expression
	Value     Expression
}

// Return leaves the current invocation. Value is nil for a bare return.
type Return struct {
	Span

	Value Expression
}

// If runs Then when Condition is truthy and Else (if any) otherwise.
type If struct {
	Span

	Condition Expression
	Then      Command
	Else      Command
}

// While runs Body as long as Condition is truthy.
type While struct {
	Span

	Condition Expression
	Body      Command
}

// For is the three-clause loop. Init, Condition and End are optional.
type For struct {
	Span

	Init      Command
	Condition Expression
	End       Command
	Body      Command
}

// ForEach runs Body once per member name of Iterable with the loop
// variable bound to that name.
type ForEach struct {
	Span

	Name     string
	Slot     int
	Iterable Expression
	Body     Command
}

// Composite is a block of commands run in order.
type Composite struct {
	Span

	Commands []Command
}

// CommandCount returns the number of commands in the block.
func (c *Composite) CommandCount() int { return len(c.Commands) }

// ExpressionCommand evaluates an expression for its side effects.
type ExpressionCommand struct {
	Span

	Expression Expression
}

// Break leaves the innermost loop.
type Break struct {
	Span
}

// Continue skips to the next iteration of the innermost loop.
type Continue struct {
	Span
}

// DefineFunction binds a named function declaration. Top-level
// declarations bind in the global object. Declarations inside a function
// body bind to Slot of the enclosing frame when Local is set.
type DefineFunction struct {
	Span

	Name     string
	Function *Function
	Slot     int
	Local    bool
}

func (*SetLocalVariable) commandNode()  {}
func (*Set) commandNode()               {}
func (*SetArray) commandNode()          {}
func (*Return) commandNode()            {}
func (*If) commandNode()                {}
func (*While) commandNode()             {}
func (*For) commandNode()               {}
func (*ForEach) commandNode()           {}
func (*Composite) commandNode()         {}
func (*ExpressionCommand) commandNode() {}
func (*Break) commandNode()             {}
func (*Continue) commandNode()          {}
func (*DefineFunction) commandNode()    {}

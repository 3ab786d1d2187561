// Package ast defines the syntax tree produced by the parser and walked by
// the evaluator.
//
// The tree has two closed node categories, [Expression] and [Command]. Both
// are sealed by unexported marker methods, so every node kind is declared
// in this package and consumers can switch over them exhaustively.
// Nodes are immutable once the parser returns them.
package ast

import (
	"github.com/ardnew/ajscript/lang/token"
	"github.com/ardnew/ajscript/pkg"
)

// ErrUnsupportedNode is returned by tree walkers that meet a node kind they
// do not handle.
var ErrUnsupportedNode = pkg.NewError("unsupported syntax node")

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() token.Position
}

// Expression is a node that produces a value.
//
//sumtype:decl
type Expression interface {
	Node
	expressionNode()
}

// Command is a node executed for its effect.
//
//sumtype:decl
type Command interface {
	Node
	commandNode()
}

// Span records where a node starts in its source.
type Span struct {
	Start token.Position `json:"pos" yaml:"pos"`
}

// Pos returns the position of the first token of the node.
func (s Span) Pos() token.Position { return s.Start }

// At returns a Span starting at pos.
func At(pos token.Position) Span { return Span{Start: pos} }

// Program is the root of one parse unit.
type Program struct {
	Span

	// Body holds the top-level commands in source order.
	Body *Composite
	// FrameSize is the number of slots the unit's activation frame needs.
	FrameSize int
	// Names holds the variable name of each slot, indexed by slot.
	Names []string
}

// Kind returns the node kind name of n as used in tree dumps.
func Kind(n Node) string {
	switch n.(type) {
	case *Program:
		return "Program"
	case *Constant:
		return "Constant"
	case *LocalVariable:
		return "LocalVariable"
	case *GlobalVariable:
		return "GlobalVariable"
	case *ArithmeticUnary:
		return "ArithmeticUnary"
	case *ArithmeticBinary:
		return "ArithmeticBinary"
	case *Compare:
		return "Compare"
	case *And:
		return "And"
	case *Or:
		return "Or"
	case *Not:
		return "Not"
	case *Increment:
		return "Increment"
	case *Dot:
		return "Dot"
	case *Index:
		return "Index"
	case *Invoke:
		return "Invoke"
	case *New:
		return "New"
	case *This:
		return "This"
	case *ArrayLiteral:
		return "ArrayLiteral"
	case *ObjectLiteral:
		return "ObjectLiteral"
	case *Function:
		return "Function"
	case *SetLocalVariable:
		return "SetLocalVariable"
	case *Set:
		return "Set"
	case *SetArray:
		return "SetArray"
	case *Return:
		return "Return"
	case *If:
		return "If"
	case *While:
		return "While"
	case *For:
		return "For"
	case *ForEach:
		return "ForEach"
	case *Composite:
		return "Composite"
	case *ExpressionCommand:
		return "Expression"
	case *Break:
		return "Break"
	case *Continue:
		return "Continue"
	case *DefineFunction:
		return "DefineFunction"
	default:
		return "Unknown"
	}
}

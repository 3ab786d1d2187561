package lang

import (
	"context"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/lang/token"
)

// FormatSource writes prog as script source. Reparsing the output yields
// an equivalent program. Blocks are indented by indent spaces, or by a tab
// when indent is not positive.
func FormatSource(_ context.Context, w io.Writer, prog *ast.Program, indent int) error {
	p := printer{unit: newUnit(nil), tab: "\t"}
	if indent > 0 {
		p.tab = strings.Repeat(" ", indent)
	}

	for _, cmd := range prog.Body.Commands {
		p.command(cmd)
		p.sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, p.sb.String())

	return err
}

// Binding strength of expression forms, loosest first.
const (
	precOr = iota + 1
	precAnd
	precCompare
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precPrimary
)

// unit tracks the slots already declared in one parse unit, so that the
// first store to a slot is written as a var declaration.
type unit map[int]bool

func newUnit(params []string) unit {
	u := make(unit, len(params))
	for i := range params {
		u[i] = true
	}

	return u
}

type printer struct {
	sb    strings.Builder
	tab   string
	depth int
	unit  unit
}

func (p *printer) newline() {
	p.sb.WriteByte('\n')
	p.sb.WriteString(strings.Repeat(p.tab, p.depth))
}

func (p *printer) write(s ...string) {
	for _, x := range s {
		p.sb.WriteString(x)
	}
}

// command writes cmd with its terminator.
//
//nolint:cyclop
func (p *printer) command(cmd ast.Command) {
	switch c := cmd.(type) {
	case *ast.Composite:
		p.block(c)
	case *ast.Return:
		p.write("return")

		if c.Value != nil {
			p.write(" ")
			p.expr(c.Value, 0)
		}

		p.write(";")
	case *ast.If:
		p.write("if (")
		p.expr(c.Condition, 0)
		p.write(")")

		then := c.Then
		if _, nested := then.(*ast.If); nested && c.Else != nil {
			then = &ast.Composite{Commands: []ast.Command{then}}
		}

		p.body(then)

		if c.Else == nil {
			break
		}

		if _, ok := then.(*ast.Composite); ok {
			p.write(" ")
		} else {
			p.newline()
		}

		p.write("else")

		if chain, ok := c.Else.(*ast.If); ok {
			p.write(" ")
			p.command(chain)
		} else {
			p.body(c.Else)
		}
	case *ast.While:
		p.write("while (")
		p.expr(c.Condition, 0)
		p.write(")")
		p.body(c.Body)
	case *ast.For:
		p.write("for (")

		if c.Init != nil {
			p.simple(c.Init)
		}

		p.write(";")

		if c.Condition != nil {
			p.write(" ")
			p.expr(c.Condition, 0)
		}

		p.write(";")

		if c.End != nil {
			p.write(" ")
			p.simple(c.End)
		}

		p.write(")")
		p.body(c.Body)
	case *ast.ForEach:
		p.unit[c.Slot] = true

		p.write("for (var ", c.Name, " in ")
		p.expr(c.Iterable, 0)
		p.write(")")
		p.body(c.Body)
	case *ast.Break:
		p.write("break;")
	case *ast.Continue:
		p.write("continue;")
	case *ast.DefineFunction:
		if c.Local {
			p.unit[c.Slot] = true
		}

		p.function(c.Function)
	default:
		p.simple(cmd)
		p.write(";")
	}
}

// simple writes an assignment or expression command without terminator.
func (p *printer) simple(cmd ast.Command) {
	switch c := cmd.(type) {
	case *ast.SetLocalVariable:
		if !p.unit[c.Slot] {
			p.unit[c.Slot] = true
			p.write("var ")
		}

		p.write(c.Name, " = ")
		p.expr(c.Value, precOr)
	case *ast.Set:
		p.expr(c.Target, precPostfix)
		p.write(" ", c.Operator.String(), " ")
		p.expr(c.Value, precOr)
	case *ast.SetArray:
		p.expr(c.Target, precPostfix)
		p.write("[")
		p.list(c.Arguments)
		p.write("] ", c.Operator.String(), " ")
		p.expr(c.Value, precOr)
	case *ast.ExpressionCommand:
		// An object literal or function at the start of a command would be
		// read as a block or a declaration.
		switch c.Expression.(type) {
		case *ast.ObjectLiteral, *ast.Function:
			p.write("(")
			p.expr(c.Expression, 0)
			p.write(")")
		default:
			p.expr(c.Expression, 0)
		}
	default:
		p.write("/* ", ast.Kind(cmd), " */")
	}
}

func (p *printer) block(c *ast.Composite) {
	if len(c.Commands) == 0 {
		p.write("{}")

		return
	}

	p.write("{")
	p.depth++

	for _, sub := range c.Commands {
		p.newline()
		p.command(sub)
	}

	p.depth--
	p.newline()
	p.write("}")
}

// body writes a loop or branch body. Blocks stay on the header line; a
// single command is indented on the next line.
func (p *printer) body(cmd ast.Command) {
	if c, ok := cmd.(*ast.Composite); ok {
		p.write(" ")
		p.block(c)

		return
	}

	p.depth++
	p.newline()
	p.command(cmd)
	p.depth--
}

func (p *printer) function(fn *ast.Function) {
	p.write("function")

	if fn.Name != "" {
		p.write(" ", fn.Name)
	}

	p.write("(", strings.Join(fn.Parameters, ", "), ") ")

	outer := p.unit
	p.unit = newUnit(fn.Parameters)
	p.block(fn.Body)
	p.unit = outer
}

func (p *printer) list(exprs []ast.Expression) {
	for i, e := range exprs {
		if i > 0 {
			p.write(", ")
		}

		p.expr(e, precOr)
	}
}

// expr writes e, parenthesized if it binds more loosely than outer.
//
//nolint:cyclop,gocyclo,funlen
func (p *printer) expr(e ast.Expression, outer int) {
	prec := precedence(e)
	if prec < outer {
		p.write("(")
		defer p.write(")")
	}

	switch e := e.(type) {
	case *ast.Constant:
		p.write(literal(e.Value))
	case *ast.LocalVariable:
		p.write(e.Name)
	case *ast.GlobalVariable:
		p.write(e.Name)
	case *ast.ArithmeticUnary:
		p.write(e.Operator.String())

		// Keep "- -x" from reading as a decrement.
		if inner, ok := e.Operand.(*ast.ArithmeticUnary); ok && inner.Operator == e.Operator {
			p.write(" ")
		}

		p.expr(e.Operand, precUnary)
	case *ast.Not:
		p.write("!")
		p.expr(e.Operand, precUnary)
	case *ast.ArithmeticBinary:
		p.expr(e.Left, prec)
		p.write(" ", e.Operator.String(), " ")
		p.expr(e.Right, prec+1)
	case *ast.Compare:
		p.expr(e.Left, prec+1)
		p.write(" ", e.Operator.String(), " ")
		p.expr(e.Right, prec+1)
	case *ast.And:
		p.expr(e.Left, prec)
		p.write(" && ")
		p.expr(e.Right, prec+1)
	case *ast.Or:
		p.expr(e.Left, prec)
		p.write(" || ")
		p.expr(e.Right, prec+1)
	case *ast.Increment:
		if e.Operator.IsPrefix() {
			p.write(e.Operator.String())
			p.expr(e.Target, precPostfix)
		} else {
			p.expr(e.Target, precPostfix)
			p.write(e.Operator.String())
		}
	case *ast.Dot:
		p.expr(e.Target, precPostfix)
		p.write(".", e.Name)

		if e.Call {
			p.write("(")
			p.list(e.Arguments)
			p.write(")")
		}
	case *ast.Index:
		p.expr(e.Target, precPostfix)
		p.write("[")
		p.list(e.Arguments)
		p.write("]")
	case *ast.Invoke:
		p.expr(e.Callee, precPostfix)
		p.write("(")
		p.list(e.Arguments)
		p.write(")")
	case *ast.New:
		p.write("new ")
		p.expr(e.Constructor, precPrimary)
		p.write("(")
		p.list(e.Arguments)
		p.write(")")
	case *ast.This:
		p.write("this")
	case *ast.ArrayLiteral:
		p.write("[")
		p.list(e.Elements)
		p.write("]")
	case *ast.ObjectLiteral:
		if len(e.Keys) == 0 {
			p.write("{}")

			break
		}

		p.write("{ ")

		for i, k := range e.Keys {
			if i > 0 {
				p.write(", ")
			}

			p.write(objectKey(k), ": ")
			p.expr(e.Values[i], precOr)
		}

		p.write(" }")
	case *ast.Function:
		p.function(e)
	default:
		p.write("/* ", ast.Kind(e), " */")
	}
}

//nolint:cyclop
func precedence(e ast.Expression) int {
	switch e := e.(type) {
	case *ast.Or:
		return precOr
	case *ast.And:
		return precAnd
	case *ast.Compare:
		return precCompare
	case *ast.ArithmeticBinary:
		switch e.Operator {
		case ast.Add, ast.Subtract:
			return precAdditive
		default:
			return precMultiplicative
		}
	case *ast.ArithmeticUnary, *ast.Not:
		return precUnary
	case *ast.Increment:
		if e.Operator.IsPrefix() {
			return precUnary
		}

		return precPostfix
	case *ast.Dot, *ast.Index, *ast.Invoke:
		return precPostfix
	case *ast.New:
		return precUnary
	case *ast.Constant:
		// A negative number literal reads back as unary minus.
		switch v := e.Value.(type) {
		case int:
			if v < 0 {
				return precUnary
			}
		case float64:
			if v < 0 || math.Signbit(v) {
				return precUnary
			}
		}

		return precPrimary
	default:
		return precPrimary
	}
}

// literal writes a constant in a form the lexer reads back as the same
// value.
func literal(v runtime.Value) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case runtime.UndefinedType:
		return "undefined"
	case string:
		return strconv.Quote(v)
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEIN") {
			s += ".0"
		}

		return s
	default:
		return runtime.ToString(v)
	}
}

// objectKey writes k bare when it is a plain name, quoted otherwise.
func objectKey(k string) string {
	for i, r := range k {
		name := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !name && (i == 0 || r < '0' || r > '9') {
			return strconv.Quote(k)
		}
	}

	if k == "" || token.IsKeyword(k) {
		return strconv.Quote(k)
	}

	return k
}

package parser

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/lang/scope"
	"github.com/ardnew/ajscript/lang/token"
)

// ParseExpression parses one expression. It returns nil without consuming
// input at end of input or when the next token can only close or separate
// an expression.
func (p *Parser) ParseExpression() (ast.Expression, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.EOF || isTerminator(tok) {
		return nil, nil //nolint:nilnil
	}

	return p.parseOr()
}

func isTerminator(tok token.Token) bool {
	return tok.Is(token.Separator, ";", ")", "]", "}", ",", ":")
}

// required parses an expression that must be present.
func (p *Parser) required() (ast.Expression, error) {
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	if expr == nil {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		return nil, p.unexpected(tok, "expression")
	}

	return expr, nil
}

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if !tok.Is(token.Operator, "||") {
			return left, nil
		}

		_, _ = p.next()

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = &ast.Or{Span: ast.At(tok.Pos), Left: left, Right: right}
	}
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseCompare()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if !tok.Is(token.Operator, "&&") {
			return left, nil
		}

		_, _ = p.next()

		right, err := p.parseCompare()
		if err != nil {
			return nil, err
		}

		left = &ast.And{Span: ast.At(tok.Pos), Left: left, Right: right}
	}
}

//nolint:gochecknoglobals
var compareOperators = map[string]ast.CompareOperator{
	"==": ast.Equal,
	"!=": ast.NotEqual,
	"<":  ast.Less,
	"<=": ast.LessEqual,
	">":  ast.Greater,
	">=": ast.GreaterEqual,
}

// parseCompare parses at most one comparison; comparisons do not chain.
func (p *Parser) parseCompare() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	op, ok := compareOperators[tok.Value]
	if !ok || tok.Kind != token.Operator {
		return left, nil
	}

	_, _ = p.next()

	right, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	return &ast.Compare{Span: ast.At(tok.Pos), Operator: op, Left: left, Right: right}, nil
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	return p.parseBinary(p.parseMultiplicative, map[string]ast.BinaryOperator{
		"+": ast.Add,
		"-": ast.Subtract,
	})
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	return p.parseBinary(p.parseUnary, map[string]ast.BinaryOperator{
		"*": ast.Multiply,
		"/": ast.Divide,
		"%": ast.Modulo,
	})
}

// parseBinary parses a left-associative chain of operand (op operand)*.
func (p *Parser) parseBinary(
	operand func() (ast.Expression, error),
	ops map[string]ast.BinaryOperator,
) (ast.Expression, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		op, ok := ops[tok.Value]
		if !ok || tok.Kind != token.Operator {
			return left, nil
		}

		_, _ = p.next()

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = &ast.ArithmeticBinary{
			Span:     ast.At(tok.Pos),
			Operator: op,
			Left:     left,
			Right:    right,
		}
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind != token.Operator {
		return p.parsePostfix()
	}

	switch tok.Value {
	case "-", "!", "++", "--":
		_, _ = p.next()
	default:
		return p.parsePostfix()
	}

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	switch tok.Value {
	case "-":
		return &ast.ArithmeticUnary{Span: ast.At(tok.Pos), Operator: ast.Minus, Operand: operand}, nil
	case "!":
		return &ast.Not{Span: ast.At(tok.Pos), Operand: operand}, nil
	case "++":
		return p.increment(tok.Pos, ast.PreIncrement, operand)
	default:
		return p.increment(tok.Pos, ast.PreDecrement, operand)
	}
}

func (p *Parser) increment(pos token.Position, op ast.IncrementOperator, target ast.Expression) (ast.Expression, error) {
	if err := p.checkAssignable(target); err != nil {
		return nil, err
	}

	return &ast.Increment{Span: ast.At(pos), Operator: op, Target: target}, nil
}

// checkAssignable reports an error unless target is a local variable or a
// property read.
func (p *Parser) checkAssignable(target ast.Expression) error {
	if ast.IsAssignable(target) {
		return nil
	}

	if g, ok := target.(*ast.GlobalVariable); ok {
		return p.fail(ErrUndefinedVariable.With(slog.String("name", g.Name)),
			g.Pos(), strconv.Quote(g.Name))
	}

	return p.fail(ErrInvalidAssignment.With(slog.String("kind", ast.Kind(target))),
		target.Pos(), ast.Kind(target))
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		switch {
		case tok.Is(token.Operator, "."):
			_, _ = p.next()

			expr, err = p.parseMember(tok.Pos, expr)

		case tok.Is(token.Separator, "["):
			_, _ = p.next()

			var args []ast.Expression

			args, err = p.parseArguments("]")
			if err == nil && len(args) == 0 {
				err = p.unexpected(tok, "index")
			}

			expr = &ast.Index{Span: ast.At(tok.Pos), Target: expr, Arguments: args}

		case tok.Is(token.Separator, "("):
			_, _ = p.next()

			var args []ast.Expression

			args, err = p.parseArguments(")")
			expr = &ast.Invoke{Span: ast.At(tok.Pos), Callee: expr, Arguments: args}

		case tok.Is(token.Operator, "++"):
			_, _ = p.next()

			return p.increment(tok.Pos, ast.PostIncrement, expr)

		case tok.Is(token.Operator, "--"):
			_, _ = p.next()

			return p.increment(tok.Pos, ast.PostDecrement, expr)

		default:
			return expr, nil
		}

		if err != nil {
			return nil, err
		}
	}
}

// parseMember parses the name following a dot and, if present, the call
// argument list.
func (p *Parser) parseMember(pos token.Position, target ast.Expression) (ast.Expression, error) {
	name, err := p.next()
	if err != nil {
		return nil, err
	}

	if name.Kind != token.Name && name.Kind != token.Keyword && name.Kind != token.Boolean {
		return nil, p.unexpected(name, "member name")
	}

	dot := &ast.Dot{Span: ast.At(pos), Target: target, Name: name.Value}

	call, err := p.accept(token.Separator, "(")
	if err != nil || !call {
		return dot, err
	}

	dot.Call = true

	dot.Arguments, err = p.parseArguments(")")
	if err != nil {
		return nil, err
	}

	return dot, nil
}

// parseArguments parses a comma-separated, possibly empty expression list
// after its opening bracket, through the closing token.
func (p *Parser) parseArguments(closing string) ([]ast.Expression, error) {
	args := []ast.Expression{}

	done, err := p.accept(token.Separator, closing)
	if err != nil || done {
		return args, err
	}

	for {
		arg, err := p.required()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		more, err := p.accept(token.Separator, ",")
		if err != nil {
			return nil, err
		}

		if !more {
			break
		}
	}

	if _, err := p.expect(token.Separator, closing, ","); err != nil {
		return nil, err
	}

	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}

	at := ast.At(tok.Pos)

	switch tok.Kind {
	case token.Integer:
		v, err := parseInteger(tok.Value)
		if err != nil {
			return nil, p.fail(ErrInvalidLiteral.Wrap(err), tok.Pos, tok.Value)
		}

		return &ast.Constant{Span: at, Value: v}, nil

	case token.Real:
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.fail(ErrInvalidLiteral.Wrap(err), tok.Pos, tok.Value)
		}

		return &ast.Constant{Span: at, Value: v}, nil

	case token.String:
		return &ast.Constant{Span: at, Value: tok.Value}, nil

	case token.Boolean:
		return &ast.Constant{Span: at, Value: tok.Value == "true"}, nil

	case token.Name:
		if slot, depth := p.resolve(tok.Value); slot != scope.NotFound {
			return &ast.LocalVariable{Span: at, Name: tok.Value, Slot: slot, Depth: depth}, nil
		}

		return &ast.GlobalVariable{Span: at, Name: tok.Value}, nil

	case token.Keyword:
		return p.parseKeywordExpression(tok)

	case token.Separator:
		switch tok.Value {
		case "(":
			expr, err := p.required()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(token.Separator, ")"); err != nil {
				return nil, err
			}

			return expr, nil

		case "[":
			elems, err := p.parseArguments("]")
			if err != nil {
				return nil, err
			}

			return &ast.ArrayLiteral{Span: at, Elements: elems}, nil

		case "{":
			return p.parseObjectLiteral(tok)
		}
	}

	return nil, p.unexpected(tok, "expression")
}

func parseInteger(text string) (int, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		v, err := strconv.ParseInt(text[2:], 16, strconv.IntSize)

		return int(v), err
	}

	v, err := strconv.ParseInt(text, 10, strconv.IntSize)

	return int(v), err
}

func (p *Parser) parseKeywordExpression(tok token.Token) (ast.Expression, error) {
	at := ast.At(tok.Pos)

	switch tok.Value {
	case "null":
		return &ast.Constant{Span: at, Value: nil}, nil
	case "undefined":
		return &ast.Constant{Span: at, Value: runtime.Undefined}, nil
	case "this":
		return &ast.This{Span: at}, nil
	case "function":
		name := ""

		next, err := p.peek()
		if err != nil {
			return nil, err
		}

		if next.Kind == token.Name {
			_, _ = p.next()
			name = next.Value
		}

		return p.parseFunction(tok.Pos, name)
	case "new":
		return p.parseNew(tok.Pos)
	default:
		return nil, p.unexpected(tok, "expression")
	}
}

// parseNew parses the constructor reference, a primary followed by any
// number of member reads, and its optional argument list.
func (p *Parser) parseNew(pos token.Position) (ast.Expression, error) {
	ctor, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if !tok.Is(token.Operator, ".") {
			break
		}

		_, _ = p.next()

		name, err := p.expect(token.Name)
		if err != nil {
			return nil, err
		}

		ctor = &ast.Dot{Span: ast.At(tok.Pos), Target: ctor, Name: name.Value}
	}

	node := &ast.New{Span: ast.At(pos), Constructor: ctor, Arguments: []ast.Expression{}}

	call, err := p.accept(token.Separator, "(")
	if err != nil || !call {
		return node, err
	}

	node.Arguments, err = p.parseArguments(")")
	if err != nil {
		return nil, err
	}

	return node, nil
}

func (p *Parser) parseObjectLiteral(open token.Token) (ast.Expression, error) {
	obj := &ast.ObjectLiteral{Span: ast.At(open.Pos)}

	done, err := p.accept(token.Separator, "}")
	if err != nil || done {
		return obj, err
	}

	for {
		key, err := p.next()
		if err != nil {
			return nil, err
		}

		switch key.Kind {
		case token.Name, token.Keyword, token.String, token.Integer, token.Boolean:
		default:
			return nil, p.unexpected(key, "property name")
		}

		if _, err := p.expect(token.Separator, ":"); err != nil {
			return nil, err
		}

		value, err := p.required()
		if err != nil {
			return nil, err
		}

		obj.Keys = append(obj.Keys, key.Value)
		obj.Values = append(obj.Values, value)

		more, err := p.accept(token.Separator, ",")
		if err != nil {
			return nil, err
		}

		if !more {
			break
		}
	}

	if _, err := p.expect(token.Separator, "}", ","); err != nil {
		return nil, err
	}

	return obj, nil
}

// parseFunction parses a parameter list and body as a new unit whose
// first slots hold the parameters.
func (p *Parser) parseFunction(pos token.Position, name string) (*ast.Function, error) {
	if _, err := p.expect(token.Separator, "("); err != nil {
		return nil, err
	}

	params := []string{}

	closed, err := p.accept(token.Separator, ")")
	if err != nil {
		return nil, err
	}

	for !closed {
		param, err := p.expect(token.Name)
		if err != nil {
			return nil, err
		}

		params = append(params, param.Value)

		tok, err := p.expect(token.Separator, ",", ")")
		if err != nil {
			return nil, err
		}

		closed = tok.Value == ")"
	}

	open, err := p.expect(token.Separator, "{")
	if err != nil {
		return nil, err
	}

	fn := &ast.Function{Span: ast.At(pos), Name: name, Parameters: params}
	unit := scope.New(params...)

	err = p.withScope(unit, func() error {
		fn.Body, err = p.parseBlock(open)

		return err
	})
	if err != nil {
		return nil, err
	}

	fn.FrameSize = unit.Len()
	fn.Names = unit.Names()

	p.logger.Trace("function parsed",
		slog.String("name", name),
		slog.Int("params", len(params)),
		slog.Int("slots", fn.FrameSize),
		slog.Int("depth", p.depth),
	)

	return fn, nil
}

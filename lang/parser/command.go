package parser

import (
	"log/slog"

	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/lang/runtime"
	"github.com/ardnew/ajscript/lang/token"
)

// ParseCommand parses one command. It returns nil at end of input.
func (p *Parser) ParseCommand() (ast.Command, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.EOF {
		return nil, nil //nolint:nilnil
	}

	cmd, err := p.parseCommand(tok)
	if err != nil {
		return nil, err
	}

	p.logger.Trace("command parsed",
		slog.String("kind", ast.Kind(cmd)),
		slog.String("pos", cmd.Pos().String()),
	)

	return cmd, nil
}

// requiredCommand parses a command that must be present.
func (p *Parser) requiredCommand() (ast.Command, error) {
	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	if tok.Kind == token.EOF {
		return nil, p.unexpected(tok, "command")
	}

	return p.parseCommand(tok)
}

func (p *Parser) parseCommand(tok token.Token) (ast.Command, error) {
	switch {
	case tok.Kind == token.Keyword:
		switch tok.Value {
		case "var":
			_, _ = p.next()

			return p.parseVar(tok.Pos)
		case "return":
			_, _ = p.next()

			return p.parseReturn(tok.Pos)
		case "if":
			_, _ = p.next()

			return p.parseIf(tok.Pos)
		case "while":
			_, _ = p.next()

			return p.parseWhile(tok.Pos)
		case "for":
			_, _ = p.next()

			return p.parseFor(tok.Pos)
		case "break":
			_, _ = p.next()

			return &ast.Break{Span: ast.At(tok.Pos)}, p.terminate()
		case "continue":
			_, _ = p.next()

			return &ast.Continue{Span: ast.At(tok.Pos)}, p.terminate()
		case "function":
			_, _ = p.next()

			return p.parseFunctionDeclaration(tok.Pos)
		}

	case tok.Is(token.Separator, "{"):
		_, _ = p.next()

		return p.parseBlock(tok)

	case tok.Is(token.Separator, ";"):
		_, _ = p.next()

		return &ast.Composite{Span: ast.At(tok.Pos)}, nil
	}

	cmd, err := p.parseSimple()
	if err != nil {
		return nil, err
	}

	return cmd, p.terminate()
}

func (p *Parser) terminate() error {
	_, err := p.expect(token.Separator, ";")

	return err
}

// parseBlock parses commands after an opening brace through the matching
// closing brace.
func (p *Parser) parseBlock(open token.Token) (*ast.Composite, error) {
	block := &ast.Composite{Span: ast.At(open.Pos), Commands: []ast.Command{}}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		if tok.Is(token.Separator, "}") {
			_, _ = p.next()

			return block, nil
		}

		if tok.Kind == token.EOF {
			return nil, p.unexpected(tok, "}")
		}

		cmd, err := p.parseCommand(tok)
		if err != nil {
			return nil, err
		}

		block.Commands = append(block.Commands, cmd)
	}
}

// parseVar parses the remainder of a var declaration, including the
// terminating semicolon. The initializer is resolved before the new slot
// is defined, so it still sees any variable the declaration shadows.
func (p *Parser) parseVar(pos token.Position) (ast.Command, error) {
	cmd, err := p.parseVarBody(pos)
	if err != nil {
		return nil, err
	}

	return cmd, p.terminate()
}

func (p *Parser) parseVarBody(pos token.Position) (*ast.SetLocalVariable, error) {
	name, err := p.expect(token.Name)
	if err != nil {
		return nil, err
	}

	return p.parseVarInitializer(pos, name)
}

func (p *Parser) parseVarInitializer(pos token.Position, name token.Token) (*ast.SetLocalVariable, error) {
	var value ast.Expression = &ast.Constant{Span: ast.At(name.Pos), Value: runtime.Undefined}

	assign, err := p.accept(token.Operator, "=")
	if err != nil {
		return nil, err
	}

	if assign {
		if value, err = p.required(); err != nil {
			return nil, err
		}
	}

	return &ast.SetLocalVariable{
		Span:  ast.At(pos),
		Name:  name.Value,
		Slot:  p.DefineVariable(name.Value),
		Value: value,
	}, nil
}

func (p *Parser) parseReturn(pos token.Position) (ast.Command, error) {
	value, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.Return{Span: ast.At(pos), Value: value}, p.terminate()
}

// parseCondition parses a parenthesized expression.
func (p *Parser) parseCondition() (ast.Expression, error) {
	if _, err := p.expect(token.Separator, "("); err != nil {
		return nil, err
	}

	cond, err := p.required()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Separator, ")"); err != nil {
		return nil, err
	}

	return cond, nil
}

func (p *Parser) parseIf(pos token.Position) (ast.Command, error) {
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	then, err := p.requiredCommand()
	if err != nil {
		return nil, err
	}

	cmd := &ast.If{Span: ast.At(pos), Condition: cond, Then: then}

	hasElse, err := p.accept(token.Keyword, "else")
	if err != nil || !hasElse {
		return cmd, err
	}

	cmd.Else, err = p.requiredCommand()
	if err != nil {
		return nil, err
	}

	return cmd, nil
}

func (p *Parser) parseWhile(pos token.Position) (ast.Command, error) {
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	body, err := p.requiredCommand()
	if err != nil {
		return nil, err
	}

	return &ast.While{Span: ast.At(pos), Condition: cond, Body: body}, nil
}

// parseFor parses both loop forms:
//
//	for (var name in expression) command
//	for ([init]; [condition]; [end]) command
func (p *Parser) parseFor(pos token.Position) (ast.Command, error) {
	if _, err := p.expect(token.Separator, "("); err != nil {
		return nil, err
	}

	var (
		loop = &ast.For{Span: ast.At(pos)}
		err  error
	)

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	switch {
	case tok.Is(token.Keyword, "var"):
		_, _ = p.next()

		name, err := p.expect(token.Name)
		if err != nil {
			return nil, err
		}

		in, err := p.accept(token.Keyword, "in")
		if err != nil {
			return nil, err
		}

		if in {
			return p.parseForEach(pos, name)
		}

		if loop.Init, err = p.parseVarInitializer(tok.Pos, name); err != nil {
			return nil, err
		}

		if err := p.terminate(); err != nil {
			return nil, err
		}

	case tok.Is(token.Separator, ";"):
		_, _ = p.next()

	default:
		if loop.Init, err = p.parseSimple(); err != nil {
			return nil, err
		}

		if err := p.terminate(); err != nil {
			return nil, err
		}
	}

	if loop.Condition, err = p.ParseExpression(); err != nil {
		return nil, err
	}

	if err := p.terminate(); err != nil {
		return nil, err
	}

	closed, err := p.accept(token.Separator, ")")
	if err != nil {
		return nil, err
	}

	if !closed {
		if loop.End, err = p.parseSimple(); err != nil {
			return nil, err
		}

		if _, err := p.expect(token.Separator, ")"); err != nil {
			return nil, err
		}
	}

	if loop.Body, err = p.requiredCommand(); err != nil {
		return nil, err
	}

	return loop, nil
}

func (p *Parser) parseForEach(pos token.Position, name token.Token) (ast.Command, error) {
	iterable, err := p.required()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Separator, ")"); err != nil {
		return nil, err
	}

	loop := &ast.ForEach{
		Span:     ast.At(pos),
		Name:     name.Value,
		Slot:     p.DefineVariable(name.Value),
		Iterable: iterable,
	}

	if loop.Body, err = p.requiredCommand(); err != nil {
		return nil, err
	}

	return loop, nil
}

// parseFunctionDeclaration parses a named function command. Inside a
// function body the name gets a slot before the body is parsed, so the
// function can call itself and its siblings can see it.
func (p *Parser) parseFunctionDeclaration(pos token.Position) (ast.Command, error) {
	name, err := p.expect(token.Name)
	if err != nil {
		return nil, err
	}

	def := &ast.DefineFunction{Span: ast.At(pos), Name: name.Value}

	if p.depth > 0 {
		def.Local = true
		def.Slot = p.DefineVariable(name.Value)
	}

	if def.Function, err = p.parseFunction(pos, name.Value); err != nil {
		return nil, err
	}

	return def, nil
}

//nolint:gochecknoglobals
var assignOperators = map[string]ast.AssignOperator{
	"=":  ast.Assign,
	"+=": ast.AddAssign,
	"-=": ast.SubtractAssign,
}

// parseSimple parses an assignment or an expression used as a command,
// without its terminator.
func (p *Parser) parseSimple() (ast.Command, error) {
	start, err := p.peek()
	if err != nil {
		return nil, err
	}

	target, err := p.required()
	if err != nil {
		return nil, err
	}

	tok, err := p.peek()
	if err != nil {
		return nil, err
	}

	op, ok := assignOperators[tok.Value]
	if !ok || tok.Kind != token.Operator {
		return &ast.ExpressionCommand{Span: ast.At(start.Pos), Expression: target}, nil
	}

	_, _ = p.next()

	value, err := p.required()
	if err != nil {
		return nil, err
	}

	return p.assignment(start.Pos, op, target, value)
}

// assignment builds the command that stores value into target. Indexed
// targets become SetArray over the indexed base.
func (p *Parser) assignment(pos token.Position, op ast.AssignOperator, target, value ast.Expression) (ast.Command, error) {
	if index, ok := target.(*ast.Index); ok {
		switch base := index.Target.(type) {
		case *ast.LocalVariable, *ast.GlobalVariable, *ast.Index:
		case *ast.Dot:
			if base.Call {
				return nil, p.fail(ErrInvalidAssignment.With(slog.String("kind", "call")),
					base.Pos(), ast.Kind(base))
			}
		default:
			return nil, p.fail(ErrInvalidAssignment.With(slog.String("kind", ast.Kind(base))),
				base.Pos(), ast.Kind(base))
		}

		return &ast.SetArray{
			Span:      ast.At(pos),
			Operator:  op,
			Target:    index.Target,
			Arguments: index.Arguments,
			Value:     value,
		}, nil
	}

	if err := p.checkAssignable(target); err != nil {
		return nil, err
	}

	return &ast.Set{Span: ast.At(pos), Operator: op, Target: target, Value: value}, nil
}

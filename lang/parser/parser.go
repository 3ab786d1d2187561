// Package parser turns script source into a syntax tree.
//
// A Parser reads tokens from a [lexer.Lexer] and resolves local variable
// names to frame slots using a [scope.Scope] as it goes. Each function body
// is parsed against its own scope. No error recovery is attempted: the
// first syntax error aborts the parse.
package parser

import (
	"log/slog"
	"slices"

	"github.com/ardnew/ajscript/lang/ast"
	"github.com/ardnew/ajscript/lang/lexer"
	"github.com/ardnew/ajscript/lang/scope"
	"github.com/ardnew/ajscript/lang/token"
	"github.com/ardnew/ajscript/log"
	"github.com/ardnew/ajscript/pkg"
)

// Parser is a recursive-descent parser over one source text.
type Parser struct {
	lex    *lexer.Lexer
	scope  *scope.Scope
	outer  []*scope.Scope // enclosing units, outermost first
	logger log.Logger
	depth  int
}

// Option configures a Parser.
type Option func(*Parser)

// WithScope makes the parser resolve and define top-level variables in s
// instead of a fresh scope. Use it to continue a unit across several
// sources, as an interactive session does.
func WithScope(s *scope.Scope) Option {
	return func(p *Parser) {
		if s != nil {
			p.scope = s
		}
	}
}

// WithLogger sets the logger used for trace output.
func WithLogger(l log.Logger) Option {
	return func(p *Parser) { p.logger = l }
}

// New returns a Parser over source.
func New(source string, opts ...Option) *Parser {
	p := &Parser{lex: lexer.New(source), scope: scope.New()}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// DefineVariable allocates a new slot for name in the current scope.
func (p *Parser) DefineVariable(name string) int { return p.scope.Define(name) }

// GetVariableOffset returns the slot of name in the current scope, or
// [scope.NotFound].
func (p *Parser) GetVariableOffset(name string) int { return p.scope.Offset(name) }

// Scope returns the scope of the unit being parsed.
func (p *Parser) Scope() *scope.Scope { return p.scope }

// ParseProgram parses commands until end of input.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	p.logger.Trace("parse start", slog.Int("bytes", len(p.lex.Source())))

	body := &ast.Composite{Span: ast.At(token.Position{Offset: 0, Line: 1, Column: 1})}

	for {
		cmd, err := p.ParseCommand()
		if err != nil {
			return nil, err
		}

		if cmd == nil {
			break
		}

		body.Commands = append(body.Commands, cmd)
	}

	p.logger.Trace("parse complete",
		slog.Int("commands", body.CommandCount()),
		slog.Int("slots", p.scope.Len()),
	)

	return &ast.Program{
		Span:      body.Span,
		Body:      body,
		FrameSize: p.scope.Len(),
		Names:     p.scope.Names(),
	}, nil
}

// withScope parses a nested unit against s and restores the enclosing
// scope afterwards. Names of the enclosing units stay resolvable from s.
func (p *Parser) withScope(s *scope.Scope, fn func() error) error {
	p.outer = append(p.outer, p.scope)
	p.scope = s
	p.depth++

	defer func() {
		p.scope = p.outer[len(p.outer)-1]
		p.outer = p.outer[:len(p.outer)-1]
		p.depth--
	}()

	return fn()
}

// resolve finds the innermost declaration of name. depth is the number of
// units between the current one and the declaring one.
func (p *Parser) resolve(name string) (slot, depth int) {
	if slot := p.scope.Offset(name); slot != scope.NotFound {
		return slot, 0
	}

	for i, s := range slices.Backward(p.outer) {
		if slot := s.Offset(name); slot != scope.NotFound {
			return slot, len(p.outer) - i
		}
	}

	return scope.NotFound, 0
}

func (p *Parser) peek() (token.Token, error) { return p.lex.Peek() }

func (p *Parser) next() (token.Token, error) { return p.lex.Next() }

// accept consumes the next token if it has kind k and one of values.
func (p *Parser) accept(k token.Kind, values ...string) (bool, error) {
	tok, err := p.peek()
	if err != nil {
		return false, err
	}

	if !tok.Is(k, values...) {
		return false, nil
	}

	_, err = p.next()

	return true, err
}

// expect consumes the next token, which must have kind k and, when given,
// one of values.
func (p *Parser) expect(k token.Kind, values ...string) (token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return tok, err
	}

	if !tok.Is(k, values...) {
		if len(values) == 0 {
			return tok, p.unexpected(tok, k.String())
		}

		return tok, p.unexpected(tok, values...)
	}

	return tok, nil
}

func (p *Parser) unexpected(tok token.Token, expected ...string) error {
	return p.fail(ErrUnexpectedToken.With(slog.String("token", tok.String())),
		tok.Pos, tok.String(), expected...)
}

func (p *Parser) fail(err *pkg.Error, pos token.Position, found string, expected ...string) error {
	e := &Error{
		Err:      err,
		Pos:      pos,
		Found:    found,
		Expected: expected,
		Source:   p.lex.Source(),
	}

	p.logger.Debug("syntax error", slog.Any("error", e))

	return e
}

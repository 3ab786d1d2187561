// Package lexer converts script source text into a stream of classified
// tokens with one token of lookahead.
package lexer

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/ajscript/lang/token"
	"github.com/ardnew/ajscript/pkg"
)

// Lexical errors. A failed scan returns an [*Error] that matches one of
// these with [errors.Is].
var (
	ErrUnterminatedString  = pkg.NewError("unterminated string literal")
	ErrUnterminatedComment = pkg.NewError("unterminated block comment")
	ErrInvalidCharacter    = pkg.NewError("invalid character")
	ErrInvalidNumber       = pkg.NewError("invalid number literal")
	ErrInvalidEscape       = pkg.NewError("invalid escape sequence")
)

// operators lists multi-character operators before their prefixes so the
// scanner always takes the longest match.
//
//nolint:gochecknoglobals
var operators = []string{
	"++", "--", "+=", "-=", "==", "!=", "<=", ">=", "&&", "||",
	"+", "-", "*", "/", "%", "<", ">", "=", "!", ".",
}

const separators = "()[]{},;:"

// Lexer scans tokens from a source string.
type Lexer struct {
	input  string
	pos    int
	line   int
	col    int
	peeked *token.Token
	err    error
}

// New returns a Lexer positioned at the start of source.
func New(source string) *Lexer {
	return &Lexer{input: source, line: 1, col: 1}
}

// Source returns the text being scanned.
func (l *Lexer) Source() string { return l.input }

// Next consumes and returns the next token. At end of input it returns an
// EOF token on every call.
func (l *Lexer) Next() (token.Token, error) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil

		return tok, nil
	}

	if l.err != nil {
		return token.Token{Kind: token.EOF, Pos: l.position()}, l.err
	}

	tok, err := l.scan()
	if err != nil {
		l.err = err
	}

	return tok, err
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (token.Token, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}

	tok, err := l.Next()
	if err != nil {
		return tok, err
	}

	l.peeked = &tok

	return tok, nil
}

func (l *Lexer) scan() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{Kind: token.EOF, Pos: l.position()}, err
	}

	pos := l.position()

	if l.eof() {
		return token.Token{Kind: token.EOF, Pos: pos}, nil
	}

	r := l.peek()

	switch {
	case isNameStart(r):
		return l.scanName(pos), nil

	case isDigit(r), r == '.' && isDigit(l.peekAt(1)):
		return l.scanNumber(pos)

	case r == '"', r == '\'':
		return l.scanString(pos)

	case strings.ContainsRune(separators, r):
		l.advance()

		return token.Token{Kind: token.Separator, Value: string(r), Pos: pos}, nil
	}

	for _, op := range operators {
		if strings.HasPrefix(l.input[l.pos:], op) {
			for range len(op) {
				l.advance()
			}

			return token.Token{Kind: token.Operator, Value: op, Pos: pos}, nil
		}
	}

	return token.Token{Kind: token.EOF, Pos: pos}, l.fail(ErrInvalidCharacter, pos, slog.String("char", strconv.QuoteRune(r)))
}

func (l *Lexer) scanName(pos token.Position) token.Token {
	start := l.pos

	for !l.eof() && isNamePart(l.peek()) {
		l.advance()
	}

	word := l.input[start:l.pos]

	switch {
	case word == "true", word == "false":
		return token.Token{Kind: token.Boolean, Value: word, Pos: pos}
	case token.IsKeyword(word):
		return token.Token{Kind: token.Keyword, Value: word, Pos: pos}
	default:
		return token.Token{Kind: token.Name, Value: word, Pos: pos}
	}
}

func (l *Lexer) scanNumber(pos token.Position) (token.Token, error) {
	start := l.pos
	kind := token.Integer

	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance()
		l.advance()

		for !l.eof() && isHexDigit(l.peek()) {
			l.advance()
		}

		text := l.input[start:l.pos]
		if len(text) == 2 || (!l.eof() && isNamePart(l.peek())) {
			return token.Token{}, l.fail(ErrInvalidNumber, pos, slog.String("text", text))
		}

		return token.Token{Kind: kind, Value: text, Pos: pos}, nil
	}

	l.digits()

	// A dot followed by a name start is member access, not a fraction.
	if l.peek() == '.' && !isNameStart(l.peekAt(1)) {
		kind = token.Real

		l.advance()
		l.digits()
	}

	if r := l.peek(); r == 'e' || r == 'E' {
		kind = token.Real

		l.advance()

		if r := l.peek(); r == '+' || r == '-' {
			l.advance()
		}

		if !isDigit(l.peek()) {
			return token.Token{}, l.fail(ErrInvalidNumber, pos, slog.String("text", l.input[start:l.pos]))
		}

		l.digits()
	}

	if !l.eof() && isNamePart(l.peek()) {
		return token.Token{}, l.fail(ErrInvalidNumber, pos, slog.String("text", l.input[start:l.pos]))
	}

	return token.Token{Kind: kind, Value: l.input[start:l.pos], Pos: pos}, nil
}

func (l *Lexer) digits() {
	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) scanString(pos token.Position) (token.Token, error) {
	quote := l.peek()
	l.advance()

	var sb strings.Builder

	for {
		if l.eof() || l.peek() == '\n' {
			return token.Token{}, l.fail(ErrUnterminatedString, pos)
		}

		r := l.peek()

		if r == quote {
			l.advance()

			return token.Token{Kind: token.String, Value: sb.String(), Pos: pos}, nil
		}

		if r != '\\' {
			sb.WriteRune(r)
			l.advance()

			continue
		}

		escPos := l.position()

		l.advance()

		if l.eof() {
			return token.Token{}, l.fail(ErrUnterminatedString, pos)
		}

		seq := l.escape()

		switch seq {
		case `'`, `"`:
			sb.WriteString(seq)

			continue
		case "0":
			sb.WriteByte(0)

			continue
		}

		value, _, _, err := strconv.UnquoteChar(`\`+seq, 0)
		if err != nil {
			return token.Token{}, l.fail(ErrInvalidEscape, escPos, slog.String("sequence", `\`+seq))
		}

		sb.WriteRune(value)
	}
}

// escape consumes the body of an escape sequence following a backslash and
// returns its text.
func (l *Lexer) escape() string {
	start := l.pos
	r := l.peek()

	l.advance()

	width := 0

	switch r {
	case 'x':
		width = 2
	case 'u':
		width = 4
	case 'U':
		width = 8
	}

	for range width {
		if l.eof() {
			break
		}

		l.advance()
	}

	return l.input[start:l.pos]
}

func (l *Lexer) fail(err *pkg.Error, pos token.Position, attrs ...slog.Attr) *Error {
	return &Error{Err: err.With(attrs...), Pos: pos, Source: l.input}
}

func (l *Lexer) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])

	return r
}

func (l *Lexer) peekAt(n int) rune {
	i := l.pos

	for ; n > 0 && i < len(l.input); n-- {
		_, size := utf8.DecodeRuneInString(l.input[i:])
		i += size
	}

	if i >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[i:])

	return r
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])

	l.pos += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) position() token.Position {
	return token.Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		for !l.eof() && unicode.IsSpace(l.peek()) {
			l.advance()
		}

		switch {
		case strings.HasPrefix(l.input[l.pos:], "//"):
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}

		case strings.HasPrefix(l.input[l.pos:], "/*"):
			pos := l.position()

			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				return l.fail(ErrUnterminatedComment, pos)
			}

			for target := l.pos + 2 + end + 2; l.pos < target; {
				l.advance()
			}

		default:
			return nil
		}
	}
}

func isNameStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isNamePart(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// Package lexer implements the scanner half of the Lexer contract
// (spec.md §6.1): initLexer/scanToken, here New/Next. internal/compiler
// is the only consumer; it never looks past the single token Next
// returns.
package lexer

import (
	"github.com/aferrandini/loxc/internal/token"
)

// Lexer turns source text into a stream of tokens, one at a time.
type Lexer struct {
	start, curr         int
	line, col           int
	startLine, startCol int
	src                 []rune
}

// New prepares a Lexer over src. Corresponds to spec.md's initLexer.
func New(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, col: 1}
}

// Next returns the next token, or EOF forever once the source is
// exhausted. Corresponds to spec.md's scanToken.
func (l *Lexer) Next() token.Token {
	l.skipWhitespace()
	l.start, l.startLine, l.startCol = l.curr, l.line, l.col
	if l.atEnd() {
		return l.make(token.EOF)
	}

	c := l.advance()
	switch {
	case isDigit(c):
		return l.number(c)
	case isAlpha(c):
		for isAlpha(l.peek()) || isDigit(l.peek()) {
			l.advance()
		}
		return l.make(l.identType())
	}

	switch c {
	case '(':
		return l.make(token.LParen)
	case ')':
		return l.make(token.RParen)
	case '{':
		return l.make(token.LBrace)
	case '}':
		return l.make(token.RBrace)
	case ';':
		return l.make(token.Semi)
	case ',':
		return l.make(token.Comma)
	case '.':
		return l.make(token.Dot)
	case '-':
		return l.make(token.Minus)
	case '+':
		return l.make(token.Plus)
	case '/':
		return l.make(token.Slash)
	case '*':
		return l.make(token.Star)
	case '&':
		return l.make(token.Amp)
	case '!':
		if l.match('=') {
			return l.make(token.BangEqual)
		}
		return l.make(token.Bang)
	case '=':
		if l.match('=') {
			return l.make(token.EqualEqual)
		}
		return l.make(token.Equal)
	case '<':
		if l.match('=') {
			return l.make(token.LessEqual)
		}
		return l.make(token.Less)
	case '>':
		if l.match('=') {
			return l.make(token.GreaterEqual)
		}
		return l.make(token.Greater)
	case '"':
		return l.string()
	}

	return l.errorToken("unexpected character")
}

func (l *Lexer) number(first rune) token.Token {
	if first == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		l.advance() // consume 'x'/'X'
		for isHexDigit(l.peek()) {
			l.advance()
		}
		return l.make(token.Hex)
	}

	for isDigit(l.peek()) {
		l.advance()
	}

	isFloat := false
	if l.peek() == '.' && isDigit(l.peekNext()) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	if isFloat {
		return l.make(token.Num)
	}
	return l.make(token.Int)
}

func (l *Lexer) string() token.Token {
	for {
		switch l.peek() {
		case '\n':
			l.advance()
		case '"':
			l.advance() // consume the closing quote
			return l.make(token.Str)
		default:
			if l.atEnd() {
				return l.errorToken("unterminated string")
			}
			l.advance()
		}
	}
}

// skipWhitespace skips consecutive whitespace and `//` line comments.
func (l *Lexer) skipWhitespace() {
	for {
		switch l.peek() {
		case '\n', ' ', '\r', '\t':
			l.advance()
		case '/':
			if l.peekNext() != '/' {
				return
			}
			for l.peek() != '\n' && !l.atEnd() {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *Lexer) advance() (res rune) {
	res = l.src[l.curr]
	l.curr++
	if res == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return
}

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.src[l.curr]
}

func (l *Lexer) peekNext() rune {
	if l.atEnd() || l.curr+1 >= len(l.src) {
		return 0
	}
	return l.src[l.curr+1]
}

func (l *Lexer) match(expected rune) bool {
	if c := l.peek(); c == 0 || c != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) atEnd() bool { return l.curr >= len(l.src) }

func (l *Lexer) identType() token.Type {
	name := string(l.src[l.start:l.curr])
	if ty, ok := token.Keywords[name]; ok {
		return ty
	}
	return token.Ident
}

func (l *Lexer) make(ty token.Type) token.Token {
	return token.Token{
		Type:   ty,
		Line:   l.startLine,
		Column: l.startCol,
		Lexeme: l.src[l.start:l.curr],
	}
}

func (l *Lexer) errorToken(reason string) token.Token {
	t := l.make(token.Err)
	t.Lexeme = []rune(reason)
	return t
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isHexDigit(c rune) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

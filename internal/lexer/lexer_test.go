package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aferrandini/loxc/internal/lexer"
	"github.com/aferrandini/loxc/internal/token"
)

func kinds(t *testing.T, src string) []token.Type {
	t.Helper()
	l := lexer.New(src)
	var out []token.Type
	for {
		tok := l.Next()
		out = append(out, tok.Type)
		if tok.Type == token.EOF {
			return out
		}
	}
}

func TestPunctuationAndOperators(t *testing.T) {
	assert.Equal(t, []token.Type{
		token.Bang, token.BangEqual, token.Equal, token.EqualEqual,
		token.Less, token.LessEqual, token.Greater, token.GreaterEqual,
		token.EOF,
	}, kinds(t, "! != = == < <= > >="))
}

func TestNumberIntegerAndHexLiterals(t *testing.T) {
	assert.Equal(t, []token.Type{token.Num, token.Int, token.Hex, token.EOF}, kinds(t, "1.5 42 0xFF"))
}

func TestKeywordsVsIdentifiers(t *testing.T) {
	assert.Equal(t, []token.Type{token.Fun, token.Ident, token.Global, token.Ident, token.EOF},
		kinds(t, "fun functions global globalish"))
}

func TestStringLiteralSpansNewlines(t *testing.T) {
	l := lexer.New("\"a\nb\"")
	tok := l.Next()
	assert.Equal(t, token.Str, tok.Type)
	assert.Equal(t, "\"a\nb\"", tok.String())
}

func TestUnterminatedStringIsAnErrorToken(t *testing.T) {
	l := lexer.New("\"abc")
	tok := l.Next()
	assert.Equal(t, token.Err, tok.Type)
}

func TestLineCommentSkipped(t *testing.T) {
	assert.Equal(t, []token.Type{token.Ident, token.EOF}, kinds(t, "a // trailing comment\n"))
}

func TestColumnTrackingAdvancesPerToken(t *testing.T) {
	l := lexer.New("ab cd")
	first := l.Next()
	second := l.Next()
	assert.Equal(t, 1, first.Column)
	assert.Equal(t, 4, second.Column)
}

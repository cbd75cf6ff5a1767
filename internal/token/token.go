// Package token defines the closed token-kind enumeration and the
// immutable Token value produced by internal/lexer and consumed by
// internal/compiler. Nothing here ever mutates a Token once scanned.
package token

import (
	"fmt"

	"golang.org/x/exp/slices"
)

//go:generate stringer -type=Type
type Type int

const (
	// Punctuation.
	LParen Type = iota
	RParen
	LBrace
	RBrace
	Comma
	Dot
	Minus
	Plus
	Semi
	Slash
	Star
	Amp // '&', an extension token with no opcode; kept for lexer completeness.

	// Operators.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Ident
	Str
	Num
	Int
	Hex

	// Keywords.
	And
	Class
	Do
	Else
	ElseIf
	End
	EndIf
	False
	For
	Fun
	Global
	If
	Local
	Null
	Or
	Puts
	Return
	Super
	Then
	This
	True
	Var
	While

	Err
	EOF
)

// Keywords maps every reserved identifier to its Type. internal/lexer
// looks names up here once an identifier run has been scanned.
var Keywords = map[string]Type{
	"and":    And,
	"class":  Class,
	"do":     Do,
	"else":   Else,
	"elseif": ElseIf,
	"end":    End,
	"endif":  EndIf,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"global": Global,
	"if":     If,
	"local":  Local,
	"null":   Null,
	"or":     Or,
	"puts":   Puts,
	"return": Return,
	"super":  Super,
	"then":   Then,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// Token is an immutable lexeme: its kind, its source position, and
// (for everything but Err) the exact runes the lexer consumed. An Err
// token carries its diagnostic message as Lexeme instead.
type Token struct {
	Type   Type
	Line   int
	Column int
	Lexeme []rune
}

func (t Token) String() string { return string(t.Lexeme) }

// Eq compares two tokens by kind and lexeme text, the identity notion
// internal/compiler's scope resolver uses to tell two locals apart.
func (t Token) Eq(u Token) bool {
	return t.Type == u.Type && slices.Equal(t.Lexeme, u.Lexeme)
}

// Describe renders a token for diagnostics: its lexeme in single
// quotes ("'x'", "'+'"), or "end" for EOF, so that ErrorAt reads
// "Error at 'x'" / "Error at end".
func (t Token) Describe() string {
	switch t.Type {
	case EOF:
		return "end"
	case Err:
		return t.String()
	default:
		return fmt.Sprintf("'%s'", t)
	}
}
